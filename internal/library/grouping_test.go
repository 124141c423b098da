package library

import "testing"

func mustParse(t *testing.T, name string) Recording {
	t.Helper()
	rec, ok := ParseName(name)
	if !ok {
		t.Fatalf("ParseName(%q) did not match", name)
	}
	return rec
}

func TestGroupScenario(t *testing.T) {
	recs := []Recording{
		mustParse(t, "240101_0900.mp3"),
		mustParse(t, "231231_2359.mp3"),
	}

	groups := Group(recs)

	if len(groups) != 2 {
		t.Fatalf("got %d year groups, want 2", len(groups))
	}
	if groups[0].Year != "2024" || groups[1].Year != "2023" {
		t.Errorf("years = %q, %q; want 2024, 2023", groups[0].Year, groups[1].Year)
	}
	if groups[0].Months[0].Key != "2024-01" {
		t.Errorf("month key = %q", groups[0].Months[0].Key)
	}
	if groups[1].Months[0].Recordings[0].Name != "231231_2359.mp3" {
		t.Errorf("2023 bucket holds %q", groups[1].Months[0].Recordings[0].Name)
	}
}

func TestGroupIsLosslessPartition(t *testing.T) {
	names := []string{
		"240320_1800.mp3",
		"240315_1430.mp3",
		"240201_0700.mp3",
		"231231_2359.mp3",
		"231201_0600.mp3",
		"220505_0505.mp3",
	}
	var recs []Recording
	for _, n := range names {
		recs = append(recs, mustParse(t, n))
	}

	groups := Group(recs)

	seen := map[string]int{}
	total := 0
	for _, yg := range groups {
		for _, mg := range yg.Months {
			for _, rec := range mg.Recordings {
				seen[rec.Name]++
				total++
				if rec.Year != yg.Year {
					t.Errorf("%q filed under year %q", rec.Name, yg.Year)
				}
				if rec.MonthKey() != mg.Key {
					t.Errorf("%q filed under month %q", rec.Name, mg.Key)
				}
			}
		}
	}

	if total != len(recs) {
		t.Errorf("grouped %d recordings, want %d", total, len(recs))
	}
	for _, n := range names {
		if seen[n] != 1 {
			t.Errorf("%q appears %d times, want exactly once", n, seen[n])
		}
	}
}

func TestGroupPreservesListingOrder(t *testing.T) {
	recs := []Recording{
		mustParse(t, "240120_2000.mp3"),
		mustParse(t, "240110_1000.mp3"),
		mustParse(t, "240105_0500.mp3"),
	}

	groups := Group(recs)
	bucket := groups[0].Months[0].Recordings
	for i, rec := range bucket {
		if rec.Name != recs[i].Name {
			t.Errorf("bucket[%d] = %q, want %q", i, rec.Name, recs[i].Name)
		}
	}
}

func TestGroupEmpty(t *testing.T) {
	if groups := Group(nil); len(groups) != 0 {
		t.Errorf("got %d groups for empty listing", len(groups))
	}
}
