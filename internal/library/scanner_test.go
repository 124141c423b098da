package library

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"231231_2359.mp3",
		"bad.mp3",
		"240101_0900.mp3",
		"notes.txt",
	)
	if err := os.Mkdir(filepath.Join(dir, "250101_0000.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	recs, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("got %d recordings, want 2", len(recs))
	}
	if recs[0].Name != "240101_0900.mp3" {
		t.Errorf("recs[0] = %q, want newest first", recs[0].Name)
	}
	if recs[1].Name != "231231_2359.mp3" {
		t.Errorf("recs[1] = %q", recs[1].Name)
	}
	if recs[0].Path != filepath.Join(dir, "240101_0900.mp3") {
		t.Errorf("Path = %q", recs[0].Path)
	}
}

func TestScanDescendingForAnyInputOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"240601_1200.mp3",
		"220101_0001.mp3",
		"240601_1159.mp3",
		"230815_2330.mp3",
	)

	recs, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	for i := 1; i < len(recs); i++ {
		if recs[i].FullDate.After(recs[i-1].FullDate) {
			t.Errorf("listing not descending at %d: %v before %v",
				i, recs[i-1].FullDate, recs[i].FullDate)
		}
	}
}

func TestScanMissingDir(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestScanEmptyDir(t *testing.T) {
	recs, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recordings, want 0", len(recs))
	}
}
