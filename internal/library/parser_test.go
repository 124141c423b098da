package library

import (
	"testing"
	"time"
)

func TestParseName(t *testing.T) {
	rec, ok := ParseName("240315_1430.mp3")
	if !ok {
		t.Fatal("expected match")
	}
	if rec.Year != "2024" {
		t.Errorf("Year = %q, want %q", rec.Year, "2024")
	}
	if rec.Month != "03" {
		t.Errorf("Month = %q, want %q", rec.Month, "03")
	}
	if rec.Day != "15" {
		t.Errorf("Day = %q, want %q", rec.Day, "15")
	}
	if rec.Clock != "14:30" {
		t.Errorf("Clock = %q, want %q", rec.Clock, "14:30")
	}

	want := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.Local)
	if !rec.FullDate.Equal(want) {
		t.Errorf("FullDate = %v, want %v", rec.FullDate, want)
	}
}

func TestParseNameRejectsNonMatching(t *testing.T) {
	bad := []string{
		"bad.mp3",
		"240315_1430.wav",
		"240315-1430.mp3",
		"24031_1430.mp3",
		"2403151_1430.mp3",
		"240315_143.mp3",
		"240315_1430.mp3.bak",
		"x240315_1430.mp3",
		"",
	}
	for _, name := range bad {
		if _, ok := ParseName(name); ok {
			t.Errorf("ParseName(%q) matched, want no result", name)
		}
	}
}

func TestParseNameRollsOverInvalidDates(t *testing.T) {
	// Month 13 is not rejected; time.Date normalizes it into the next year.
	rec, ok := ParseName("241301_0000.mp3")
	if !ok {
		t.Fatal("expected match")
	}
	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	if !rec.FullDate.Equal(want) {
		t.Errorf("FullDate = %v, want rolled-over %v", rec.FullDate, want)
	}
}

func TestMonthKey(t *testing.T) {
	rec, _ := ParseName("231231_2359.mp3")
	if rec.MonthKey() != "2023-12" {
		t.Errorf("MonthKey = %q, want %q", rec.MonthKey(), "2023-12")
	}
}
