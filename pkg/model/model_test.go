package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFeatureValidate(t *testing.T) {
	valid := Feature{ID: "f1", Name: "F", StartDate: date(2026, 1, 1), EndDate: date(2026, 2, 1)}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid feature rejected: %v", err)
	}

	cases := []struct {
		name string
		f    Feature
	}{
		{"empty id", Feature{StartDate: date(2026, 1, 1), EndDate: date(2026, 2, 1)}},
		{"missing dates", Feature{ID: "f1"}},
		{"inverted dates", Feature{ID: "f1", StartDate: date(2026, 2, 1), EndDate: date(2026, 1, 1)}},
		{"bad percent", Feature{ID: "f1", StartDate: date(2026, 1, 1), EndDate: date(2026, 2, 1),
			Progress: &Progress{PercentComplete: 150}}},
	}
	for _, c := range cases {
		if err := c.f.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestThemeValidateHalfDated(t *testing.T) {
	start := date(2026, 1, 1)
	th := Theme{ID: "t1", StartDate: &start}
	if err := th.Validate(); err == nil {
		t.Error("half-dated theme passed validation")
	}
}

func TestThemeUndatedIsValid(t *testing.T) {
	if err := (Theme{ID: "t1"}).Validate(); err != nil {
		t.Errorf("undated theme rejected: %v", err)
	}
}

func TestSnapshotValidateDuplicateIDs(t *testing.T) {
	start, end := date(2026, 1, 1), date(2026, 6, 1)
	snap := Snapshot{Themes: []Theme{
		{ID: "dup", StartDate: &start, EndDate: &end},
		{ID: "dup", StartDate: &start, EndDate: &end},
	}}
	if err := snap.Validate(); err == nil {
		t.Error("duplicate theme ids passed validation")
	}

	snap = Snapshot{Themes: []Theme{{
		ID: "t1", StartDate: &start, EndDate: &end,
		Products: []Product{{
			ID: "t1", ParentID: "t1", StartDate: start, EndDate: end,
		}},
	}}}
	if err := snap.Validate(); err == nil {
		t.Error("id shared across levels passed validation")
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"disjoint", date(2026, 1, 1), date(2026, 1, 10), date(2026, 1, 11), date(2026, 1, 20), false},
		{"nested", date(2026, 1, 1), date(2026, 1, 31), date(2026, 1, 10), date(2026, 1, 20), true},
		{"partial", date(2026, 1, 1), date(2026, 1, 15), date(2026, 1, 10), date(2026, 1, 20), true},
		{"shared boundary day", date(2026, 1, 1), date(2026, 1, 10), date(2026, 1, 10), date(2026, 1, 20), true},
	}
	for _, c := range cases {
		if got := Overlaps(c.aStart, c.aEnd, c.bStart, c.bEnd); got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
		// Symmetric.
		if got := Overlaps(c.bStart, c.bEnd, c.aStart, c.aEnd); got != c.want {
			t.Errorf("%s (swapped): Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDayNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 3, 15, 2, 30, 0, 0, loc) // 2026-03-14 21:30 UTC
	got := Day(in)
	if !got.Equal(date(2026, 3, 14)) {
		t.Errorf("Day = %v, want 2026-03-14 UTC", got)
	}
	if got.Location() != time.UTC {
		t.Errorf("Day location = %v, want UTC", got.Location())
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(date(2026, 1, 1), date(2026, 1, 31)); got != 30 {
		t.Errorf("DaysBetween = %d, want 30", got)
	}
	if got := DaysBetween(date(2026, 1, 31), date(2026, 1, 1)); got != -30 {
		t.Errorf("reverse DaysBetween = %d, want -30", got)
	}
	// DST-safe: whole-day math never sees wall-clock shifts.
	ny, _ := time.LoadLocation("America/New_York")
	a := time.Date(2026, 3, 7, 12, 0, 0, 0, ny)
	b := time.Date(2026, 3, 9, 12, 0, 0, 0, ny)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("DaysBetween across DST = %d, want 2", got)
	}
}

func TestThemeColorCycles(t *testing.T) {
	if ThemeColor(0) != ThemePalette[0] {
		t.Error("ThemeColor(0) != palette[0]")
	}
	if ThemeColor(len(ThemePalette)) != ThemePalette[0] {
		t.Error("palette does not cycle")
	}
	if ThemeColor(-3) != ThemePalette[0] {
		t.Error("negative index should clamp to first color")
	}
}
