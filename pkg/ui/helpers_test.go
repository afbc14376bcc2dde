package ui

import (
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

func TestTruncateCells(t *testing.T) {
	cases := []struct {
		in     string
		max    int
		suffix string
		want   string
	}{
		{"short", 10, "…", "short"},
		{"a much longer label", 10, "…", "a much lo…"},
		{"anything", 0, "…", ""},
		{"日本語テキスト", 6, "…", "日本…"},
	}
	for _, c := range cases {
		got := truncateCells(c.in, c.max, c.suffix)
		if got != c.want {
			t.Errorf("truncateCells(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
		if w := runewidth.StringWidth(got); w > c.max {
			t.Errorf("truncateCells(%q, %d) has width %d", c.in, c.max, w)
		}
	}
}

func TestPadCells(t *testing.T) {
	if got := padCells("ab", 5); got != "ab   " {
		t.Errorf("padCells = %q", got)
	}
	if got := padCells("abcdef", 3); got != "abcdef" {
		t.Errorf("padCells must not truncate: %q", got)
	}
	if got := runewidth.StringWidth(padCells("日本", 6)); got != 6 {
		t.Errorf("wide-rune pad width = %d, want 6", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	if got := formatDate(d); got != "2026-03-05" {
		t.Errorf("formatDate = %q", got)
	}
}
