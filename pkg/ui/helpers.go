package ui

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// truncateCells truncates a string to max visual width (cells), adding
// suffix if needed. Uses go-runewidth so wide characters count correctly.
func truncateCells(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padCells right-pads s with spaces to exactly width cells.
func padCells(s string, width int) string {
	w := runewidth.StringWidth(s)
	for w < width {
		s += " "
		w++
	}
	return s
}

// formatDate renders a date the short way the status bar shows them.
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
