package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// IsInteractive reports whether stdout is a terminal. Headless modes
// (export, version, help) must avoid constructing a TUI so no terminal
// probe sequences leak into piped output.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewRenderer returns a lipgloss renderer for stdout. When stdout is
// not a terminal the renderer detects no color profile on its own and
// emits plain text, so this is safe to call in headless paths too.
func NewRenderer() *lipgloss.Renderer {
	return lipgloss.NewRenderer(os.Stdout)
}
