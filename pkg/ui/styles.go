package ui

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors for light and dark terminals. Light mode colors tuned
// for contrast on white backgrounds.
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorToday   = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	ColorHeaderBg = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorSelected = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
)

// Theme bundles the lipgloss styles used by the roadmap view.
type Theme struct {
	Header      lipgloss.Style
	HeaderWeek  lipgloss.Style
	Label       lipgloss.Style
	LabelTheme  lipgloss.Style
	Today       lipgloss.Style
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	ModalBorder lipgloss.Style
	HelpTitle   lipgloss.Style
	HelpKey     lipgloss.Style
	HelpText    lipgloss.Style
}

// DefaultTheme builds the standard theme against the given renderer.
// Tests pass lipgloss.NewRenderer(io.Discard) to get deterministic output.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Header:      r.NewStyle().Bold(true).Foreground(ColorText).Background(ColorHeaderBg),
		HeaderWeek:  r.NewStyle().Foreground(ColorSubtext).Background(ColorHeaderBg),
		Label:       r.NewStyle().Foreground(ColorSubtext),
		LabelTheme:  r.NewStyle().Bold(true).Foreground(ColorText),
		Today:       r.NewStyle().Foreground(ColorToday),
		StatusBar:   r.NewStyle().Foreground(ColorSubtext),
		StatusKey:   r.NewStyle().Foreground(ColorPrimary).Bold(true),
		ModalBorder: r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorPrimary).Padding(1, 2),
		HelpTitle:   r.NewStyle().Bold(true).Foreground(ColorPrimary),
		HelpKey:     r.NewStyle().Foreground(ColorAccent),
		HelpText:    r.NewStyle().Foreground(ColorSubtext),
	}
}

// barStyle returns a style filled with the item's theme color. Hovered
// bars render dimmer, matching the canvas renderer's opacity drop.
func barStyle(r *lipgloss.Renderer, c color.RGBA, hovered bool) lipgloss.Style {
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	st := r.NewStyle().Foreground(lipgloss.Color(hex))
	if hovered {
		st = st.Faint(true)
	}
	return st
}
