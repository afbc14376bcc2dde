package ui

import (
	"fmt"
	"strings"
)

// helpEntries lists every binding shown by the help overlay, in display
// order.
var helpEntries = [][2]string{
	{"+ / =", "zoom in"},
	{"-", "zoom out"},
	{"← / →", "pan timeline"},
	{"↑ / ↓", "scroll rows"},
	{"0", "reset zoom and pan"},
	{"t", "jump to today"},
	{"tab / shift+tab", "select next / previous feature"},
	{"space", "collapse / expand selected subtree"},
	{"e / enter", "edit selected feature"},
	{"c", "copy selected item id"},
	{"x", "export snapshot (wizard)"},
	{"wheel", "scroll rows"},
	{"ctrl+wheel", "zoom"},
	{"drag", "pan timeline"},
	{"click", "select feature"},
	{"double-click", "edit feature"},
	{"?", "toggle this help"},
	{"q / ctrl+c", "quit"},
}

// renderHelp draws the keybinding overlay box.
func renderHelp(th Theme) string {
	var b strings.Builder
	b.WriteString(th.HelpTitle.Render("Roadwork keys") + "\n\n")
	for _, e := range helpEntries {
		b.WriteString(fmt.Sprintf("%s  %s\n",
			th.HelpKey.Render(padCells(e[0], 16)),
			th.HelpText.Render(e[1])))
	}
	b.WriteString("\n" + th.HelpText.Render("press ? or esc to close"))
	return th.ModalBorder.Render(b.String())
}
