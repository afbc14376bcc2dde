package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/roadwork/pkg/model"
	"github.com/vanderheijden86/roadwork/pkg/timeline"
)

// Terminal layout. One row of the roadmap is one terminal line; the
// header stacks quarter, month, and week lines above the body.
const (
	// BaseCellsPerDay is the terminal-cell analogue of the canvas
	// renderer's pixel density: at zoom 1.0 a week is 3.5 cells wide,
	// so a year of roadmap fits a wide terminal.
	BaseCellsPerDay = 0.5

	LabelCells = 24
	HeaderRows = 3
)

// ViewState is the complete visual state of the roadmap view. It is
// threaded through rendering and interaction as a value, never held as
// package state, so the pipeline can be unit-tested without a terminal.
type ViewState struct {
	Zoom       float64
	Scale      timeline.Scale
	ScrollTop  float64
	Collapsed  map[string]bool
	SelectedID string
	HoverID    string
	Width      int // chart canvas width in cells, label column included
	Height     int // chart canvas height in cells, header included
}

// NewViewState returns a ViewState at default zoom with nothing
// collapsed.
func NewViewState() ViewState {
	return ViewState{Zoom: 1.0, Collapsed: map[string]bool{}}
}

// ChartWidth returns the width of the scrollable chart area in cells.
func (vs ViewState) ChartWidth() int {
	w := vs.Width - LabelCells
	if w < 0 {
		return 0
	}
	return w
}

// BodyRows returns the number of item rows the canvas can show.
func (vs ViewState) BodyRows() int {
	h := vs.Height - HeaderRows
	if h < 0 {
		return 0
	}
	return h
}

// --- cell buffer -------------------------------------------------------------

// cellBuf is a single terminal line built cell by cell, styled in runs.
// Styles are compared by pointer when coalescing, so callers reuse one
// style var per visual role.
type cellBuf struct {
	runes  []rune
	styles []*lipgloss.Style
}

func newCellBuf(width int) *cellBuf {
	b := &cellBuf{
		runes:  make([]rune, width),
		styles: make([]*lipgloss.Style, width),
	}
	for i := range b.runes {
		b.runes[i] = ' '
	}
	return b
}

func (b *cellBuf) set(i int, r rune, st *lipgloss.Style) {
	if i < 0 || i >= len(b.runes) {
		return
	}
	b.runes[i] = r
	b.styles[i] = st
}

func (b *cellBuf) get(i int) rune {
	if i < 0 || i >= len(b.runes) {
		return 0
	}
	return b.runes[i]
}

func (b *cellBuf) text(x int, s string, st *lipgloss.Style) {
	for _, r := range s {
		b.set(x, r, st)
		x++
	}
}

func (b *cellBuf) String() string {
	var sb strings.Builder
	i := 0
	for i < len(b.runes) {
		st := b.styles[i]
		j := i
		for j < len(b.runes) && b.styles[j] == st {
			j++
		}
		run := string(b.runes[i:j])
		if st != nil {
			run = st.Render(run)
		}
		sb.WriteString(run)
		i = j
	}
	return sb.String()
}

// --- frame rendering ---------------------------------------------------------

// frameInput carries everything one paint needs; the model assembles it
// from the current snapshot and ViewState.
type frameInput struct {
	State ViewState
	Items []model.TimedItem
	Rows  map[string]int
	Now   time.Time
}

// renderFrame draws the header and body of the roadmap as styled
// terminal lines. The status bar and any modal are composed on top by
// the model.
func renderFrame(r *lipgloss.Renderer, th Theme, in frameInput) string {
	vs := in.State
	chartW := vs.ChartWidth()
	if chartW <= 0 || vs.BodyRows() <= 0 {
		return ""
	}
	sc := vs.Scale

	headerSt := th.Header
	weekSt := th.HeaderWeek
	labelSt := th.Label
	labelThemeSt := th.LabelTheme
	todaySt := th.Today

	lines := make([]string, 0, HeaderRows+vs.BodyRows())

	// cellX converts a date to a chart-local cell column.
	cellX := func(d time.Time) int {
		return int(math.Floor(sc.DateToX(d)))
	}

	headerLine := func(segs []timeline.Segment, st *lipgloss.Style) string {
		buf := newCellBuf(vs.Width)
		buf.text(0, padCells("", LabelCells), st)
		for _, seg := range segs {
			x0 := LabelCells + cellX(seg.Start)
			x1 := LabelCells + cellX(seg.End)
			if x1 <= LabelCells || x0 >= vs.Width {
				continue
			}
			for x := maxInt(x0, LabelCells); x < minInt(x1, vs.Width); x++ {
				buf.set(x, ' ', st)
			}
			if x0 >= LabelCells {
				buf.set(x0, '│', st)
			}
			label := truncateCells(seg.Label, x1-x0-2, "")
			lx := (maxInt(x0, LabelCells) + minInt(x1, vs.Width) - len([]rune(label))) / 2
			if label != "" && lx > x0 {
				buf.text(lx, label, st)
			}
		}
		return buf.String()
	}

	lines = append(lines, headerLine(timeline.Quarters(sc.StartDate, sc.EndDate), &headerSt))
	lines = append(lines, headerLine(timeline.Months(sc.StartDate, sc.EndDate), &headerSt))
	lines = append(lines, headerLine(timeline.Weeks(sc.StartDate, sc.EndDate), &weekSt))

	todayX := -1
	today := model.Day(in.Now)
	if sc.Contains(today) {
		if x := cellX(today); x >= 0 && x < chartW {
			todayX = LabelCells + x
		}
	}

	byRow := make(map[int][]model.TimedItem)
	for _, it := range in.Items {
		if row, ok := in.Rows[it.ID]; ok {
			byRow[row] = append(byRow[row], it)
		}
	}

	firstRow := int(vs.ScrollTop)
	for line := 0; line < vs.BodyRows(); line++ {
		row := firstRow + line
		buf := newCellBuf(vs.Width)
		for _, it := range byRow[row] {
			switch it.Kind {
			case model.KindTheme:
				buf.text(0, truncateCells(it.Name, LabelCells-1, "…"), &labelThemeSt)
			case model.KindProduct:
				buf.text(2, truncateCells(it.Name, LabelCells-3, "…"), &labelSt)
			case model.KindFeature:
				drawBar(buf, r, sc, it, vs)
			}
		}
		if todayX >= 0 && buf.get(todayX) == ' ' {
			buf.set(todayX, '┆', &todaySt)
		}
		lines = append(lines, buf.String())
	}

	return strings.Join(lines, "\n")
}

// drawBar fills the feature's date span with block glyphs. Completed
// portion is solid, remainder is light shade; selection inverts the
// bar and hover dims it, matching the canvas renderer's treatment.
func drawBar(buf *cellBuf, r *lipgloss.Renderer, sc timeline.Scale, it model.TimedItem, vs ViewState) {
	x0 := int(math.Floor(sc.DateToX(it.StartDate)))
	x1 := int(math.Floor(sc.DateToX(it.EndDate.AddDate(0, 0, 1))))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	chartW := vs.ChartWidth()
	if x1 <= 0 || x0 >= chartW {
		return
	}
	x0c := maxInt(x0, 0)
	x1c := minInt(x1, chartW)

	st := barStyle(r, it.Color, it.ID == vs.HoverID)
	if it.ID == vs.SelectedID {
		st = st.Reverse(true)
	}

	// pctEdge is the first cell of the not-yet-complete portion.
	pctEdge := x1
	if it.Progress != nil {
		pctEdge = x0 + int(math.Round(float64(x1-x0)*float64(it.Progress.PercentComplete)/100))
	}

	for x := x0c; x < x1c; x++ {
		glyph := '█'
		if x >= pctEdge {
			glyph = '░'
		}
		buf.set(LabelCells+x, glyph, &st)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
