package ui

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/roadwork/pkg/layout"
	"github.com/vanderheijden86/roadwork/pkg/model"
	"github.com/vanderheijden86/roadwork/pkg/testutil"
	"github.com/vanderheijden86/roadwork/pkg/timeline"
)

// plainRenderer renders without escape sequences so assertions see raw
// glyphs.
func plainRenderer() *lipgloss.Renderer {
	return lipgloss.NewRenderer(io.Discard)
}

func testFrameInput(t *testing.T) frameInput {
	t.Helper()
	snap := testutil.New(testutil.GeneratorConfig{Seed: 4}).Snapshot()
	items := layout.Collect(snap.Themes, nil)
	rows := layout.AssignRows(items)

	vs := NewViewState()
	vs.Width = 120
	vs.Height = 30
	vs.Scale = timeline.ComputeWithBase(items, vs.Zoom, nil, BaseCellsPerDay)

	return frameInput{
		State: vs,
		Items: items,
		Rows:  rows,
		Now:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderFrameLineCount(t *testing.T) {
	in := testFrameInput(t)
	frame := renderFrame(plainRenderer(), DefaultTheme(plainRenderer()), in)

	lines := strings.Split(frame, "\n")
	if got, want := len(lines), HeaderRows+in.State.BodyRows(); got != want {
		t.Errorf("frame has %d lines, want %d", got, want)
	}
}

func TestRenderFrameShowsLabelsAndBars(t *testing.T) {
	in := testFrameInput(t)
	frame := renderFrame(plainRenderer(), DefaultTheme(plainRenderer()), in)

	if !strings.Contains(frame, "Theme 0") {
		t.Error("theme label missing from frame")
	}
	if !strings.Contains(frame, "Product 0.0") {
		t.Error("product label missing from frame")
	}
	if !strings.Contains(frame, "█") {
		t.Error("no feature bars drawn")
	}
}

func TestRenderFrameHeaderLabels(t *testing.T) {
	in := testFrameInput(t)
	frame := renderFrame(plainRenderer(), DefaultTheme(plainRenderer()), in)

	if !strings.Contains(frame, "Q1 2026") {
		t.Error("quarter label missing")
	}
	if !strings.Contains(frame, "Jan") {
		t.Error("month label missing")
	}
}

func TestRenderFrameTodayMarker(t *testing.T) {
	in := testFrameInput(t)
	frame := renderFrame(plainRenderer(), DefaultTheme(plainRenderer()), in)
	if !strings.Contains(frame, "┆") {
		t.Error("today marker missing though Now is in range")
	}

	in.Now = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	frame = renderFrame(plainRenderer(), DefaultTheme(plainRenderer()), in)
	if strings.Contains(frame, "┆") {
		t.Error("today marker drawn for out-of-range date")
	}
}

func TestRenderFrameScrollHidesTopRows(t *testing.T) {
	in := testFrameInput(t)
	top := renderFrame(plainRenderer(), DefaultTheme(plainRenderer()), in)

	in.State.ScrollTop = float64(layout.RowCount(in.Rows)) // past the last row
	scrolled := renderFrame(plainRenderer(), DefaultTheme(plainRenderer()), in)

	if !strings.Contains(top, "Theme 0") {
		t.Fatal("unscrolled frame missing first theme")
	}
	if strings.Contains(scrolled, "Theme 0") {
		t.Error("first theme still visible after scrolling past all rows")
	}
}

func TestRenderFrameDegenerateSize(t *testing.T) {
	in := testFrameInput(t)
	in.State.Width = 10 // smaller than the label column
	if got := renderFrame(plainRenderer(), DefaultTheme(plainRenderer()), in); got != "" {
		t.Errorf("tiny canvas should render empty, got %d bytes", len(got))
	}
}

func TestDrawBarProgressSplit(t *testing.T) {
	sc := timeline.Scale{
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		PixelsPerDay: 1,
	}
	vs := NewViewState()
	vs.Width = LabelCells + 100
	vs.Height = 10

	it := model.TimedItem{
		ID: "f1", Kind: model.KindFeature,
		StartDate: sc.StartDate,
		EndDate:   sc.StartDate.AddDate(0, 0, 9), // 10 cells wide
		Progress:  &model.Progress{Status: model.ProgressInProgress, PercentComplete: 50},
	}

	buf := newCellBuf(vs.Width)
	drawBar(buf, plainRenderer(), sc, it, vs)
	line := buf.String()

	if got := strings.Count(line, "█"); got != 5 {
		t.Errorf("solid cells = %d, want 5 (50%% of 10)", got)
	}
	if got := strings.Count(line, "░"); got != 5 {
		t.Errorf("shaded cells = %d, want 5", got)
	}
}

func TestViewStateGeometry(t *testing.T) {
	vs := NewViewState()
	vs.Width = 100
	vs.Height = 20
	if got := vs.ChartWidth(); got != 100-LabelCells {
		t.Errorf("ChartWidth = %d", got)
	}
	if got := vs.BodyRows(); got != 20-HeaderRows {
		t.Errorf("BodyRows = %d", got)
	}

	vs.Width = 5
	if vs.ChartWidth() != 0 {
		t.Error("ChartWidth must clamp at zero")
	}
}
