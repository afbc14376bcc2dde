// Package render rasterizes a laid-out roadmap to PNG (via gg) or SVG
// (via svgo). Both renderers share one geometry pass so the two formats
// stay pixel-identical; the TUI draws the same layout in terminal cells
// and hands export off to this package.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/layout"
	"github.com/vanderheijden86/roadwork/pkg/model"
	"github.com/vanderheijden86/roadwork/pkg/timeline"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"
)

// Layout constants. Header rows stack quarter / month / week; bars sit in
// rowHeight bands below, labels in a fixed-width left column.
const (
	HeaderQuarterH = 24.0
	HeaderMonthH   = 20.0
	HeaderWeekH    = 18.0
	HeaderH        = HeaderQuarterH + HeaderMonthH + HeaderWeekH

	LabelColWidth = 160.0
	RowHeight     = 28.0
	BarHeight     = 18.0

	// charWidth approximates basicfont.Face7x13 glyph advance; used to
	// clip labels to their cell's pixel bounds in both renderers.
	charWidth = 7.0
)

// labelMaxChars is how many glyphs fit in the label column with margins.
var labelMaxChars = int(math.Floor((LabelColWidth - 16) / charWidth))

// SnapshotOptions controls roadmap snapshot rendering.
type SnapshotOptions struct {
	Path     string            // Output path; format inferred from extension when Format empty
	Format   string            // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title    string            // Optional title, rendered over the label column
	Items    []model.TimedItem // Flattened items (already collected)
	Rows     map[string]int    // Row assignment for Items
	Scale    timeline.Scale    // Horizontal date scale, pan applied
	Viewport *layout.Viewport  // Optional; nil renders every row
	Now      time.Time         // Today marker; zero value means time.Now
	HoverID  string            // Item drawn with reduced opacity fill
}

// SaveSnapshot renders the roadmap to opts.Path. Format is inferred from
// the extension when not set explicitly; unknown extensions default to SVG.
func SaveSnapshot(opts SnapshotOptions) error {
	if len(opts.Items) == 0 {
		return fmt.Errorf("no items to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg" // safe default
			if filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	geo := buildGeometry(opts)

	switch format {
	case "png":
		return renderPNG(opts.Path, geo)
	default:
		return renderSVGFile(opts.Path, geo)
	}
}

// SaveBoth writes PNG and SVG snapshots of the same geometry in one pass.
func SaveBoth(pngPath, svgPath string, opts SnapshotOptions) error {
	if len(opts.Items) == 0 {
		return fmt.Errorf("no items to export")
	}
	geo := buildGeometry(opts)
	var g errgroup.Group
	g.Go(func() error { return renderPNG(pngPath, geo) })
	g.Go(func() error { return renderSVGFile(svgPath, geo) })
	return g.Wait()
}

// --- geometry computation ----------------------------------------------------

type headerCell struct {
	X0, X1 float64
	Label  string
	Heavy  bool // quarter boundary at X0
}

type gridLine struct {
	X     float64
	Heavy bool
}

type rowLabel struct {
	Text string
	Y    float64 // row top
	Kind model.ItemKind
}

type bar struct {
	ID      string
	X, Y    float64
	W, H    float64
	Color   color.RGBA
	Hovered bool
	Pct     int    // -1 when no progress overlay
	PctText string // empty when bar too narrow for text
}

type geometry struct {
	Width, Height int
	Title         string
	Quarters      []headerCell
	Months        []headerCell
	Weeks         []headerCell
	Grid          []gridLine
	TodayX        float64
	HasToday      bool
	Labels        []rowLabel
	Bars          []bar
}

func buildGeometry(opts SnapshotOptions) geometry {
	sc := opts.Scale
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	rowCount := layout.RowCount(opts.Rows)
	contentW := sc.WidthPixels() - sc.PanOffset
	width := int(LabelColWidth + math.Min(contentW, sc.WidthPixels()))
	if width < 640 {
		width = 640
	}
	height := int(HeaderH + float64(rowCount)*RowHeight + RowHeight)
	if height < 240 {
		height = 240
	}

	geo := geometry{Width: width, Height: height, Title: opts.Title}

	// contentX maps a date to canvas x inside the scrollable area.
	contentX := func(d time.Time) float64 { return LabelColWidth + sc.DateToX(d) }
	rightEdge := float64(width)

	clampCell := func(x0, x1 float64) (float64, float64, bool) {
		if x1 <= LabelColWidth || x0 >= rightEdge {
			return 0, 0, false
		}
		return math.Max(x0, LabelColWidth), math.Min(x1, rightEdge), true
	}

	for _, q := range timeline.Quarters(sc.StartDate, sc.EndDate) {
		if x0, x1, ok := clampCell(contentX(q.Start), contentX(q.End)); ok {
			geo.Quarters = append(geo.Quarters, headerCell{X0: x0, X1: x1, Label: q.Label, Heavy: true})
		}
	}
	for _, m := range timeline.Months(sc.StartDate, sc.EndDate) {
		if x0, x1, ok := clampCell(contentX(m.Start), contentX(m.End)); ok {
			geo.Months = append(geo.Months, headerCell{X0: x0, X1: x1, Label: m.Label})
		}
	}
	for _, w := range timeline.Weeks(sc.StartDate, sc.EndDate) {
		if x0, x1, ok := clampCell(contentX(w.Start), contentX(w.End)); ok {
			geo.Weeks = append(geo.Weeks, headerCell{X0: x0, X1: x1, Label: w.Label})
		}
	}

	// Vertical grid at month boundaries, heavier at quarter starts. Week
	// lines come from the bordered week cells themselves.
	for _, m := range timeline.Months(sc.StartDate, sc.EndDate) {
		x := contentX(m.Start)
		if x < LabelColWidth || x > rightEdge {
			continue
		}
		geo.Grid = append(geo.Grid, gridLine{X: x, Heavy: timeline.IsQuarterBoundary(m.Start)})
	}

	if sc.Contains(now) {
		x := contentX(now)
		if x >= LabelColWidth && x <= rightEdge {
			geo.TodayX = x
			geo.HasToday = true
		}
	}

	// Restrict bar and label drawing to the viewport rows when culling is
	// active; logical presence of items is unaffected.
	items := opts.Items
	if opts.Viewport != nil {
		items = layout.Cull(opts.Rows, items, *opts.Viewport)
	}

	rowY := func(row int) float64 { return HeaderH + float64(row)*RowHeight }

	for _, it := range items {
		row, ok := opts.Rows[it.ID]
		if !ok {
			continue
		}
		switch it.Kind {
		case model.KindProduct, model.KindTheme:
			geo.Labels = append(geo.Labels, rowLabel{
				Text: truncate(it.Name, labelMaxChars),
				Y:    rowY(row),
				Kind: it.Kind,
			})
		}
		if it.Kind != model.KindFeature {
			// Only features are drawn as bars in this rendering mode;
			// themes and products hold rows for spacing and labels.
			continue
		}

		x0 := contentX(it.StartDate)
		x1 := contentX(it.EndDate.AddDate(0, 0, 1)) // inclusive end day
		x0c, x1c, visible := clampCell(x0, x1)
		if !visible {
			continue
		}
		b := bar{
			ID:      it.ID,
			X:       x0c,
			Y:       rowY(row) + (RowHeight-BarHeight)/2,
			W:       x1c - x0c,
			H:       BarHeight,
			Color:   it.Color,
			Hovered: it.ID == opts.HoverID,
			Pct:     -1,
		}
		if it.Progress != nil {
			b.Pct = it.Progress.PercentComplete
			txt := fmt.Sprintf("%d%%", b.Pct)
			if float64(len(txt))*charWidth+6 <= b.W {
				b.PctText = txt
			}
		}
		geo.Bars = append(geo.Bars, b)
	}

	return geo
}

// --- rendering ---------------------------------------------------------------

var (
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG  = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLabelBG   = color.RGBA{0xee, 0xf0, 0xf3, 0xff}
	colorGridLight = color.RGBA{0xd7, 0xdb, 0xe0, 0xff}
	colorGridHeavy = color.RGBA{0x9a, 0xa2, 0xad, 0xff}
	colorCellEdge  = color.RGBA{0xc4, 0xc9, 0xcf, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorToday     = color.RGBA{0xdb, 0x44, 0x37, 0xff}
	colorProgress  = color.RGBA{0x00, 0x00, 0x00, 0x46}
)

const hoverAlpha = 0x9e

func renderPNG(path string, geo geometry) error {
	dc := gg.NewContext(geo.Width, geo.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	w := float64(geo.Width)

	// header background
	dc.SetColor(colorHeaderBG)
	dc.DrawRectangle(0, 0, w, HeaderH)
	dc.Fill()

	// quarter row: bold-ish labels, heavy leading separators
	for _, q := range geo.Quarters {
		dc.SetColor(colorGridHeavy)
		dc.SetLineWidth(2)
		dc.DrawLine(q.X0, 0, q.X0, HeaderH)
		dc.Stroke()
		drawClippedString(dc, q.Label, q.X0, q.X1, HeaderQuarterH/2, colorText)
	}

	// month row
	for _, m := range geo.Months {
		dc.SetColor(colorGridLight)
		dc.SetLineWidth(1)
		dc.DrawLine(m.X0, HeaderQuarterH, m.X0, HeaderH)
		dc.Stroke()
		drawClippedString(dc, m.Label, m.X0, m.X1, HeaderQuarterH+HeaderMonthH/2, colorText)
	}

	// week row: individually bordered cells, number clipped to cell bounds
	weekY := HeaderQuarterH + HeaderMonthH
	for _, wk := range geo.Weeks {
		dc.SetColor(colorCellEdge)
		dc.SetLineWidth(1)
		dc.DrawRectangle(wk.X0, weekY, wk.X1-wk.X0, HeaderWeekH)
		dc.Stroke()
		drawClippedString(dc, wk.Label, wk.X0, wk.X1, weekY+HeaderWeekH/2, colorSubtle)
	}

	// body grid lines
	for _, gl := range geo.Grid {
		if gl.Heavy {
			dc.SetColor(colorGridHeavy)
			dc.SetLineWidth(1.6)
		} else {
			dc.SetColor(colorGridLight)
			dc.SetLineWidth(1)
		}
		dc.DrawLine(gl.X, HeaderH, gl.X, float64(geo.Height))
		dc.Stroke()
	}

	// today marker, dotted
	if geo.HasToday {
		dc.SetColor(colorToday)
		dc.SetLineWidth(1.4)
		dc.SetDash(2, 3)
		dc.DrawLine(geo.TodayX, 0, geo.TodayX, float64(geo.Height))
		dc.Stroke()
		dc.SetDash()
	}

	// label column
	dc.SetColor(colorLabelBG)
	dc.DrawRectangle(0, HeaderH, LabelColWidth, float64(geo.Height)-HeaderH)
	dc.Fill()
	if geo.Title != "" {
		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(geo.Title, labelMaxChars), 8, HeaderQuarterH/2, 0, 0.5)
	}
	for _, l := range geo.Labels {
		if l.Kind == model.KindTheme {
			dc.SetColor(colorText)
		} else {
			dc.SetColor(colorSubtle)
		}
		dc.DrawStringAnchored(l.Text, 8, l.Y+RowHeight/2, 0, 0.5)
	}

	// feature bars
	for _, b := range geo.Bars {
		fill := b.Color
		if b.Hovered {
			fill.A = hoverAlpha
		}
		dc.SetColor(fill)
		dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 3)
		dc.Fill()
		if b.Pct >= 0 {
			dc.SetColor(colorProgress)
			dc.DrawRoundedRectangle(b.X, b.Y, b.W*float64(b.Pct)/100, b.H, 3)
			dc.Fill()
		}
		if b.PctText != "" {
			dc.SetColor(color.White)
			dc.DrawStringAnchored(b.PctText, b.X+b.W/2, b.Y+b.H/2, 0.5, 0.5)
		}
	}

	return dc.SavePNG(path)
}

func renderSVGFile(path string, geo geometry) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return renderSVGToWriter(file, geo)
}

func renderSVGToWriter(w io.Writer, geo geometry) error {
	canvas := svg.New(w)
	canvas.Start(geo.Width, geo.Height)
	canvas.Rect(0, 0, geo.Width, geo.Height, fill(colorBackdrop))
	canvas.Rect(0, 0, geo.Width, int(HeaderH), fill(colorHeaderBG))

	for _, q := range geo.Quarters {
		canvas.Line(int(q.X0), 0, int(q.X0), int(HeaderH), stroke(colorGridHeavy, 2))
		svgClippedText(canvas, q.Label, q.X0, q.X1, HeaderQuarterH/2,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold;dominant-baseline:middle", css(colorText)))
	}
	for _, m := range geo.Months {
		canvas.Line(int(m.X0), int(HeaderQuarterH), int(m.X0), int(HeaderH), stroke(colorGridLight, 1))
		svgClippedText(canvas, m.Label, m.X0, m.X1, HeaderQuarterH+HeaderMonthH/2,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;dominant-baseline:middle", css(colorText)))
	}
	weekY := HeaderQuarterH + HeaderMonthH
	for _, wk := range geo.Weeks {
		canvas.Rect(int(wk.X0), int(weekY), int(wk.X1-wk.X0), int(HeaderWeekH),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", css(colorCellEdge)))
		svgClippedText(canvas, wk.Label, wk.X0, wk.X1, weekY+HeaderWeekH/2,
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;dominant-baseline:middle", css(colorSubtle)))
	}

	for _, gl := range geo.Grid {
		width := 1
		c := colorGridLight
		if gl.Heavy {
			width = 2
			c = colorGridHeavy
		}
		canvas.Line(int(gl.X), int(HeaderH), int(gl.X), geo.Height, stroke(c, width))
	}

	if geo.HasToday {
		canvas.Line(int(geo.TodayX), 0, int(geo.TodayX), geo.Height,
			fmt.Sprintf("stroke:%s;stroke-width:1.4;stroke-dasharray:2,3", css(colorToday)))
	}

	canvas.Rect(0, int(HeaderH), int(LabelColWidth), geo.Height-int(HeaderH), fill(colorLabelBG))
	if geo.Title != "" {
		canvas.Text(8, int(HeaderQuarterH/2)+4, truncate(geo.Title, labelMaxChars),
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	}
	for _, l := range geo.Labels {
		c := colorSubtle
		if l.Kind == model.KindTheme {
			c = colorText
		}
		canvas.Text(8, int(l.Y+RowHeight/2)+4, l.Text,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(c)))
	}

	for _, b := range geo.Bars {
		opacity := 1.0
		if b.Hovered {
			opacity = float64(hoverAlpha) / 255
		}
		canvas.Roundrect(int(b.X), int(b.Y), int(b.W), int(b.H), 3, 3,
			fmt.Sprintf("fill:%s;fill-opacity:%.2f", css(b.Color), opacity))
		if b.Pct >= 0 {
			canvas.Roundrect(int(b.X), int(b.Y), int(b.W*float64(b.Pct)/100), int(b.H), 3, 3,
				"fill:#000000;fill-opacity:0.27")
		}
		if b.PctText != "" {
			canvas.Text(int(b.X+b.W/2), int(b.Y+b.H/2)+4, b.PctText,
				"fill:#ffffff;font-size:11px;font-family:monospace;text-anchor:middle")
		}
	}

	canvas.End()
	return nil
}

// drawClippedString centers text in [x0,x1), truncating to the cell's
// pixel bounds so adjacent labels never overlap regardless of zoom.
func drawClippedString(dc *gg.Context, s string, x0, x1, y float64, c color.RGBA) {
	maxChars := int((x1 - x0 - 4) / charWidth)
	s = truncateHard(s, maxChars)
	if s == "" {
		return
	}
	dc.SetColor(c)
	dc.DrawStringAnchored(s, (x0+x1)/2, y, 0.5, 0.5)
}

func svgClippedText(canvas *svg.SVG, s string, x0, x1, y float64, style string) {
	maxChars := int((x1 - x0 - 4) / charWidth)
	s = truncateHard(s, maxChars)
	if s == "" {
		return
	}
	canvas.Text(int((x0+x1)/2), int(y)+4, s, style+";text-anchor:middle")
}

// --- helpers -----------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// truncateHard cuts without an ellipsis; header cells prefer a bare
// prefix over sacrificing three columns to dots.
func truncateHard(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func fill(c color.RGBA) string {
	return fmt.Sprintf("fill:%s", css(c))
}

func stroke(c color.RGBA, width int) string {
	return fmt.Sprintf("stroke:%s;stroke-width:%d", css(c), width)
}
