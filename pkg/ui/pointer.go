package ui

import (
	"math"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/debug"
	"github.com/vanderheijden86/roadwork/pkg/model"
	"github.com/vanderheijden86/roadwork/pkg/timeline"
)

// Pointer tuning. A press that travels beyond DragThreshold pixels is a
// pan, not a click; two clicks on the same item within DoubleClickWindow
// are an edit request.
const (
	DragThreshold     = 3.0
	DoubleClickWindow = 400 * time.Millisecond
)

type pointerState int

const (
	pointerIdle pointerState = iota
	pointerPanning
	pointerPressed // down on a bar; becomes a click unless it moves
)

// PointerLayout describes the canvas regions the controller hit-tests
// against. The TUI and the snapshot renderer use the same shape with
// different units (cells vs pixels).
type PointerLayout struct {
	LabelColWidth float64
	HeaderHeight  float64
	RowHeight     float64
}

// PointerContext is the frame state pointer events resolve against. The
// owner refreshes it whenever scale, rows, or scroll change.
type PointerContext struct {
	Scale     timeline.Scale
	Items     []model.TimedItem
	Rows      map[string]int
	ScrollTop float64
}

// Pointer translates down/move/up/leave events into pan offsets,
// selection, edit requests, and hover changes. It owns no rendering:
// every visual consequence goes through the callbacks, and the owner
// decides when to repaint (typically via a Scheduler).
type Pointer struct {
	Layout PointerLayout

	OnPan    func(offset float64)
	OnSelect func(id string)
	OnEdit   func(id string)
	OnHover  func(id string) // empty id clears hover

	ctx PointerContext

	state              pointerState
	dragStartX         float64
	dragStartPanOffset float64
	moved              bool
	pressedID          string

	hoverID     string
	lastClickID string
	lastClickAt time.Time

	now func() time.Time // test hook
}

// NewPointer creates a pointer controller for the given layout.
func NewPointer(layout PointerLayout) *Pointer {
	return &Pointer{Layout: layout, now: time.Now}
}

// SetContext installs the frame state used for hit-testing.
func (p *Pointer) SetContext(ctx PointerContext) {
	p.ctx = ctx
}

// HoverID returns the currently hovered item id, or "".
func (p *Pointer) HoverID() string {
	return p.hoverID
}

// Panning reports whether a drag is in progress.
func (p *Pointer) Panning() bool {
	return p.state == pointerPanning
}

// Down begins a pointer sequence. A press over the header or empty
// canvas starts a pan; a press over a bar arms a click.
func (p *Pointer) Down(x, y float64) {
	p.dragStartX = x
	p.dragStartPanOffset = p.ctx.Scale.PanOffset
	p.moved = false
	if id := p.HitTest(x, y); id != "" {
		p.state = pointerPressed
		p.pressedID = id
		return
	}
	p.state = pointerPanning
}

// Move updates a pan in progress or, with no button down, the hover
// item. Returns true when the visual state changed and a repaint is due.
func (p *Pointer) Move(x, y float64) bool {
	switch p.state {
	case pointerPanning:
		if math.Abs(x-p.dragStartX) > DragThreshold {
			p.moved = true
		}
		if p.OnPan != nil {
			p.OnPan(p.dragStartPanOffset + (x - p.dragStartX))
		}
		return true
	case pointerPressed:
		if math.Abs(x-p.dragStartX) > DragThreshold {
			// The press turned into a drag; converting to a pan keeps
			// the bar under the cursor from being selected on release.
			p.moved = true
			p.state = pointerPanning
			if p.OnPan != nil {
				p.OnPan(p.dragStartPanOffset + (x - p.dragStartX))
			}
			return true
		}
		return false
	default:
		id := p.HitTest(x, y)
		if id == p.hoverID {
			return false
		}
		p.hoverID = id
		if p.OnHover != nil {
			p.OnHover(id)
		}
		return true
	}
}

// Up ends a pointer sequence. A press that never crossed the drag
// threshold is a click; a second click on the same item inside the
// double-click window upgrades to an edit request.
func (p *Pointer) Up(x, y float64) {
	state := p.state
	p.state = pointerIdle
	if p.moved || state == pointerIdle {
		return
	}

	id := p.pressedID
	if id == "" {
		id = p.HitTest(x, y)
	}
	p.pressedID = ""
	if id == "" {
		return
	}

	now := p.now()
	if id == p.lastClickID && now.Sub(p.lastClickAt) <= DoubleClickWindow {
		p.lastClickID = ""
		debug.Log("pointer: edit %s", id)
		if p.OnEdit != nil {
			p.OnEdit(id)
		}
		return
	}
	p.lastClickID = id
	p.lastClickAt = now
	debug.Log("pointer: select %s", id)
	if p.OnSelect != nil {
		p.OnSelect(id)
	}
}

// Leave cancels any drag and clears hover, as if the pointer left the
// canvas.
func (p *Pointer) Leave() bool {
	p.state = pointerIdle
	p.pressedID = ""
	if p.hoverID == "" {
		return false
	}
	p.hoverID = ""
	if p.OnHover != nil {
		p.OnHover("")
	}
	return true
}

// HitTest resolves canvas coordinates to a feature item id, or "" when
// nothing is under the point. X is converted to a date through the
// inverse scale, so the test accounts for pan; Y maps through scroll and
// row height to a row index.
func (p *Pointer) HitTest(x, y float64) string {
	if x < p.Layout.LabelColWidth || y < p.Layout.HeaderHeight {
		return ""
	}
	if p.Layout.RowHeight <= 0 {
		return ""
	}
	row := int((y - p.Layout.HeaderHeight + p.ctx.ScrollTop) / p.Layout.RowHeight)
	if row < 0 {
		return ""
	}
	d := p.ctx.Scale.XToDate(x - p.Layout.LabelColWidth)
	for _, it := range p.ctx.Items {
		if it.Kind != model.KindFeature {
			continue
		}
		if r, ok := p.ctx.Rows[it.ID]; !ok || r != row {
			continue
		}
		if !d.Before(it.StartDate) && !d.After(it.EndDate) {
			return it.ID
		}
	}
	return ""
}
