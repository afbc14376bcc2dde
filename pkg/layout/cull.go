package layout

import (
	"math"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// CullThreshold is the item count above which the renderer restricts its
// draw calls to the culled subset. Small roadmaps skip culling entirely;
// the result is the same pixels either way.
const CullThreshold = 50

// cullPaddingRows keeps one extra row on each side of the viewport so
// bars don't pop in at the edge mid-scroll.
const cullPaddingRows = 1

// Viewport describes the vertical window onto the assigned rows.
type Viewport struct {
	ScrollTop    float64
	CanvasHeight float64
	RowHeight    float64
}

// VisibleRowRange returns the inclusive row span covered by the viewport,
// before padding.
func (v Viewport) VisibleRowRange() (first, last int) {
	if v.RowHeight <= 0 {
		return 0, 0
	}
	first = int(math.Floor(v.ScrollTop / v.RowHeight))
	last = int(math.Ceil((v.ScrollTop + v.CanvasHeight) / v.RowHeight))
	return first, last
}

// Cull filters items to those whose assigned row falls inside the
// viewport's row range, padded by one row on each side. Below
// CullThreshold all items pass through untouched. Items absent from the
// assignment are dropped. Pure filter; the input is never mutated.
func Cull(rows map[string]int, items []model.TimedItem, vp Viewport) []model.TimedItem {
	if len(items) < CullThreshold {
		return items
	}
	first, last := vp.VisibleRowRange()
	first -= cullPaddingRows
	last += cullPaddingRows

	visible := make([]model.TimedItem, 0, len(items))
	for _, it := range items {
		r, ok := rows[it.ID]
		if !ok {
			continue
		}
		if r >= first && r <= last {
			visible = append(visible, it)
		}
	}
	return visible
}
