// Package layout turns the roadmap tree into renderable rows: it flattens
// the hierarchy into TimedItems, assigns each item a non-overlapping row,
// and culls rows outside the viewport for virtual scrolling. Every pass
// recomputes from scratch; nothing here holds state between renders.
package layout

import (
	"github.com/vanderheijden86/roadwork/pkg/debug"
	"github.com/vanderheijden86/roadwork/pkg/model"
)

// Collect flattens the theme tree into the render-facing item list.
//
// A theme appears in the output only when it carries both dates; its
// products and features are processed either way, so an undated theme
// never hides its descendants. Ids in collapsed hide the whole subtree
// beneath them. Products or features missing dates are skipped with a
// debug log rather than crashing the render pass.
func Collect(themes []model.Theme, collapsed map[string]bool) []model.TimedItem {
	var items []model.TimedItem
	for i, th := range themes {
		c := model.ThemeColor(i)
		if th.HasDates() {
			items = append(items, model.TimedItem{
				ID:        th.ID,
				Kind:      model.KindTheme,
				Name:      th.Name,
				StartDate: model.Day(*th.StartDate),
				EndDate:   model.Day(*th.EndDate),
				Color:     c,
			})
		}
		if collapsed[th.ID] {
			continue
		}
		for _, p := range th.Products {
			if p.StartDate.IsZero() || p.EndDate.IsZero() {
				debug.Log("collect: product %s has no dates, skipping", p.ID)
				continue
			}
			items = append(items, model.TimedItem{
				ID:        p.ID,
				Kind:      model.KindProduct,
				Name:      p.Name,
				ParentID:  th.ID,
				StartDate: model.Day(p.StartDate),
				EndDate:   model.Day(p.EndDate),
				Color:     c,
			})
			if collapsed[p.ID] {
				continue
			}
			for _, f := range p.Features {
				if f.StartDate.IsZero() || f.EndDate.IsZero() {
					debug.Log("collect: feature %s has no dates, skipping", f.ID)
					continue
				}
				items = append(items, model.TimedItem{
					ID:        f.ID,
					Kind:      model.KindFeature,
					Name:      f.Name,
					ParentID:  p.ID,
					StartDate: model.Day(f.StartDate),
					EndDate:   model.Day(f.EndDate),
					Color:     c,
					Progress:  f.Progress,
				})
			}
		}
	}
	return items
}
