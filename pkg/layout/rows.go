package layout

import (
	"sort"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/debug"
	"github.com/vanderheijden86/roadwork/pkg/model"
)

// AssignRows computes a row index for every item such that the vertical
// order reads as the Theme → Product → Feature tree, while features of
// one product share rows when their date ranges are disjoint.
//
// Themes are laid out dated-first (by start date), undated themes after
// them (by id); a dated theme takes a row of its own, an undated one
// takes none but its children are still placed. Each product takes a row,
// then its features are packed greedily in start-date order: a feature
// reuses the first row of the product's group whose last end date is
// strictly before the feature's start, otherwise it opens a new row.
//
// The packing is first-fit greedy, not minimal, and that is deliberate:
// the visual order downstream depends on this exact deterministic
// placement. Ties at every level break by id.
func AssignRows(items []model.TimedItem) map[string]int {
	themes := make(map[string]model.TimedItem)
	productsByTheme := make(map[string][]model.TimedItem)
	featuresByProduct := make(map[string][]model.TimedItem)
	productIDs := make(map[string]bool)

	themeIDSet := make(map[string]bool)
	for _, it := range items {
		switch it.Kind {
		case model.KindTheme:
			themes[it.ID] = it
			themeIDSet[it.ID] = true
		case model.KindProduct:
			productsByTheme[it.ParentID] = append(productsByTheme[it.ParentID], it)
			themeIDSet[it.ParentID] = true
			productIDs[it.ID] = true
		case model.KindFeature:
			featuresByProduct[it.ParentID] = append(featuresByProduct[it.ParentID], it)
		}
	}

	// Dated themes by start date, undated after them by id. Undated theme
	// ids only exist here as product parent keys.
	var dated, undated []string
	for id := range themeIDSet {
		if _, ok := themes[id]; ok {
			dated = append(dated, id)
		} else {
			undated = append(undated, id)
		}
	}
	sort.Slice(dated, func(i, j int) bool {
		a, b := themes[dated[i]], themes[dated[j]]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})
	sort.Strings(undated)
	order := append(dated, undated...)

	rows := make(map[string]int, len(items))
	row := 0
	for _, tid := range order {
		if t, ok := themes[tid]; ok {
			rows[t.ID] = row
			row++
		}
		products := productsByTheme[tid]
		sortByStart(products)
		for _, p := range products {
			rows[p.ID] = row
			row++

			features := featuresByProduct[p.ID]
			sortByStart(features)

			// rowEnds holds the last-assigned end date per packed row,
			// scoped to this product's feature group.
			var rowEnds []time.Time
			for _, f := range features {
				placed := -1
				for ri, end := range rowEnds {
					if end.Before(f.StartDate) {
						placed = ri
						rowEnds[ri] = f.EndDate
						break
					}
				}
				if placed < 0 {
					placed = len(rowEnds)
					rowEnds = append(rowEnds, f.EndDate)
				}
				rows[f.ID] = row + placed
			}
			row += len(rowEnds)
		}
	}

	// Features pointing at a product that never made it into the item
	// list have nowhere to go; drop them rather than invent a row.
	for pid, feats := range featuresByProduct {
		if !productIDs[pid] {
			for _, f := range feats {
				debug.Log("rows: feature %s references unknown product %s, dropped", f.ID, pid)
			}
		}
	}

	return rows
}

// RowCount returns the total number of rows in an assignment.
func RowCount(rows map[string]int) int {
	max := -1
	for _, r := range rows {
		if r > max {
			max = r
		}
	}
	return max + 1
}

func sortByStart(items []model.TimedItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].StartDate.Equal(items[j].StartDate) {
			return items[i].StartDate.Before(items[j].StartDate)
		}
		return items[i].ID < items[j].ID
	})
}
