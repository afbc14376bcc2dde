package testutil

import (
	"testing"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// AssertValid verifies the snapshot passes validation.
func AssertValid(t *testing.T, snap model.Snapshot) {
	t.Helper()
	if err := snap.Validate(); err != nil {
		t.Errorf("snapshot invalid: %v", err)
	}
}

// AssertNoDuplicateIDs verifies all item ids in the flattened list are
// unique.
func AssertNoDuplicateIDs(t *testing.T, items []model.TimedItem) {
	t.Helper()
	seen := make(map[string]bool)
	for _, it := range items {
		if seen[it.ID] {
			t.Errorf("duplicate item ID: %s", it.ID)
		}
		seen[it.ID] = true
	}
}

// AssertNoRowOverlap verifies that no two features of the same product
// sharing a row have overlapping date ranges.
func AssertNoRowOverlap(t *testing.T, items []model.TimedItem, rows map[string]int) {
	t.Helper()
	type key struct {
		parent string
		row    int
	}
	byRow := make(map[key][]model.TimedItem)
	for _, it := range items {
		if it.Kind != model.KindFeature {
			continue
		}
		row, ok := rows[it.ID]
		if !ok {
			continue
		}
		k := key{parent: it.ParentID, row: row}
		byRow[k] = append(byRow[k], it)
	}
	for k, group := range byRow {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if model.Overlaps(a.StartDate, a.EndDate, b.StartDate, b.EndDate) {
					t.Errorf("row %d of product %s: %s and %s overlap", k.row, k.parent, a.ID, b.ID)
				}
			}
		}
	}
}

// AssertHierarchyRows verifies every feature sits strictly below its
// product and every product strictly below its theme.
func AssertHierarchyRows(t *testing.T, items []model.TimedItem, rows map[string]int) {
	t.Helper()
	for _, it := range items {
		if it.ParentID == "" {
			continue
		}
		parentRow, ok := rows[it.ParentID]
		if !ok {
			continue // undated theme holds no row
		}
		row, ok := rows[it.ID]
		if !ok {
			t.Errorf("%s has no row", it.ID)
			continue
		}
		if row <= parentRow {
			t.Errorf("%s row %d not below parent %s row %d", it.ID, row, it.ParentID, parentRow)
		}
	}
}
