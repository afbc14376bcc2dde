// Package model defines the roadmap domain: a three-level
// Theme → Product → Feature hierarchy of dated items, plus the flattened
// TimedItem form the layout and rendering pipeline operates on.
//
// The tree is stored as arrays-of-children; parent links exist only as
// ParentID strings on the flattened items. Lookup maps are built fresh
// each pass instead of holding back-pointers, so items can move between
// parents without stale references.
package model

import (
	"fmt"
	"image/color"
	"time"
)

// ItemKind discriminates the three hierarchy levels of a TimedItem.
type ItemKind int

const (
	KindTheme ItemKind = iota
	KindProduct
	KindFeature
)

// String returns a human-readable label for the kind.
func (k ItemKind) String() string {
	switch k {
	case KindTheme:
		return "theme"
	case KindProduct:
		return "product"
	case KindFeature:
		return "feature"
	default:
		return "unknown"
	}
}

// ProgressStatus describes how far along a feature is.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressDone       ProgressStatus = "done"
)

// Progress tracks feature completion for the bar overlay.
type Progress struct {
	Status          ProgressStatus `json:"status" yaml:"status"`
	PercentComplete int            `json:"percent_complete" yaml:"percent_complete"`
}

// Feature is a leaf item. Dates are mandatory.
type Feature struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	ParentID  string    `json:"parent_id" yaml:"parent_id"`
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`
	Progress  *Progress `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// Product groups features under a theme. Dates are mandatory.
type Product struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	ParentID  string    `json:"parent_id" yaml:"parent_id"`
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`
	Features  []Feature `json:"features,omitempty" yaml:"features,omitempty"`
}

// Theme is a top-level grouping. Dates are optional: an undated theme
// contributes no bar of its own but its products and features still render.
type Theme struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	StartDate *time.Time `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Products  []Product  `json:"products,omitempty" yaml:"products,omitempty"`
}

// HasDates reports whether the theme carries a complete date range.
func (t Theme) HasDates() bool {
	return t.StartDate != nil && t.EndDate != nil
}

// Snapshot is a read-only copy of the whole roadmap handed to the
// layout/render pipeline and the persistence collaborators.
type Snapshot struct {
	Themes []Theme `json:"themes" yaml:"themes"`
}

// TimedItem is the flattened, render-facing form of a theme, product or
// feature. It is derived each pass and never stored.
type TimedItem struct {
	ID        string
	Kind      ItemKind
	Name      string
	ParentID  string // empty for themes
	StartDate time.Time
	EndDate   time.Time
	Color     color.RGBA
	Progress  *Progress // features only
}

// ThemePalette is the fixed bar palette, cycled by theme index. Products
// and features inherit their theme's color.
var ThemePalette = []color.RGBA{
	{0x42, 0x85, 0xf4, 0xff}, // blue
	{0x0f, 0x9d, 0x58, 0xff}, // green
	{0xf4, 0xb4, 0x00, 0xff}, // amber
	{0xdb, 0x44, 0x37, 0xff}, // red
	{0x67, 0x3a, 0xb7, 0xff}, // deep purple
	{0x00, 0x96, 0x88, 0xff}, // teal
	{0xe9, 0x1e, 0x63, 0xff}, // pink
	{0x79, 0x55, 0x48, 0xff}, // brown
}

// ThemeColor returns the palette color for the theme at index i.
func ThemeColor(i int) color.RGBA {
	if i < 0 {
		i = 0
	}
	return ThemePalette[i%len(ThemePalette)]
}

// Validate checks invariants the layout core assumes but does not enforce.
func (f Feature) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("feature has empty id")
	}
	if f.StartDate.IsZero() || f.EndDate.IsZero() {
		return fmt.Errorf("feature %s is missing dates", f.ID)
	}
	if f.EndDate.Before(f.StartDate) {
		return fmt.Errorf("feature %s ends before it starts", f.ID)
	}
	if f.Progress != nil && (f.Progress.PercentComplete < 0 || f.Progress.PercentComplete > 100) {
		return fmt.Errorf("feature %s has percent complete %d outside 0-100", f.ID, f.Progress.PercentComplete)
	}
	return nil
}

// Validate checks product invariants, including its features.
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product has empty id")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("product %s is missing dates", p.ID)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("product %s ends before it starts", p.ID)
	}
	for _, f := range p.Features {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks theme invariants, including its products.
func (t Theme) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("theme has empty id")
	}
	// A theme may be undated, but a half-dated theme is a data error.
	if (t.StartDate == nil) != (t.EndDate == nil) {
		return fmt.Errorf("theme %s has only one of start/end date", t.ID)
	}
	if t.HasDates() && t.EndDate.Before(*t.StartDate) {
		return fmt.Errorf("theme %s ends before it starts", t.ID)
	}
	for _, p := range t.Products {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every theme in the snapshot and that IDs are unique
// across all three levels.
func (s Snapshot) Validate() error {
	seen := make(map[string]bool)
	check := func(id string) error {
		if seen[id] {
			return fmt.Errorf("duplicate id: %s", id)
		}
		seen[id] = true
		return nil
	}
	for _, t := range s.Themes {
		if err := t.Validate(); err != nil {
			return err
		}
		if err := check(t.ID); err != nil {
			return err
		}
		for _, p := range t.Products {
			if err := check(p.ID); err != nil {
				return err
			}
			for _, f := range p.Features {
				if err := check(f.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Overlaps reports whether two inclusive date ranges intersect, using a
// half-open test on whole days: ranges touching only at a shared boundary
// day still overlap, since bars occupy their end day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

// Day truncates a time to midnight UTC. The layout core works in whole
// days; all date math funnels through this so the pixel mapping stays
// exactly invertible.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day distance from a to b (negative when b
// precedes a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
