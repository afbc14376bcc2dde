// Package timeline maps calendar dates to horizontal pixel coordinates
// and back, given a zoom level and a date range. The same Scale drives
// both the canvas snapshot renderer (real pixels) and the TUI (terminal
// cells); only BasePixelsPerDay differs.
package timeline

import (
	"math"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

const (
	// BasePixelsPerDay is the horizontal resolution at zoom 1.0.
	BasePixelsPerDay = 4.0

	// PaddingDays is added on both sides of the item date range so bars
	// never touch the canvas edge.
	PaddingDays = 14

	// MinZoom and MaxZoom bound the zoom factor. Below MinZoom week cells
	// collapse to zero width; above MaxZoom a year no longer fits any
	// reasonable canvas.
	MinZoom = 0.25
	MaxZoom = 16.0
)

// Range is an inclusive date range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Scale converts dates to x coordinates and back. The zero value is not
// usable; build one with Compute.
type Scale struct {
	StartDate    time.Time
	EndDate      time.Time
	PixelsPerDay float64
	PanOffset    float64
}

// ClampZoom bounds a zoom factor to [MinZoom, MaxZoom].
func ClampZoom(zoom float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, zoom))
}

// Compute builds a Scale for the given items and zoom level. The date
// range defaults to the item extremes padded by PaddingDays; an explicit
// range overrides that. With no items and no explicit range it falls back
// to the current calendar year, so an empty roadmap still renders a
// header. Compute never fails.
func Compute(items []model.TimedItem, zoom float64, explicit *Range) Scale {
	return ComputeWithBase(items, zoom, explicit, BasePixelsPerDay)
}

// ComputeWithBase is Compute with an explicit base resolution. The TUI
// passes a sub-pixel base so a year of roadmap fits a terminal row.
func ComputeWithBase(items []model.TimedItem, zoom float64, explicit *Range, base float64) Scale {
	ppd := base * ClampZoom(zoom)

	if explicit != nil {
		return Scale{
			StartDate:    model.Day(explicit.Start),
			EndDate:      model.Day(explicit.End),
			PixelsPerDay: ppd,
		}
	}

	if len(items) == 0 {
		year := time.Now().UTC().Year()
		return Scale{
			StartDate:    time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
			PixelsPerDay: ppd,
		}
	}

	min := model.Day(items[0].StartDate)
	max := model.Day(items[0].EndDate)
	for _, it := range items[1:] {
		if s := model.Day(it.StartDate); s.Before(min) {
			min = s
		}
		if e := model.Day(it.EndDate); e.After(max) {
			max = e
		}
	}
	return Scale{
		StartDate:    min.AddDate(0, 0, -PaddingDays),
		EndDate:      max.AddDate(0, 0, PaddingDays),
		PixelsPerDay: ppd,
	}
}

// DateToX returns the x coordinate of the left edge of the given date's
// day column, with the pan offset applied.
func (s Scale) DateToX(d time.Time) float64 {
	return float64(model.DaysBetween(s.StartDate, d))*s.PixelsPerDay - s.PanOffset
}

// XToDate inverts DateToX: it returns the date whose day column contains
// the given x coordinate. The epsilon absorbs float noise so
// XToDate(DateToX(d)) == d for every date, not just wide columns.
func (s Scale) XToDate(x float64) time.Time {
	if s.PixelsPerDay <= 0 {
		return s.StartDate
	}
	days := math.Floor((x+s.PanOffset)/s.PixelsPerDay + 1e-9)
	return s.StartDate.AddDate(0, 0, int(days))
}

// WidthPixels returns the full drawable width of the scale's range,
// ignoring pan.
func (s Scale) WidthPixels() float64 {
	return float64(model.DaysBetween(s.StartDate, s.EndDate)+1) * s.PixelsPerDay
}

// Contains reports whether the date falls inside the scale's range.
func (s Scale) Contains(d time.Time) bool {
	day := model.Day(d)
	return !day.Before(s.StartDate) && !day.After(s.EndDate)
}

// WithPan returns a copy of the scale with the pan offset replaced.
func (s Scale) WithPan(offset float64) Scale {
	s.PanOffset = offset
	return s
}
