package ui

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// RoadmapStats summarizes the feature population for the status bar.
type RoadmapStats struct {
	Features       int
	MeanDays       float64
	MedianDays     float64
	P90Days        float64
	MeanComplete   float64 // mean percent complete over features with progress
	TrackedFeature int     // features carrying progress info
}

// ComputeStats derives duration and completion statistics from the
// flattened item list. Only features contribute; durations are
// inclusive day counts.
func ComputeStats(items []model.TimedItem) RoadmapStats {
	var durations []float64
	var completes []float64
	for _, it := range items {
		if it.Kind != model.KindFeature {
			continue
		}
		durations = append(durations, float64(model.DaysBetween(it.StartDate, it.EndDate)+1))
		if it.Progress != nil {
			completes = append(completes, float64(it.Progress.PercentComplete))
		}
	}

	s := RoadmapStats{Features: len(durations), TrackedFeature: len(completes)}
	if len(durations) == 0 {
		return s
	}

	sort.Float64s(durations)
	s.MeanDays = stat.Mean(durations, nil)
	s.MedianDays = stat.Quantile(0.5, stat.Empirical, durations, nil)
	s.P90Days = stat.Quantile(0.9, stat.Empirical, durations, nil)
	if len(completes) > 0 {
		s.MeanComplete = stat.Mean(completes, nil)
	}
	return s
}

// String renders the stats the way the status bar shows them.
func (s RoadmapStats) String() string {
	if s.Features == 0 {
		return "no features"
	}
	out := fmt.Sprintf("%d features · avg %.0fd · p50 %.0fd · p90 %.0fd",
		s.Features, s.MeanDays, s.MedianDays, s.P90Days)
	if s.TrackedFeature > 0 {
		out += fmt.Sprintf(" · %.0f%% done", s.MeanComplete)
	}
	return out
}
