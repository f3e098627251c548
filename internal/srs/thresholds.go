package srs

import (
	"errors"
	"fmt"
)

// ErrInvalidThresholds is returned by NewScheduler for out-of-range thresholds.
var ErrInvalidThresholds = errors.New("srs: invalid thresholds")

// Thresholds holds the empirical constants driving mode transitions and intervals.
// A zero Thresholds means DefaultThresholds; any other value is used as given,
// so zero fields are real settings.
type Thresholds struct {
	SpikeCumulativeMin   float64 // cumulative accuracy needed to detect a spike
	SpikeSessionMax      float64 // session accuracy at or below which a spike fires
	SpikeMinReviews      int     // only topics with this many reviews can spike
	RecoveredMin         float64 // session accuracy that ends recovery
	WorseningBelow       float64 // session accuracy below which recovery worsens
	ResetCumulativeBelow float64 // cumulative accuracy that resets review count
	GrowthFactor         float64 // base interval growth per review
	MinIntervalDays      int
	MaxIntervalDays      int
	RecoveryIntervals    []int // indexed by recovery attempts
	RecoveryFallbackDays int   // used when no saved interval exists
}

// DefaultThresholds returns the reference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SpikeCumulativeMin:   0.6,
		SpikeSessionMax:      0.4,
		SpikeMinReviews:      3,
		RecoveredMin:         0.7,
		WorseningBelow:       0.5,
		ResetCumulativeBelow: 0.4,
		GrowthFactor:         1.7,
		MinIntervalDays:      1,
		MaxIntervalDays:      180,
		RecoveryIntervals:    []int{3, 2, 1},
		RecoveryFallbackDays: 7,
	}
}

// IsZero reports whether no field is set.
func (t Thresholds) IsZero() bool {
	return t.SpikeCumulativeMin == 0 &&
		t.SpikeSessionMax == 0 &&
		t.SpikeMinReviews == 0 &&
		t.RecoveredMin == 0 &&
		t.WorseningBelow == 0 &&
		t.ResetCumulativeBelow == 0 &&
		t.GrowthFactor == 0 &&
		t.MinIntervalDays == 0 &&
		t.MaxIntervalDays == 0 &&
		t.RecoveryIntervals == nil &&
		t.RecoveryFallbackDays == 0
}

// Validate checks that all ratios are in [0, 1] and intervals are consistent.
func (t Thresholds) Validate() error {
	ratios := map[string]float64{
		"spike_cumulative_min":   t.SpikeCumulativeMin,
		"spike_session_max":      t.SpikeSessionMax,
		"recovered_min":          t.RecoveredMin,
		"worsening_below":        t.WorseningBelow,
		"reset_cumulative_below": t.ResetCumulativeBelow,
	}
	for name, v := range ratios {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s %.2f out of range [0, 1]", ErrInvalidThresholds, name, v)
		}
	}
	if t.WorseningBelow > t.RecoveredMin {
		return fmt.Errorf("%w: worsening_below %.2f above recovered_min %.2f",
			ErrInvalidThresholds, t.WorseningBelow, t.RecoveredMin)
	}
	if t.SpikeMinReviews < 0 {
		return fmt.Errorf("%w: spike_min_reviews %d is negative", ErrInvalidThresholds, t.SpikeMinReviews)
	}
	if t.GrowthFactor < 1 {
		return fmt.Errorf("%w: growth_factor %.2f below 1", ErrInvalidThresholds, t.GrowthFactor)
	}
	if t.MinIntervalDays < 1 || t.MaxIntervalDays < t.MinIntervalDays {
		return fmt.Errorf("%w: interval bounds [%d, %d]", ErrInvalidThresholds, t.MinIntervalDays, t.MaxIntervalDays)
	}
	if len(t.RecoveryIntervals) == 0 {
		return fmt.Errorf("%w: recovery_intervals is empty", ErrInvalidThresholds)
	}
	for i, days := range t.RecoveryIntervals {
		if days < t.MinIntervalDays || days > t.MaxIntervalDays {
			return fmt.Errorf("%w: recovery_intervals[%d] = %d out of bounds", ErrInvalidThresholds, i, days)
		}
	}
	if t.RecoveryFallbackDays < t.MinIntervalDays || t.RecoveryFallbackDays > t.MaxIntervalDays {
		return fmt.Errorf("%w: recovery_fallback_days %d out of bounds", ErrInvalidThresholds, t.RecoveryFallbackDays)
	}
	return nil
}
