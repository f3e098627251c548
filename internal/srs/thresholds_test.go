package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
)

func TestNewSchedulerZeroValueUsesDefaults(t *testing.T) {
	s, err := NewScheduler(Thresholds{})
	require.NoError(t, err)
	assert.Equal(t, DefaultThresholds(), s.Thresholds())
}

func TestNewSchedulerOverrides(t *testing.T) {
	th := DefaultThresholds()
	th.MaxIntervalDays = 60
	th.RecoveryIntervals = []int{5, 3}

	s, err := NewScheduler(th)
	require.NoError(t, err)

	assert.Equal(t, 60, s.BaseInterval(30))
	out := s.Outcome(nil, 10, 0, t0)
	assert.LessOrEqual(t, out.IntervalDays, 60)
}

func TestNewSchedulerKeepsExplicitZeros(t *testing.T) {
	th := DefaultThresholds()
	th.SpikeMinReviews = 0
	th.WorseningBelow = 0
	require.NoError(t, th.Validate())

	s, err := NewScheduler(th)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Thresholds().SpikeMinReviews)
	assert.Zero(t, s.Thresholds().WorseningBelow)

	state := &entities.ReviewState{ReviewCount: 1, CorrectTotal: 100}
	out := s.Outcome(state, 0, 10, t0)
	assert.Equal(t, TransitionSpike, out.Transition)
}

func TestNewSchedulerRejectsInvalid(t *testing.T) {
	cases := map[string]func(*Thresholds){
		"ratio above one":        func(th *Thresholds) { th.SpikeCumulativeMin = 1.5 },
		"negative ratio":         func(th *Thresholds) { th.RecoveredMin = -0.2 },
		"worsening above exit":   func(th *Thresholds) { th.WorseningBelow, th.RecoveredMin = 0.8, 0.7 },
		"shrinking growth":       func(th *Thresholds) { th.GrowthFactor = 0.5 },
		"zero growth":            func(th *Thresholds) { th.GrowthFactor = 0 },
		"inverted bounds":        func(th *Thresholds) { th.MinIntervalDays, th.MaxIntervalDays = 10, 5 },
		"empty recovery steps":   func(th *Thresholds) { th.RecoveryIntervals = nil },
		"recovery step too long": func(th *Thresholds) { th.MaxIntervalDays, th.RecoveryIntervals = 30, []int{45} },
		"fallback out of bounds": func(th *Thresholds) { th.MaxIntervalDays, th.RecoveryFallbackDays = 5, 6 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			th := DefaultThresholds()
			mutate(&th)
			_, err := NewScheduler(th)
			assert.ErrorIs(t, err, ErrInvalidThresholds)
		})
	}
}

func TestThresholdsCopyIsIndependent(t *testing.T) {
	s := Default()
	th := s.Thresholds()
	th.RecoveryIntervals[0] = 99

	assert.Equal(t, 3, s.Thresholds().RecoveryIntervals[0])
}

func TestTransitionNames(t *testing.T) {
	assert.Equal(t, "spike", TransitionSpike.String())
	assert.Equal(t, "recovered", TransitionRecovered.String())
	assert.Equal(t, "unknown", Transition(42).String())
	assert.Equal(t, "recovering", Recovering.String())
	assert.Equal(t, "normal", Normal.String())
}
