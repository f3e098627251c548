package srs

import "github.com/aliskhannn/study-review-bot/internal/domain/entities"

// ModeKind distinguishes the normal schedule from the recovery sub-schedule.
type ModeKind int

const (
	Normal ModeKind = iota
	Recovering
)

func (k ModeKind) String() string {
	if k == Recovering {
		return "recovering"
	}
	return "normal"
}

// Mode is the scheduling mode of a topic. Attempts and SavedInterval are
// meaningful only when Kind is Recovering.
type Mode struct {
	Kind          ModeKind
	Attempts      int
	SavedInterval *int
}

// ModeOf reads the mode stored in a review state.
func ModeOf(s *entities.ReviewState) Mode {
	if s == nil || !s.InRecoveryMode {
		return Mode{Kind: Normal}
	}
	m := Mode{Kind: Recovering}
	if s.RecoveryAttempts != nil && *s.RecoveryAttempts > 0 {
		m.Attempts = *s.RecoveryAttempts
	}
	if s.PreviousInterval != nil {
		v := *s.PreviousInterval
		m.SavedInterval = &v
	}
	return m
}

// Transition names the mode change a session caused.
type Transition int

const (
	TransitionAdvance   Transition = iota // normal → normal, review count +1
	TransitionReset                       // normal → normal, review count reset to 1
	TransitionSpike                       // normal → recovering
	TransitionWorsening                   // recovering → recovering, attempts +1
	TransitionMarginal                    // recovering → recovering, unchanged
	TransitionRecovered                   // recovering → normal, saved interval restored
)

var transitionNames = map[Transition]string{
	TransitionAdvance:   "advance",
	TransitionReset:     "reset",
	TransitionSpike:     "spike",
	TransitionWorsening: "worsening",
	TransitionMarginal:  "marginal",
	TransitionRecovered: "recovered",
}

func (t Transition) String() string {
	if name, ok := transitionNames[t]; ok {
		return name
	}
	return "unknown"
}

// step is the result of the mode transition layer.
type step struct {
	mode        Mode
	reviewCount int
	transition  Transition
}

// transition decides the next mode from the prior mode and the session.
// The recovery branch always takes precedence over the low-accuracy reset.
func (s *Scheduler) transition(prior Mode, reviewCount int, cumulative, session float64) step {
	t := s.thresholds

	switch {
	case prior.Kind == Normal &&
		cumulative >= t.SpikeCumulativeMin &&
		session <= t.SpikeSessionMax &&
		reviewCount >= t.SpikeMinReviews:
		saved := s.normalInterval(reviewCount, cumulative)
		return step{
			mode:        Mode{Kind: Recovering, Attempts: 0, SavedInterval: &saved},
			reviewCount: reviewCount,
			transition:  TransitionSpike,
		}

	case prior.Kind == Recovering && session >= t.RecoveredMin:
		return step{
			mode:        Mode{Kind: Normal},
			reviewCount: reviewCount + 1,
			transition:  TransitionRecovered,
		}

	case prior.Kind == Recovering && session < t.WorseningBelow:
		next := prior
		next.Attempts++
		return step{mode: next, reviewCount: reviewCount, transition: TransitionWorsening}

	case prior.Kind == Recovering:
		return step{mode: prior, reviewCount: reviewCount, transition: TransitionMarginal}

	case cumulative < t.ResetCumulativeBelow:
		return step{mode: Mode{Kind: Normal}, reviewCount: 1, transition: TransitionReset}

	default:
		return step{mode: Mode{Kind: Normal}, reviewCount: reviewCount + 1, transition: TransitionAdvance}
	}
}
