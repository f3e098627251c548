// Package srs schedules topic reviews from study session outcomes.
//
// Each call is a pure transition: it takes the current review state of a
// topic and the correct/incorrect tallies of the session that just ended and
// returns the next state. Topics follow an exponentially growing schedule
// scaled by cumulative accuracy. A sudden drop in session accuracy on an
// established topic switches it to a short recovery schedule; a strong
// session afterwards restores the interval the topic had before the drop.
package srs

import (
	"math"
	"time"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
)

// Scheduler computes review states. It holds only its thresholds and is safe
// for concurrent use.
type Scheduler struct {
	thresholds Thresholds
}

// NewScheduler creates a Scheduler from the given thresholds.
// A zero Thresholds selects the defaults; invalid values return an error.
func NewScheduler(t Thresholds) (*Scheduler, error) {
	if t.IsZero() {
		return Default(), nil
	}
	t.RecoveryIntervals = append([]int(nil), t.RecoveryIntervals...)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{thresholds: t}, nil
}

// Default returns a Scheduler with the reference thresholds.
func Default() *Scheduler {
	return &Scheduler{thresholds: DefaultThresholds()}
}

// Thresholds returns a copy of the scheduler thresholds.
func (s *Scheduler) Thresholds() Thresholds {
	t := s.thresholds
	t.RecoveryIntervals = append([]int(nil), t.RecoveryIntervals...)
	return t
}

// Outcome is the result of applying a session to a review state.
type Outcome struct {
	State        entities.ReviewState
	Transition   Transition
	IntervalDays int
}

// Apply returns the review state after a session with the given tallies.
// A nil state is treated as a fresh topic. The input is never modified.
func (s *Scheduler) Apply(state *entities.ReviewState, correct, incorrect int, now time.Time) entities.ReviewState {
	return s.Outcome(state, correct, incorrect, now).State
}

// Outcome is Apply that also reports the transition and the chosen interval.
func (s *Scheduler) Outcome(state *entities.ReviewState, correct, incorrect int, now time.Time) Outcome {
	var prior entities.ReviewState
	if state != nil {
		prior = *state
	}

	correct = max(0, correct)
	incorrect = max(0, incorrect)

	next := entities.ReviewState{
		ID:             prior.ID,
		UserID:         prior.UserID,
		TopicKey:       prior.TopicKey,
		CorrectTotal:   max(0, prior.CorrectTotal) + correct,
		IncorrectTotal: max(0, prior.IncorrectTotal) + incorrect,
	}

	cumulative := Accuracy(next.CorrectTotal, next.IncorrectTotal)
	session := Accuracy(correct, incorrect)

	priorMode := ModeOf(&prior)
	st := s.transition(priorMode, max(0, prior.ReviewCount), cumulative, session)
	days := s.interval(priorMode, st, cumulative)

	next.ReviewCount = st.reviewCount
	next.InRecoveryMode = st.mode.Kind == Recovering
	if next.InRecoveryMode {
		attempts := st.mode.Attempts
		next.RecoveryAttempts = &attempts
		next.PreviousInterval = st.mode.SavedInterval
	}
	next.LastSessionAccuracy = &session
	next.UpdatedAt = now
	next.DueAt = now.AddDate(0, 0, days)

	return Outcome{State: next, Transition: st.transition, IntervalDays: days}
}

// Postpone moves the due date one calendar day later, in now's location.
// Nothing but DueAt and UpdatedAt changes.
func (s *Scheduler) Postpone(state entities.ReviewState, now time.Time) entities.ReviewState {
	state.DueAt = state.DueAt.In(now.Location()).AddDate(0, 0, 1)
	state.UpdatedAt = now
	return state
}

// interval computes the interval in days implied by the post-transition mode.
func (s *Scheduler) interval(prior Mode, st step, cumulative float64) int {
	t := s.thresholds

	switch {
	case st.mode.Kind == Recovering:
		idx := min(st.mode.Attempts, len(t.RecoveryIntervals)-1)
		return t.RecoveryIntervals[idx]

	case st.transition == TransitionRecovered:
		if prior.SavedInterval == nil || *prior.SavedInterval <= 0 {
			return t.RecoveryFallbackDays
		}
		return s.clamp(*prior.SavedInterval)

	default:
		return s.normalInterval(st.reviewCount, cumulative)
	}
}

// normalInterval is the steady-state interval: base interval scaled by difficulty.
func (s *Scheduler) normalInterval(reviewCount int, cumulative float64) int {
	base := s.BaseInterval(reviewCount)
	return s.clamp(int(math.Round(float64(base) * DifficultyMultiplier(cumulative))))
}

// BaseInterval returns the exponential-growth interval for a review count.
func (s *Scheduler) BaseInterval(reviewCount int) int {
	t := s.thresholds
	if reviewCount <= 1 {
		return 1
	}
	v := math.Round(math.Pow(t.GrowthFactor, float64(reviewCount-1)))
	if v > float64(t.MaxIntervalDays) {
		return t.MaxIntervalDays
	}
	return int(v)
}

func (s *Scheduler) clamp(days int) int {
	return max(s.thresholds.MinIntervalDays, min(s.thresholds.MaxIntervalDays, days))
}

// BaseInterval returns the reference base interval: round(1.7^(n-1)) capped at 180.
func BaseInterval(reviewCount int) int {
	return Default().BaseInterval(reviewCount)
}

// DifficultyMultiplier scales intervals by accuracy: 0.6 at 0 up to 2.0 at 1.
func DifficultyMultiplier(accuracy float64) float64 {
	accuracy = max(0, min(1, accuracy))
	return 0.6 + math.Pow(accuracy, 3)*1.4
}

// Accuracy returns correct/(correct+incorrect), or 1 when nothing was answered.
func Accuracy(correct, incorrect int) float64 {
	total := correct + incorrect
	if total <= 0 {
		return 1.0
	}
	return float64(correct) / float64(total)
}
