// Package simulate replays a sequence of session outcomes through the review
// scheduler without any storage, advancing the clock to each due date.
package simulate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/srs"
)

var ErrInvalidSession = errors.New("invalid session")

// Session is the tally of one simulated study session.
type Session struct {
	Correct   int
	Incorrect int
}

// Step is one replayed session.
type Step struct {
	Number     int
	StudiedAt  time.Time
	Session    Session
	Accuracy   float64 // session accuracy, 0..1
	Cumulative float64 // cumulative accuracy after the session, 0..1
	Outcome    srs.Outcome
}

// ParseSessions parses a comma-separated list like "9/1,8/2,2/8".
func ParseSessions(s string) ([]Session, error) {
	var out []Session
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, inc, ok := strings.Cut(part, "/")
		if !ok {
			return nil, fmt.Errorf("%w %d: %q, want correct/incorrect", ErrInvalidSession, i+1, part)
		}
		correct, err1 := strconv.Atoi(strings.TrimSpace(c))
		incorrect, err2 := strconv.Atoi(strings.TrimSpace(inc))
		if err1 != nil || err2 != nil || correct < 0 || incorrect < 0 {
			return nil, fmt.Errorf("%w %d: %q", ErrInvalidSession, i+1, part)
		}
		out = append(out, Session{Correct: correct, Incorrect: incorrect})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no sessions given", ErrInvalidSession)
	}
	return out, nil
}

// Replay applies sessions in order. The first session happens at start and
// every following one on the due date set by its predecessor.
func Replay(scheduler *srs.Scheduler, sessions []Session, start time.Time) []Step {
	steps := make([]Step, 0, len(sessions))

	var state *entities.ReviewState
	now := start
	for i, s := range sessions {
		out := scheduler.Outcome(state, s.Correct, s.Incorrect, now)
		steps = append(steps, Step{
			Number:     i + 1,
			StudiedAt:  now,
			Session:    s,
			Accuracy:   srs.Accuracy(s.Correct, s.Incorrect),
			Cumulative: out.State.Accuracy(),
			Outcome:    out,
		})

		next := out.State
		state = &next
		now = next.DueAt
	}

	return steps
}
