package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionKind is the timer mode a study session was recorded with.
type SessionKind string

const (
	SessionPomodoro  SessionKind = "pomodoro"
	SessionStopwatch SessionKind = "stopwatch"
)

// DefaultMinSessionDuration is the shortest session that is logged and scheduled.
const DefaultMinSessionDuration = 60 * time.Second

// StudySession is one completed study interval with optional question tallies.
type StudySession struct {
	ID        uuid.UUID
	UserID    int64
	Subject   string
	Topic     string // may be empty when the session was not tied to a topic
	Kind      SessionKind
	Duration  time.Duration
	Correct   int
	Incorrect int
	EndedAt   time.Time
}

// NewStudySession creates a session that ended at endedAt.
func NewStudySession(userID int64, subject, topic string, kind SessionKind, duration time.Duration, endedAt time.Time) *StudySession {
	return &StudySession{
		ID:       uuid.New(),
		UserID:   userID,
		Subject:  subject,
		Topic:    topic,
		Kind:     kind,
		Duration: duration,
		EndedAt:  endedAt,
	}
}

// Qualifies reports whether the session is long enough to be logged.
func (s *StudySession) Qualifies(minDuration time.Duration) bool {
	return s.Duration >= minDuration
}

// HasTopic reports whether the session is tied to a topic.
func (s *StudySession) HasTopic() bool {
	_, _, err := NormalizeTopic(s.Subject, s.Topic)
	return err == nil
}

// HasQuestions reports whether any questions were answered.
func (s *StudySession) HasQuestions() bool {
	return s.Correct > 0 || s.Incorrect > 0
}
