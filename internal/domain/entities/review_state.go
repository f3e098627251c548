package entities

import "time"

// ReviewState stores the spaced repetition schedule of a single topic.
type ReviewState struct {
	ID       int64
	UserID   int64
	TopicKey string

	ReviewCount    int       // completed normal-mode review cycles
	CorrectTotal   int       // all-time correct answers
	IncorrectTotal int       // all-time incorrect answers
	DueAt          time.Time // when the topic should next be reviewed
	UpdatedAt      time.Time // last mutation

	// Recovery fields. PreviousInterval and RecoveryAttempts are set only while InRecoveryMode.
	InRecoveryMode      bool
	PreviousInterval    *int     // interval in days captured on recovery entry
	RecoveryAttempts    *int     // consecutive non-recovering sessions while recovering
	LastSessionAccuracy *float64 // accuracy of the most recent session, 0..1
}

// NewReviewState creates an all-zero review state for a topic.
func NewReviewState(userID int64, topicKey string, now time.Time) *ReviewState {
	return &ReviewState{
		UserID:    userID,
		TopicKey:  topicKey,
		DueAt:     now,
		UpdatedAt: now,
	}
}

// Accuracy returns cumulative accuracy in the 0..1 range, 1 when nothing was answered.
func (s *ReviewState) Accuracy() float64 {
	total := s.CorrectTotal + s.IncorrectTotal
	if total == 0 {
		return 1.0
	}
	return float64(s.CorrectTotal) / float64(total)
}

// Attempt returns the 1-based recovery attempt number, or 0 outside recovery mode.
func (s *ReviewState) Attempt() int {
	if !s.InRecoveryMode || s.RecoveryAttempts == nil {
		return 0
	}
	return *s.RecoveryAttempts + 1
}
