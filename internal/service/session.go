package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/study-review-bot/internal/srs"
)

var ErrSessionTooShort = errors.New("session too short")

// OutcomeRecorder applies session tallies to a topic's review state.
type OutcomeRecorder interface {
	RecordSessionOutcome(ctx context.Context, userID int64, subject, topic string, correct, incorrect int) (*srs.Outcome, error)
}

// SessionService logs completed study sessions and refreshes review schedules.
type SessionService struct {
	sessionRepo StudySessionRepository
	reviews     OutcomeRecorder
	transactor  Transactor
	minDuration time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewSessionService(
	sessionRepo StudySessionRepository,
	reviews OutcomeRecorder,
	transactor Transactor,
	minDuration time.Duration,
	logger *zap.Logger,
) *SessionService {
	if minDuration <= 0 {
		minDuration = entities.DefaultMinSessionDuration
	}
	return &SessionService{
		sessionRepo: sessionRepo,
		reviews:     reviews,
		transactor:  transactor,
		minDuration: minDuration,
		logger:      logger,
		now:         time.Now,
	}
}

// MinDuration returns the shortest session that is accepted.
func (s *SessionService) MinDuration() time.Duration {
	return s.minDuration
}

// CompleteSession stores a finished session and, when it is tied to a topic,
// updates the topic's review state. The returned outcome is nil for sessions
// without a topic.
func (s *SessionService) CompleteSession(ctx context.Context, session *entities.StudySession) (*srs.Outcome, error) {
	if !session.Qualifies(s.minDuration) {
		return nil, fmt.Errorf("%w: %s < %s", ErrSessionTooShort, session.Duration, s.minDuration)
	}
	session.Correct = max(0, session.Correct)
	session.Incorrect = max(0, session.Incorrect)

	var out *srs.Outcome
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.sessionRepo.Save(ctx, session); err != nil {
			return err
		}
		if !session.HasTopic() {
			return nil
		}

		var err error
		out, err = s.reviews.RecordSessionOutcome(ctx, session.UserID, session.Subject, session.Topic, session.Correct, session.Incorrect)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}

	s.logger.Info("study session completed",
		zap.Int64("user_id", session.UserID),
		zap.String("session_id", session.ID.String()),
		zap.String("subject", session.Subject),
		zap.String("topic", session.Topic),
		zap.Duration("duration", session.Duration),
	)

	return out, nil
}

// WeeklyTotals aggregates the sessions of the last seven days.
func (s *SessionService) WeeklyTotals(ctx context.Context, userID int64) (*repository.SessionTotals, error) {
	return s.sessionRepo.Totals(ctx, userID, s.now().AddDate(0, 0, -7))
}
