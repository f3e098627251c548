package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres"
)

// StudySessionRepository stores the log of completed study sessions.
type StudySessionRepository struct {
	db postgres.DBTX
}

func NewStudySessionRepository(db postgres.DBTX) *StudySessionRepository {
	return &StudySessionRepository{db: db}
}

// Save inserts a session.
func (r *StudySessionRepository) Save(ctx context.Context, s *entities.StudySession) error {
	query := `
		INSERT INTO study_sessions (
			id, user_id, subject, topic, kind, duration_s, correct, incorrect, ended_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := postgres.Conn(ctx, r.db).Exec(
		ctx,
		query,
		s.ID,
		s.UserID,
		s.Subject,
		s.Topic,
		string(s.Kind),
		int(s.Duration/time.Second),
		s.Correct,
		s.Incorrect,
		s.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("save study session: %w", err)
	}

	return nil
}

// SessionTotals aggregates a user's study log.
type SessionTotals struct {
	Sessions  int
	Duration  time.Duration
	Correct   int
	Incorrect int
}

// Totals returns aggregated session stats since the given instant.
func (r *StudySessionRepository) Totals(ctx context.Context, userID int64, since time.Time) (*SessionTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(duration_s), 0),
		       COALESCE(SUM(correct), 0),
		       COALESCE(SUM(incorrect), 0)
		FROM study_sessions
		WHERE user_id = $1 AND ended_at >= $2
	`

	var (
		totals  SessionTotals
		seconds int64
	)
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID, since).Scan(
		&totals.Sessions,
		&seconds,
		&totals.Correct,
		&totals.Incorrect,
	)
	if err != nil {
		return nil, fmt.Errorf("get session totals: %w", err)
	}

	totals.Duration = time.Duration(seconds) * time.Second
	return &totals, nil
}
