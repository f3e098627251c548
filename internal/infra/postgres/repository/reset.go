package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/study-review-bot/internal/infra/postgres"
)

// ResetRepository wipes a user's study history.
type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetUser deletes all review states and study sessions of a user.
// Call it inside a transaction to delete both or neither.
func (r *ResetRepository) ResetUser(ctx context.Context, userID int64) error {
	conn := postgres.Conn(ctx, r.db)

	if _, err := conn.Exec(ctx, `DELETE FROM review_states WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete review_states: %w", err)
	}
	if _, err := conn.Exec(ctx, `DELETE FROM study_sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete study_sessions: %w", err)
	}

	return nil
}
