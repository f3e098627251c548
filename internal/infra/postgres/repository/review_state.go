package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres"
)

var (
	ErrReviewStateNotFound = errors.New("review state not found")
	ErrReviewStateConflict = errors.New("review state was modified concurrently")
)

const reviewStateColumns = `
	id, user_id, topic_key, review_count, correct_total, incorrect_total,
	due_at, updated_at, in_recovery_mode, previous_interval, recovery_attempts,
	last_session_accuracy`

// ReviewStateRepository provides access to per-topic review states.
type ReviewStateRepository struct {
	db postgres.DBTX
}

// NewReviewStateRepository creates a new ReviewStateRepository with the provided database pool.
func NewReviewStateRepository(db postgres.DBTX) *ReviewStateRepository {
	return &ReviewStateRepository{db: db}
}

// GetForUpdate retrieves a review state and locks its row until the surrounding transaction ends.
func (r *ReviewStateRepository) GetForUpdate(ctx context.Context, userID int64, topicKey string) (*entities.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND topic_key = $2
		FOR UPDATE
	`

	state, err := scanReviewState(postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID, topicKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewStateNotFound
		}
		return nil, fmt.Errorf("get review state for update: %w", err)
	}

	return state, nil
}

// GetByID retrieves a review state owned by the user.
func (r *ReviewStateRepository) GetByID(ctx context.Context, userID, id int64) (*entities.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND id = $2
	`

	state, err := scanReviewState(postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewStateNotFound
		}
		return nil, fmt.Errorf("get review state: %w", err)
	}

	return state, nil
}

// Get retrieves a review state by topic key.
func (r *ReviewStateRepository) Get(ctx context.Context, userID int64, topicKey string) (*entities.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND topic_key = $2
	`

	state, err := scanReviewState(postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID, topicKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewStateNotFound
		}
		return nil, fmt.Errorf("get review state: %w", err)
	}

	return state, nil
}

// Upsert creates or replaces the review state of a topic and sets its ID.
func (r *ReviewStateRepository) Upsert(ctx context.Context, state *entities.ReviewState) error {
	query := `
		INSERT INTO review_states (
			user_id, topic_key, review_count, correct_total, incorrect_total,
			due_at, updated_at, in_recovery_mode, previous_interval, recovery_attempts,
			last_session_accuracy
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, topic_key) DO UPDATE SET
			review_count = EXCLUDED.review_count,
			correct_total = EXCLUDED.correct_total,
			incorrect_total = EXCLUDED.incorrect_total,
			due_at = EXCLUDED.due_at,
			updated_at = EXCLUDED.updated_at,
			in_recovery_mode = EXCLUDED.in_recovery_mode,
			previous_interval = EXCLUDED.previous_interval,
			recovery_attempts = EXCLUDED.recovery_attempts,
			last_session_accuracy = EXCLUDED.last_session_accuracy
		RETURNING id
	`

	err := postgres.Conn(ctx, r.db).QueryRow(
		ctx,
		query,
		state.UserID,
		state.TopicKey,
		state.ReviewCount,
		state.CorrectTotal,
		state.IncorrectTotal,
		state.DueAt,
		state.UpdatedAt,
		state.InRecoveryMode,
		state.PreviousInterval,
		state.RecoveryAttempts,
		state.LastSessionAccuracy,
	).Scan(&state.ID)
	if err != nil {
		return fmt.Errorf("upsert review state: %w", err)
	}

	return nil
}

// UpdateDueAt moves the due date of a review state if it was not modified since
// expectedUpdatedAt. It returns ErrReviewStateConflict when no row matched.
func (r *ReviewStateRepository) UpdateDueAt(
	ctx context.Context, userID, id int64, dueAt, updatedAt, expectedUpdatedAt time.Time,
) error {
	query := `
		UPDATE review_states
		SET due_at = $1, updated_at = $2
		WHERE user_id = $3 AND id = $4 AND updated_at = $5
	`

	result, err := postgres.Conn(ctx, r.db).Exec(ctx, query, dueAt, updatedAt, userID, id, expectedUpdatedAt)
	if err != nil {
		return fmt.Errorf("update due at: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReviewStateConflict
	}

	return nil
}

// ListByUserID retrieves every review state of a user ordered by due date.
func (r *ReviewStateRepository) ListByUserID(ctx context.Context, userID int64) ([]*entities.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1
		ORDER BY due_at, topic_key
	`

	return r.list(ctx, query, userID)
}

// ListDueBefore retrieves review states due strictly before the given instant.
func (r *ReviewStateRepository) ListDueBefore(ctx context.Context, userID int64, before time.Time) ([]*entities.ReviewState, error) {
	query := `SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND due_at < $2
		ORDER BY due_at, topic_key
	`

	return r.list(ctx, query, userID, before)
}

// DeleteByTopic removes the review state of a topic.
func (r *ReviewStateRepository) DeleteByTopic(ctx context.Context, userID int64, topicKey string) error {
	query := `DELETE FROM review_states WHERE user_id = $1 AND topic_key = $2`

	result, err := postgres.Conn(ctx, r.db).Exec(ctx, query, userID, topicKey)
	if err != nil {
		return fmt.Errorf("delete review state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReviewStateNotFound
	}

	return nil
}

func (r *ReviewStateRepository) list(ctx context.Context, query string, args ...any) ([]*entities.ReviewState, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list review states: %w", err)
	}
	defer rows.Close()

	var states []*entities.ReviewState
	for rows.Next() {
		state, err := scanReviewState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review state: %w", err)
		}
		states = append(states, state)
	}

	return states, rows.Err()
}

func scanReviewState(row pgx.Row) (*entities.ReviewState, error) {
	var s entities.ReviewState
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.TopicKey,
		&s.ReviewCount,
		&s.CorrectTotal,
		&s.IncorrectTotal,
		&s.DueAt,
		&s.UpdatedAt,
		&s.InRecoveryMode,
		&s.PreviousInterval,
		&s.RecoveryAttempts,
		&s.LastSessionAccuracy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
