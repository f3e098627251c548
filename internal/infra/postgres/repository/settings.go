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

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository provides access to user settings data in the database.
type SettingsRepository struct {
	db postgres.DBTX
}

// NewSettingsRepository creates a new SettingsRepository with the provided database pool.
func NewSettingsRepository(db postgres.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Create creates default settings for a user.
func (r *SettingsRepository) Create(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO user_settings (
			user_id, vacation_mode, review_session_limit, timezone,
			digest_enabled, created_at, updated_at
		) VALUES ($1, FALSE, 0, 'UTC', TRUE, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := postgres.Conn(ctx, r.db).Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("create settings: %w", err)
	}

	return nil
}

// GetByUserID retrieves settings for a user.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	query := `
		SELECT user_id, vacation_mode, review_session_limit, timezone,
		       digest_enabled, last_digest_at, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var settings entities.UserSettings
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.VacationMode,
		&settings.ReviewSessionLimit,
		&settings.Timezone,
		&settings.DigestEnabled,
		&settings.LastDigestAt,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &settings, nil
}

// ToggleVacationMode flips vacation mode and returns the new value.
func (r *SettingsRepository) ToggleVacationMode(ctx context.Context, userID int64) (bool, error) {
	query := `
		UPDATE user_settings
		SET vacation_mode = NOT vacation_mode, updated_at = $1
		WHERE user_id = $2
		RETURNING vacation_mode
	`

	var enabled bool
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, time.Now(), userID).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrSettingsNotFound
		}
		return false, fmt.Errorf("toggle vacation mode: %w", err)
	}

	return enabled, nil
}

// ToggleDigest flips the daily digest and returns the new value.
func (r *SettingsRepository) ToggleDigest(ctx context.Context, userID int64) (bool, error) {
	query := `
		UPDATE user_settings
		SET digest_enabled = NOT digest_enabled, updated_at = $1
		WHERE user_id = $2
		RETURNING digest_enabled
	`

	var enabled bool
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, time.Now(), userID).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrSettingsNotFound
		}
		return false, fmt.Errorf("toggle digest: %w", err)
	}

	return enabled, nil
}

// UpdateReviewSessionLimit updates the maximum number of topics in the due list.
func (r *SettingsRepository) UpdateReviewSessionLimit(ctx context.Context, userID int64, limit int) error {
	query := `
		UPDATE user_settings
		SET review_session_limit = $1, updated_at = $2
		WHERE user_id = $3
	`

	result, err := postgres.Conn(ctx, r.db).Exec(ctx, query, limit, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("update review session limit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

// UpdateTimezone updates the user's timezone.
func (r *SettingsRepository) UpdateTimezone(ctx context.Context, userID int64, timezone string) error {
	query := `
		UPDATE user_settings
		SET timezone = $1, updated_at = $2
		WHERE user_id = $3
	`

	result, err := postgres.Conn(ctx, r.db).Exec(ctx, query, timezone, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

// MarkDigestSent records when the last digest went out.
func (r *SettingsRepository) MarkDigestSent(ctx context.Context, userID int64, sentAt time.Time) error {
	query := `
		UPDATE user_settings
		SET last_digest_at = $1
		WHERE user_id = $2
	`

	result, err := postgres.Conn(ctx, r.db).Exec(ctx, query, sentAt, userID)
	if err != nil {
		return fmt.Errorf("mark digest sent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

// DigestRecipient is a user eligible for the due-review digest.
type DigestRecipient struct {
	UserID   int64
	ChatID   int64
	Settings entities.UserSettings
}

// ListDigestRecipients returns active users with the digest enabled and
// vacation mode off, paginated by user ID.
func (r *SettingsRepository) ListDigestRecipients(ctx context.Context, limit, offset int) ([]*DigestRecipient, error) {
	query := `
		SELECT u.id, u.chat_id,
		       s.vacation_mode, s.review_session_limit, s.timezone,
		       s.digest_enabled, s.last_digest_at, s.created_at, s.updated_at
		FROM users u
		JOIN user_settings s ON s.user_id = u.id
		WHERE u.is_active AND s.digest_enabled AND NOT s.vacation_mode
		ORDER BY u.id
		LIMIT $1 OFFSET $2
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list digest recipients: %w", err)
	}
	defer rows.Close()

	var recipients []*DigestRecipient
	for rows.Next() {
		var d DigestRecipient
		err = rows.Scan(
			&d.UserID,
			&d.ChatID,
			&d.Settings.VacationMode,
			&d.Settings.ReviewSessionLimit,
			&d.Settings.Timezone,
			&d.Settings.DigestEnabled,
			&d.Settings.LastDigestAt,
			&d.Settings.CreatedAt,
			&d.Settings.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan digest recipient: %w", err)
		}
		d.Settings.UserID = d.UserID
		recipients = append(recipients, &d)
	}

	return recipients, rows.Err()
}
