package service

import (
	"context"
	"time"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
)

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	Deactivate(ctx context.Context, userID int64) error
}

type ReviewStateRepository interface {
	Get(ctx context.Context, userID int64, topicKey string) (*entities.ReviewState, error)
	GetForUpdate(ctx context.Context, userID int64, topicKey string) (*entities.ReviewState, error)
	GetByID(ctx context.Context, userID, id int64) (*entities.ReviewState, error)
	Upsert(ctx context.Context, state *entities.ReviewState) error
	UpdateDueAt(ctx context.Context, userID, id int64, dueAt, updatedAt, expectedUpdatedAt time.Time) error
	ListByUserID(ctx context.Context, userID int64) ([]*entities.ReviewState, error)
	ListDueBefore(ctx context.Context, userID int64, before time.Time) ([]*entities.ReviewState, error)
	DeleteByTopic(ctx context.Context, userID int64, topicKey string) error
}

type StudySessionRepository interface {
	Save(ctx context.Context, s *entities.StudySession) error
	Totals(ctx context.Context, userID int64, since time.Time) (*repository.SessionTotals, error)
}

type SettingsRepository interface {
	Create(ctx context.Context, userID int64) error
	GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error)
	ToggleVacationMode(ctx context.Context, userID int64) (bool, error)
	ToggleDigest(ctx context.Context, userID int64) (bool, error)
	UpdateReviewSessionLimit(ctx context.Context, userID int64, limit int) error
	UpdateTimezone(ctx context.Context, userID int64, timezone string) error
	MarkDigestSent(ctx context.Context, userID int64, sentAt time.Time) error
	ListDigestRecipients(ctx context.Context, limit, offset int) ([]*repository.DigestRecipient, error)
}

// ReminderNotifier sends digest notifications to users.
type ReminderNotifier interface {
	SendDigest(chatID int64, digest entities.Digest) error
}
