package telegram

import (
	"context"
	"time"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/study-review-bot/internal/service"
	"github.com/aliskhannn/study-review-bot/internal/srs"
)

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) error
	Deactivate(ctx context.Context, userID int64) error
}

type ReviewService interface {
	PostponeTopic(ctx context.Context, userID, stateID int64) (*entities.ReviewState, error)
	TopicState(ctx context.Context, userID int64, subject, topic string) (*entities.ReviewState, error)
	ForgetTopic(ctx context.Context, userID int64, subject, topic string) error
	DueTopics(ctx context.Context, userID int64, order service.DueSort) (*service.DueList, error)
	UpcomingTopics(ctx context.Context, userID int64, limit int) ([]entities.DueTopic, error)
	Summary(ctx context.Context, userID int64) (*service.ReviewSummary, error)
}

type SessionService interface {
	CompleteSession(ctx context.Context, session *entities.StudySession) (*srs.Outcome, error)
	WeeklyTotals(ctx context.Context, userID int64) (*repository.SessionTotals, error)
	MinDuration() time.Duration
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) error
}

type SettingsService interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error)
	ToggleVacationMode(ctx context.Context, userID int64) (bool, error)
	ToggleDigest(ctx context.Context, userID int64) (bool, error)
	SetReviewSessionLimit(ctx context.Context, userID int64, limit int) error
	SetTimezone(ctx context.Context, userID int64, timezone string) error
}
