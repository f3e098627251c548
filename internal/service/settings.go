package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
)

// MaxReviewSessionLimit bounds the due-list size a user can configure.
const MaxReviewSessionLimit = 100

var (
	ErrInvalidLimit    = errors.New("invalid review session limit")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

type SettingsService struct {
	repository SettingsRepository
}

func NewSettingsService(repository SettingsRepository) *SettingsService {
	return &SettingsService{repository: repository}
}

func (s *SettingsService) GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	settings, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			// Create default settings.
			if err := s.repository.Create(ctx, userID); err != nil {
				return nil, err
			}
			// Retrieve newly created settings.
			return s.repository.GetByUserID(ctx, userID)
		}
		return nil, err
	}

	return settings, nil
}

// ToggleVacationMode flips vacation mode and reports the new value.
func (s *SettingsService) ToggleVacationMode(ctx context.Context, userID int64) (bool, error) {
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return false, err
	}
	return s.repository.ToggleVacationMode(ctx, userID)
}

// ToggleDigest flips the daily digest and reports the new value.
func (s *SettingsService) ToggleDigest(ctx context.Context, userID int64) (bool, error) {
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return false, err
	}
	return s.repository.ToggleDigest(ctx, userID)
}

// SetReviewSessionLimit sets how many due topics are listed; 0 lists all.
func (s *SettingsService) SetReviewSessionLimit(ctx context.Context, userID int64, limit int) error {
	if limit < 0 || limit > MaxReviewSessionLimit {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.repository.UpdateReviewSessionLimit(ctx, userID, limit)
}

// SetTimezone validates and stores the user's timezone.
func (s *SettingsService) SetTimezone(ctx context.Context, userID int64, timezone string) error {
	if _, err := entities.ParseTimezoneLocation(timezone); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.repository.UpdateTimezone(ctx, userID, timezone)
}

// settingsOrDefault returns stored settings or defaults when none exist yet.
func settingsOrDefault(ctx context.Context, repo SettingsRepository, userID int64) (*entities.UserSettings, error) {
	settings, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return entities.NewUserSettings(userID), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}
