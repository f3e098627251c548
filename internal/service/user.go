package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
)

type UserService struct {
	repository   UserRepository
	settingsRepo SettingsRepository
	transactor   Transactor
	logger       *zap.Logger
}

func NewUserService(repository UserRepository, settingsRepo SettingsRepository, transactor Transactor, logger *zap.Logger) *UserService {
	return &UserService{
		repository:   repository,
		settingsRepo: settingsRepo,
		transactor:   transactor,
		logger:       logger,
	}
}

// EnsureUser registers the user and creates default settings on first contact.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	user := entities.NewUser(userID, chatID)

	var created bool
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repository.Save(ctx, user)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}

		if err := s.settingsRepo.Create(ctx, userID); err != nil {
			return fmt.Errorf("create default settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.logger.Info("new user registered", zap.Int64("user_id", userID))
	return nil
}

// Deactivate stops digests for a user who blocked the bot.
func (s *UserService) Deactivate(ctx context.Context, userID int64) error {
	return s.repository.Deactivate(ctx, userID)
}
