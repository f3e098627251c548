package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type ResetRepository interface {
	ResetUser(ctx context.Context, userID int64) error
}

// ResetService erases a user's review schedules and session log.
// Settings are kept.
type ResetService struct {
	repository ResetRepository
	transactor Transactor
	logger     *zap.Logger
}

func NewResetService(repository ResetRepository, transactor Transactor, logger *zap.Logger) *ResetService {
	return &ResetService{
		repository: repository,
		transactor: transactor,
		logger:     logger,
	}
}

func (s *ResetService) ResetUser(ctx context.Context, userID int64) error {
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		return s.repository.ResetUser(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("reset user: %w", err)
	}

	s.logger.Info("user data reset", zap.Int64("user_id", userID))
	return nil
}
