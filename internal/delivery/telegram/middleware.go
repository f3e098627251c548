package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/study-review-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// userErrors maps errors the user can act on to replies.
var userErrors = []struct {
	err error
	msg string
}{
	{entities.ErrEmptyTopic, msgEmptyTopic},
	{entities.ErrInvalidTopicName, msgInvalidTopicName},
	{service.ErrVacationMode, msgVacationActive},
	{service.ErrInvalidLimit, msgInvalidLimit},
	{service.ErrInvalidTimezone, msgInvalidTimezone},
	{repository.ErrReviewStateNotFound, msgTopicNotFound},
	{repository.ErrReviewStateConflict, msgPostponeConflict},
	{errInvalidArgs, msgInvalidArgs},
}

// userMessage returns the reply for an error the user can act on.
func userMessage(err error) (string, bool) {
	for _, ue := range userErrors {
		if errors.Is(err, ue.err) {
			return ue.msg, true
		}
	}
	return "", false
}

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if msg, ok := userMessage(err); ok {
			h.logger.Debug("user error", zap.Int64("chat_id", chatID), zap.Error(err))
			_ = h.send(newPlainMessage(chatID, msg))
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		_ = h.send(newPlainMessage(chatID, msgInternalError))
		return nil
	}
}
