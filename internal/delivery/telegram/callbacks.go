package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)
	userID := cb.From.ID

	switch data.Action {
	case actionPostpone:
		h.handlePostponeCallback(ctx, cb, userID, data.Params)
	case actionReview:
		h.answerCallback(cb.ID, "")
		h.renderDueList(ctx, cb.Message.Chat.ID, cb.Message.MessageID, userID, parseDueSort(data.Params))
	case actionReset:
		h.answerCallback(cb.ID, "")
		h.handleResetCallback(ctx, cb, userID, data.Params)
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
	}
}

func (h *Handler) handlePostponeCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, userID int64, params []string) {
	id, ok := parsePostponeID(params)
	if !ok {
		h.logger.Warn("invalid postpone callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	state, err := h.reviewService.PostponeTopic(ctx, userID, id)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			h.answerCallback(cb.ID, msg)
			return
		}
		h.logger.Error("failed to postpone topic",
			zap.Int64("user_id", userID),
			zap.Int64("state_id", id),
			zap.Error(err),
		)
		h.answerCallback(cb.ID, msgInternalError)
		return
	}

	h.answerCallback(cb.ID, formatPostponed(state))
	h.renderDueList(ctx, cb.Message.Chat.ID, cb.Message.MessageID, userID, service.SortOverdue)
}

func (h *Handler) handleResetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, userID int64, params []string) {
	text := msgResetCancelled
	if len(params) == 1 && params[0] == resetConfirm {
		if err := h.resetService.ResetUser(ctx, userID); err != nil {
			h.logger.Error("failed to reset user", zap.Int64("user_id", userID), zap.Error(err))
			text = msgInternalError
		} else {
			text = msgResetDone
		}
	}

	_ = h.send(tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text))
}

// renderDueList edits messageID in place with the current due list.
func (h *Handler) renderDueList(ctx context.Context, chatID int64, messageID int, userID int64, order service.DueSort) {
	list, err := h.reviewService.DueTopics(ctx, userID, order)
	if err != nil {
		h.logger.Error("failed to list due topics",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, formatDueList(list))
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	if kb := buildDueKeyboard(list, order); kb != nil {
		edit.ReplyMarkup = kb
	}

	_ = h.send(edit)
}

// answerCallback removes the user's "clock", optionally showing a toast.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
