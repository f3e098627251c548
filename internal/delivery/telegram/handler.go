package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
)

type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	userService     UserService
	reviewService   ReviewService
	sessionService  SessionService
	settingsService SettingsService
	resetService    ResetService
	now             func() time.Time
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	userService UserService,
	reviewService ReviewService,
	sessionService SessionService,
	settingsService SettingsService,
	resetService ResetService,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		userService:     userService,
		reviewService:   reviewService,
		sessionService:  sessionService,
		settingsService: settingsService,
		resetService:    resetService,
		now:             time.Now,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.MyChatMember != nil {
		h.handleChatMember(ctx, update.MyChatMember)
		return
	}

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if err := h.userService.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart()
	case "help":
		fn = h.handleHelp()
	case "log":
		fn = h.handleLog(userID, args)
	case "review":
		fn = h.handleReview(userID)
	case "upcoming":
		fn = h.handleUpcoming(userID)
	case "topic":
		fn = h.handleTopic(userID, args)
	case "forget":
		fn = h.handleForget(userID, args)
	case "progress":
		fn = h.handleProgress(userID)
	case "vacation":
		fn = h.handleVacation(userID)
	case "limit":
		fn = h.handleLimit(userID, args)
	case "timezone":
		fn = h.handleTimezone(userID, args)
	case "digest":
		fn = h.handleDigest(userID)
	case "reset":
		fn = h.handleReset()
	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// handleChatMember deactivates users who blocked the bot so digests stop.
func (h *Handler) handleChatMember(ctx context.Context, m *tgbotapi.ChatMemberUpdated) {
	if m.NewChatMember.Status != "kicked" {
		return
	}
	if err := h.userService.Deactivate(ctx, m.From.ID); err != nil {
		h.logger.Error("failed to deactivate user",
			zap.Int64("user_id", m.From.ID),
			zap.Error(err),
		)
		return
	}
	h.logger.Info("user blocked the bot", zap.Int64("user_id", m.From.ID))
}

// SendDigest implements service.ReminderNotifier.
func (h *Handler) SendDigest(chatID int64, digest entities.Digest) error {
	msg := newMessage(chatID, formatDigest(digest))
	msg.ReplyMarkup = buildDigestKeyboard()
	return h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		var tgErr *tgbotapi.Error
		if errors.As(err, &tgErr) {
			h.logger.Error("telegram api error",
				zap.Int("code", tgErr.Code),
				zap.String("description", tgErr.Message),
			)
		} else {
			h.logger.Error("failed to send telegram message", zap.Error(err))
		}
		return err
	}
	return nil
}
