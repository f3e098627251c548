package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/service"
)

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, welcomeMarkdownV2()))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpMarkdownV2()))
	}
}

// handleLog records a finished study session.
func (h *Handler) handleLog(userID int64, argStr string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		args, err := parseLogArgs(argStr)
		if err != nil {
			return err
		}

		session := entities.NewStudySession(userID, args.Subject, args.Topic, args.Kind, args.Duration, h.now())
		session.Correct = args.Correct
		session.Incorrect = args.Incorrect

		out, err := h.sessionService.CompleteSession(ctx, session)
		if errors.Is(err, service.ErrSessionTooShort) {
			return h.send(newPlainMessage(chatID, formatSessionTooShort(h.sessionService.MinDuration())))
		}
		if err != nil {
			return err
		}

		return h.send(newMessage(chatID, formatSessionLogged(session, out)))
	}
}

// handleReview shows the topics due today.
func (h *Handler) handleReview(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		list, err := h.reviewService.DueTopics(ctx, userID, service.SortOverdue)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatDueList(list))
		if kb := buildDueKeyboard(list, service.SortOverdue); kb != nil {
			msg.ReplyMarkup = *kb
		}
		return h.send(msg)
	}
}

func (h *Handler) handleUpcoming(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		topics, err := h.reviewService.UpcomingTopics(ctx, userID, 0)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, formatUpcoming(topics)))
	}
}

// handleTopic shows the review state of one topic.
func (h *Handler) handleTopic(userID int64, argStr string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		subject, topic, err := parseTopicArgs(argStr)
		if err != nil {
			return err
		}

		settings, err := h.settingsService.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		state, err := h.reviewService.TopicState(ctx, userID, subject, topic)
		if err != nil {
			return err
		}

		return h.send(newMessage(chatID, formatTopicState(state, h.now(), settings.Location())))
	}
}

func (h *Handler) handleForget(userID int64, argStr string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		subject, topic, err := parseTopicArgs(argStr)
		if err != nil {
			return err
		}

		if err := h.reviewService.ForgetTopic(ctx, userID, subject, topic); err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, fmt.Sprintf(msgTopicForgotten, subject, topic)))
	}
}

func (h *Handler) handleProgress(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering progress", zap.Int64("user_id", userID))

		summary, err := h.reviewService.Summary(ctx, userID)
		if err != nil {
			return err
		}
		totals, err := h.sessionService.WeeklyTotals(ctx, userID)
		if err != nil {
			return err
		}

		return h.send(newMessage(chatID, formatProgress(summary, totals)))
	}
}

func (h *Handler) handleVacation(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		on, err := h.settingsService.ToggleVacationMode(ctx, userID)
		if err != nil {
			return err
		}

		text := msgVacationOff
		if on {
			text = msgVacationOn
		}
		return h.send(newPlainMessage(chatID, text))
	}
}

func (h *Handler) handleDigest(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		on, err := h.settingsService.ToggleDigest(ctx, userID)
		if err != nil {
			return err
		}

		text := msgDigestOff
		if on {
			text = msgDigestOn
		}
		return h.send(newPlainMessage(chatID, text))
	}
}

// handleLimit sets how many topics /review lists; 0 removes the limit.
func (h *Handler) handleLimit(userID int64, argStr string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		limit, err := strconv.Atoi(strings.TrimSpace(argStr))
		if err != nil {
			return fmt.Errorf("%w: limit %q", errInvalidArgs, argStr)
		}

		if err := h.settingsService.SetReviewSessionLimit(ctx, userID, limit); err != nil {
			return err
		}

		text := msgLimitRemoved
		if limit > 0 {
			text = fmt.Sprintf(msgLimitSet, limit)
		}
		return h.send(newPlainMessage(chatID, text))
	}
}

// handleReset asks for confirmation before wiping the user's data.
func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleTimezone(userID int64, argStr string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		tz := strings.TrimSpace(argStr)
		if tz == "" {
			settings, err := h.settingsService.GetOrCreate(ctx, userID)
			if err != nil {
				return err
			}
			return h.send(newPlainMessage(chatID, fmt.Sprintf(msgTimezoneCurrent, settings.Timezone)))
		}

		if err := h.settingsService.SetTimezone(ctx, userID, tz); err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, fmt.Sprintf(msgTimezoneSet, tz)))
	}
}
