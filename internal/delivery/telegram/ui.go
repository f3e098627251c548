package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/study-review-bot/internal/service"
)

// buildDueKeyboard builds one postpone button per listed topic and a sort toggle.
// Postpone buttons are omitted in vacation mode.
func buildDueKeyboard(list *service.DueList, order service.DueSort) *tgbotapi.InlineKeyboardMarkup {
	if len(list.Topics) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if !list.VacationMode {
		for i, t := range list.Topics {
			label := fmt.Sprintf("⏭ %d. %s +1 day", i+1, t.Topic)
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, buildPostponeCallback(t.State.ID)),
			))
		}
	}

	toggle := tgbotapi.NewInlineKeyboardButtonData("🔤 By subject", buildReviewCallback(service.SortSubject))
	if order == service.SortSubject {
		toggle = tgbotapi.NewInlineKeyboardButtonData("⏳ Most overdue", buildReviewCallback(service.SortOverdue))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(toggle))

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete everything", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}

// buildDigestKeyboard builds keyboard for the daily digest.
func buildDigestKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Open review list", buildReviewCallback(service.SortOverdue)),
		),
	)
}
