// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/study-review-bot/internal/service"
	"github.com/aliskhannn/study-review-bot/internal/srs"
)

// Plain text replies.
const (
	msgInternalError    = "Something went wrong. Please try again later."
	msgUnknownCommand   = "Unknown command. Send /help to see what I can do."
	msgInvalidArgs      = "I could not read that. Send /help for the command format."
	msgEmptyTopic       = "A topic name is required for this command."
	msgInvalidTopicName = "Subject and topic names cannot contain \"::\"."
	msgSessionTooShort  = "Sessions shorter than %s are not logged."
	msgVacationActive   = "Vacation mode is on, reviews cannot be postponed."
	msgInvalidLimit     = "The limit must be a number from 0 to 100."
	msgInvalidTimezone  = "Unknown timezone. Use an IANA name like Europe/Berlin or an offset like UTC+3."
	msgTopicNotFound    = "This topic has no review schedule yet."
	msgPostponeConflict = "The topic changed in the meantime, please try again."
	msgVacationOn       = "Vacation mode is on. Your schedule is kept, postponing is paused."
	msgVacationOff      = "Vacation mode is off."
	msgDigestOn         = "Daily digest is on."
	msgDigestOff        = "Daily digest is off."
	msgLimitSet         = "/review will list at most %d topics."
	msgLimitRemoved     = "/review will list all due topics."
	msgTimezoneSet      = "Timezone set to %s."
	msgTimezoneCurrent  = "Your timezone is %s. Change it with /timezone <zone>."
	msgResetConfirm     = "Delete all review schedules and logged sessions? Settings are kept. This cannot be undone."
	msgResetDone        = "All review data was deleted."
	msgResetCancelled   = "Reset cancelled."
	msgTopicForgotten   = "%s: %s will no longer be scheduled for review."
)

const dateLayout = "Mon, 02 Jan"

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

func welcomeMarkdownV2() string {
	var b strings.Builder
	b.WriteString(bold("Welcome to your study review bot!"))
	b.WriteString("\n\n")
	b.WriteString(md("Log what you studied and how many questions you got right. " +
		"I keep a review schedule for every topic and remind you when it is time to revisit it."))
	b.WriteString("\n\n")
	b.WriteString(md("Start with /log, then check /review. Send /help for all commands."))
	return b.String()
}

func helpMarkdownV2() string {
	lines := []string{
		bold("Commands"),
		"",
		md("/log <subject> | <topic> | <minutes> | <correct> <incorrect> | pomodoro"),
		md("    log a session, the last two fields are optional"),
		md("/review  topics due today"),
		md("/upcoming  next topics to review"),
		md("/topic <subject> | <topic>  schedule of one topic"),
		md("/forget <subject> | <topic>  stop reviewing a topic"),
		md("/progress  review statistics"),
		md("/vacation  toggle vacation mode"),
		md("/limit <n>  topics per review session, 0 for all"),
		md("/timezone <zone>  timezone for calendar days"),
		md("/digest  toggle the daily digest"),
		md("/reset  delete all review data"),
	}
	return strings.Join(lines, "\n")
}

func formatSessionLogged(s *entities.StudySession, out *srs.Outcome) string {
	var b strings.Builder
	b.WriteString(md(fmt.Sprintf("✅ Logged %s of %s", formatDuration(s.Duration), s.Subject)))
	if s.Topic != "" {
		b.WriteString(md(" / " + s.Topic))
	}
	if s.HasQuestions() {
		b.WriteString(md(fmt.Sprintf(" (%d correct, %d incorrect)", s.Correct, s.Incorrect)))
	}

	if out == nil {
		return b.String()
	}

	b.WriteString("\n\n")
	b.WriteString(md(transitionNote(out.Transition)))
	b.WriteString("\n")
	b.WriteString(md(fmt.Sprintf("Next review in %s, %s.", pluralDays(out.IntervalDays), out.State.DueAt.Format(dateLayout))))
	return b.String()
}

func transitionNote(t srs.Transition) string {
	switch t {
	case srs.TransitionSpike:
		return "📉 That session was much weaker than usual. Recovery mode: short intervals until it sticks again."
	case srs.TransitionWorsening:
		return "🔁 Still shaky, the next review comes sooner."
	case srs.TransitionMarginal:
		return "🔁 Getting there, staying in recovery mode."
	case srs.TransitionRecovered:
		return "🎉 Recovered! Back to your previous interval."
	case srs.TransitionReset:
		return "🌱 Accuracy is low, the schedule starts over."
	default:
		return "📈 Review schedule updated."
	}
}

func formatDueList(list *service.DueList) string {
	if list.Total == 0 {
		return md("🎉 Nothing to review today.")
	}

	var b strings.Builder
	b.WriteString(bold(fmt.Sprintf("📚 Due for review: %d", list.Total)))
	if len(list.Topics) < list.Total {
		b.WriteString(md(fmt.Sprintf(" (showing %d)", len(list.Topics))))
	}
	b.WriteString("\n\n")

	for i, t := range list.Topics {
		b.WriteString(md(fmt.Sprintf("%d. %s", i+1, formatDueTopic(t))))
		b.WriteString("\n")
	}

	if list.VacationMode {
		b.WriteString("\n")
		b.WriteString(md("🏖 Vacation mode is on."))
	}
	return b.String()
}

func formatDueTopic(t entities.DueTopic) string {
	s := fmt.Sprintf("%s: %s", t.Subject, t.Topic)
	switch {
	case t.DaysOverdue == 0:
		s += ", due today"
	case t.DaysOverdue > 0:
		s += fmt.Sprintf(", %s overdue", pluralDays(t.DaysOverdue))
	}
	if a := t.State.Attempt(); a > 0 {
		s += fmt.Sprintf(" 🔁 recovery attempt %d", a)
	}
	return s
}

func formatUpcoming(topics []entities.DueTopic) string {
	if len(topics) == 0 {
		return md("No upcoming reviews. Log a session with a topic to start a schedule.")
	}

	var b strings.Builder
	b.WriteString(bold("🗓 Upcoming reviews"))
	b.WriteString("\n\n")
	for _, t := range topics {
		b.WriteString(md(fmt.Sprintf("• %s: %s, in %s (%s)",
			t.Subject, t.Topic, pluralDays(-t.DaysOverdue), t.State.DueAt.Format(dateLayout))))
		b.WriteString("\n")
	}
	return b.String()
}

func formatTopicState(s *entities.ReviewState, now time.Time, loc *time.Location) string {
	due := entities.NewDueTopic(s, now, loc)

	lines := []string{
		bold(fmt.Sprintf("%s: %s", due.Subject, due.Topic)),
		"",
		md(fmt.Sprintf("Reviews: %d", s.ReviewCount)),
		md(fmt.Sprintf("Accuracy: %.0f%% (%d/%d)", s.Accuracy()*100, s.CorrectTotal, s.CorrectTotal+s.IncorrectTotal)),
		md(fmt.Sprintf("Next review: %s", s.DueAt.In(loc).Format(dateLayout))),
	}
	if s.LastSessionAccuracy != nil {
		lines = append(lines, md(fmt.Sprintf("Last session: %.0f%%", *s.LastSessionAccuracy*100)))
	}
	if a := s.Attempt(); a > 0 {
		lines = append(lines, md(fmt.Sprintf("🔁 Recovery mode, attempt %d", a)))
		if s.PreviousInterval != nil {
			lines = append(lines, md(fmt.Sprintf("Interval before the drop: %s", pluralDays(*s.PreviousInterval))))
		}
	}
	return strings.Join(lines, "\n")
}

func formatProgress(summary *service.ReviewSummary, totals *repository.SessionTotals) string {
	lines := []string{
		bold("📊 Your progress"),
		"",
		md(fmt.Sprintf("Topics tracked: %d", summary.Tracked)),
		md(fmt.Sprintf("Due today: %d", summary.DueToday)),
		md(fmt.Sprintf("In recovery: %d", summary.InRecovery)),
		md(fmt.Sprintf("Overall accuracy: %.1f%%", summary.Accuracy)),
		"",
		bold("Last 7 days"),
		md(fmt.Sprintf("Sessions: %d, %s", totals.Sessions, formatDuration(totals.Duration))),
		md(fmt.Sprintf("Questions: %d correct, %d incorrect", totals.Correct, totals.Incorrect)),
	}
	return strings.Join(lines, "\n")
}

func formatDigest(d entities.Digest) string {
	var b strings.Builder
	b.WriteString(bold(fmt.Sprintf("⏰ %d topics to review today", d.TotalDue)))
	b.WriteString("\n\n")
	for _, t := range d.Topics {
		b.WriteString(md("• " + formatDueTopic(t)))
		b.WriteString("\n")
	}
	if rest := d.TotalDue - len(d.Topics); rest > 0 {
		b.WriteString(md(fmt.Sprintf("…and %d more", rest)))
		b.WriteString("\n")
	}
	if d.InRecovery > 0 {
		b.WriteString("\n")
		b.WriteString(md(fmt.Sprintf("🔁 %d in recovery mode", d.InRecovery)))
	}
	return b.String()
}

func formatPostponed(s *entities.ReviewState) string {
	return fmt.Sprintf("Postponed to %s", s.DueAt.Format(dateLayout))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h, m := int(d.Hours()), int(d.Minutes())%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	default:
		return fmt.Sprintf("%d h %d min", h, m)
	}
}

func formatSessionTooShort(minDuration time.Duration) string {
	if minDuration < time.Minute {
		return fmt.Sprintf(msgSessionTooShort, fmt.Sprintf("%d s", int(minDuration.Seconds())))
	}
	return fmt.Sprintf(msgSessionTooShort, formatDuration(minDuration))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
