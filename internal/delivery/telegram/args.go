package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
)

var errInvalidArgs = errors.New("invalid command arguments")

const argSeparator = "|"

// logArgs is the parsed form of
// /log <subject> | <topic> | <minutes> [| <correct> <incorrect>] [| pomodoro].
type logArgs struct {
	Subject   string
	Topic     string
	Duration  time.Duration
	Correct   int
	Incorrect int
	Kind      entities.SessionKind
}

func parseLogArgs(s string) (logArgs, error) {
	parts := splitArgs(s)
	if len(parts) < 3 || len(parts) > 5 {
		return logArgs{}, fmt.Errorf("%w: expected 3 to 5 fields, got %d", errInvalidArgs, len(parts))
	}

	args := logArgs{
		Subject: parts[0],
		Topic:   parts[1],
		Kind:    entities.SessionStopwatch,
	}
	if args.Subject == "" {
		return logArgs{}, fmt.Errorf("%w: empty subject", errInvalidArgs)
	}

	d, err := parseDuration(parts[2])
	if err != nil {
		return logArgs{}, err
	}
	args.Duration = d

	var hasKind, hasTallies bool
	for _, p := range parts[3:] {
		if strings.EqualFold(p, string(entities.SessionPomodoro)) {
			if hasKind {
				return logArgs{}, fmt.Errorf("%w: repeated session kind", errInvalidArgs)
			}
			hasKind = true
			args.Kind = entities.SessionPomodoro
			continue
		}
		if hasTallies {
			return logArgs{}, fmt.Errorf("%w: repeated tallies %q", errInvalidArgs, p)
		}
		hasTallies = true
		args.Correct, args.Incorrect, err = parseTallies(p)
		if err != nil {
			return logArgs{}, err
		}
	}

	return args, nil
}

// parseTopicArgs parses "<subject> | <topic>".
func parseTopicArgs(s string) (subject, topic string, err error) {
	parts := splitArgs(s)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected subject | topic", errInvalidArgs)
	}
	return parts[0], parts[1], nil
}

// parseDuration accepts plain minutes ("25") or a Go duration ("1h30m").
func parseDuration(s string) (time.Duration, error) {
	if m, err := strconv.Atoi(s); err == nil {
		if m < 0 {
			return 0, fmt.Errorf("%w: negative duration", errInvalidArgs)
		}
		return time.Duration(m) * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: duration %q", errInvalidArgs, s)
	}
	return d, nil
}

// parseTallies accepts "7 3" or "7/3".
func parseTallies(s string) (correct, incorrect int, err error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '/' })
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: tallies %q", errInvalidArgs, s)
	}
	correct, err1 := strconv.Atoi(fields[0])
	incorrect, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || correct < 0 || incorrect < 0 {
		return 0, 0, fmt.Errorf("%w: tallies %q", errInvalidArgs, s)
	}
	return correct, incorrect, nil
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, argSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
