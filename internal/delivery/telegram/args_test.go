package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/study-review-bot/internal/domain/entities"
)

func TestParseLogArgs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want logArgs
	}{
		{
			name: "minutes only",
			in:   "Math | Functions | 25",
			want: logArgs{Subject: "Math", Topic: "Functions", Duration: 25 * time.Minute, Kind: entities.SessionStopwatch},
		},
		{
			name: "tallies",
			in:   " Math|Functions|45| 7 3 ",
			want: logArgs{Subject: "Math", Topic: "Functions", Duration: 45 * time.Minute, Correct: 7, Incorrect: 3, Kind: entities.SessionStopwatch},
		},
		{
			name: "slash tallies and pomodoro",
			in:   "Physics | Optics | 1h30m | 9/1 | Pomodoro",
			want: logArgs{Subject: "Physics", Topic: "Optics", Duration: 90 * time.Minute, Correct: 9, Incorrect: 1, Kind: entities.SessionPomodoro},
		},
		{
			name: "no topic",
			in:   "History |  | 30",
			want: logArgs{Subject: "History", Duration: 30 * time.Minute, Kind: entities.SessionStopwatch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogArgs(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLogArgsInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"Math | Functions",
		" | Functions | 25",
		"Math | Functions | soon",
		"Math | Functions | -5",
		"Math | Functions | 25 | 7",
		"Math | Functions | 25 | -1 3",
		"Math | Functions | 25 | 7 3 | pomodoro | extra",
		"Math | Functions | 30 | 7 3 | 1 9",
		"Math | Functions | 30 | pomodoro | pomodoro",
	} {
		_, err := parseLogArgs(in)
		assert.ErrorIs(t, err, errInvalidArgs, in)
	}
}

func TestParseTopicArgs(t *testing.T) {
	subject, topic, err := parseTopicArgs(" Math | Functions ")
	require.NoError(t, err)
	assert.Equal(t, "Math", subject)
	assert.Equal(t, "Functions", topic)

	_, _, err = parseTopicArgs("Math")
	assert.ErrorIs(t, err, errInvalidArgs)
}
