package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezoneLocation(t *testing.T) {
	tests := []struct {
		in     string
		offset int
	}{
		{"", 0},
		{"utc", 0},
		{"GMT", 0},
		{"UTC+3", 3 * 3600},
		{"UTC-7", -7 * 3600},
		{"UTC+5:30", 5*3600 + 30*60},
		{"+3", 3 * 3600},
		{"-03:30", -(3*3600 + 30*60)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := ParseTimezoneLocation(tt.in)
			require.NoError(t, err)
			_, offset := t0.In(loc).Zone()
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestParseTimezoneLocationIANA(t *testing.T) {
	loc, err := ParseTimezoneLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	_, offset := time.Date(2025, 7, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 2*3600, offset)
}

func TestParseTimezoneLocationRejects(t *testing.T) {
	for _, in := range []string{"UTC+15", "+3:60", "Mars/Olympus", "UTC3", "Local", "local"} {
		_, err := ParseTimezoneLocation(in)
		assert.ErrorIs(t, err, ErrUnsupportedTimezone, in)
	}
}
