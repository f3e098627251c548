package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrUnsupportedTimezone = errors.New("unsupported timezone")

// ParseTimezoneLocation resolves a user-supplied timezone. Accepted forms are
// IANA names ("Europe/Moscow"), "UTC"/"GMT" and fixed offsets ("UTC+3",
// "UTC-7", "UTC+5:30", "+3", "-03:30"). Fixed offsets ignore DST.
func ParseTimezoneLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "GMT", "ETC/UTC":
		return time.UTC, nil
	case "LOCAL":
		// LoadLocation maps "Local" to the server zone.
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTimezone, tz)
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset, ok := parseOffset(tz)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTimezone, tz)
	}
	return time.FixedZone(offsetName(offset), offset), nil
}

// parseOffset returns the offset in seconds east of UTC.
func parseOffset(tz string) (int, bool) {
	s := tz
	if len(s) >= 3 && strings.EqualFold(s[:3], "UTC") {
		s = strings.TrimSpace(s[3:])
		if s == "" {
			return 0, true
		}
	}
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}

	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, hasMinutes := strings.Cut(s[1:], ":")
	if !hasMinutes {
		mm = "0"
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}

// offsetName formats an offset as "UTC+03:00".
func offsetName(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, (offset%3600)/60)
}
