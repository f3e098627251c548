package entities

import (
	"time"
)

// UserSettings stores user-specific review preferences.
type UserSettings struct {
	UserID             int64
	VacationMode       bool   // pauses postponing and digests
	ReviewSessionLimit int    // max topics shown in the due list, 0 = unlimited
	Timezone           string // IANA name or UTC offset, defines calendar days
	DigestEnabled      bool   // daily digest of due topics
	LastDigestAt       *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUserSettings creates a new UserSettings instance with default values.
func NewUserSettings(userID int64) *UserSettings {
	now := time.Now()
	return &UserSettings{
		UserID:        userID,
		Timezone:      "UTC",
		DigestEnabled: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Location resolves the user's timezone, falling back to UTC.
func (us *UserSettings) Location() *time.Location {
	loc, err := ParseTimezoneLocation(us.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DigestSentOn reports whether a digest was already sent on the calendar day of now.
func (us *UserSettings) DigestSentOn(now time.Time) bool {
	if us.LastDigestAt == nil {
		return false
	}
	loc := us.Location()
	return SameDay(us.LastDigestAt.In(loc), now.In(loc))
}
