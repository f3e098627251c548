package entities

import "time"

// DueTopic is a review state paired with its position relative to today.
type DueTopic struct {
	State       *ReviewState
	Subject     string
	Topic       string
	DaysOverdue int // negative for topics due in the future
}

// NewDueTopic computes calendar-day distance between the due date and now in loc.
func NewDueTopic(state *ReviewState, now time.Time, loc *time.Location) DueTopic {
	subject, topic := ParseTopicKey(state.TopicKey)
	return DueTopic{
		State:       state,
		Subject:     subject,
		Topic:       topic,
		DaysOverdue: DaysBetween(state.DueAt.In(loc), now.In(loc)),
	}
}

// IsDue reports whether the topic is due today or earlier.
func (d DueTopic) IsDue() bool {
	return d.DaysOverdue >= 0
}

// DaysBetween returns the number of calendar days from a's date to b's date.
// Both dates are read in their own locations.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
