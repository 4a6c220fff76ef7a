package database

import (
	"time"

	"github.com/zapponejosh/lifecal/internal/calendar"
)

// User is an account holder. The grid is drawn from DOB.
type User struct {
	ID           int64         `db:"id" json:"id"`
	Username     string        `db:"username" json:"username"`
	Email        string        `db:"email" json:"email"`
	FirstName    string        `db:"first_name" json:"first_name"`
	DOB          calendar.Date `db:"dob" json:"dob"`
	PasswordHash string        `db:"password_hash" json:"-"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// Session ties a random cookie token to a user until it expires.
type Session struct {
	Token     string    `db:"token" json:"-"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LifeEvent is a dated milestone a user pins to their grid.
type LifeEvent struct {
	ID        int64         `db:"id" json:"id"`
	UserID    int64         `db:"user_id" json:"user_id"`
	Title     string        `db:"title" json:"title"`
	Date      calendar.Date `db:"event_date" json:"date"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// CalendarEvent converts a stored event into the form the grid places.
func (e LifeEvent) CalendarEvent() calendar.Event {
	return calendar.Event{Title: e.Title, Date: e.Date}
}

// CalendarEvents converts a slice of stored events.
func CalendarEvents(events []LifeEvent) []calendar.Event {
	out := make([]calendar.Event, 0, len(events))
	for _, e := range events {
		out = append(out, e.CalendarEvent())
	}
	return out
}

// EventDates returns the dates of events, in order.
func EventDates(events []LifeEvent) []calendar.Date {
	out := make([]calendar.Date, 0, len(events))
	for _, e := range events {
		out = append(out, e.Date)
	}
	return out
}
