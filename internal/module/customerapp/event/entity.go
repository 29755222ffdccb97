package event

import "time"

const (
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

// Event is immutable during checkout; this module only reads it.
type Event struct {
	ID        string
	Title     string
	Venue     string
	City      string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
