package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusFinished  EventStatus = "finished"
)

type Event struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	OrganizerID string `gorm:"not null;type:uuid;index"`
	Organizer   User   `gorm:"foreignKey:OrganizerID"`
	Name        string `gorm:"not null"`
	Description string
	Location    string      `gorm:"not null"`
	StartTime   time.Time   `gorm:"not null"`
	EndTime     time.Time
	Capacity    int         `gorm:"not null"`
	Price       float64
	Status      EventStatus `gorm:"not null;default:active"`
	Featured    bool
	Tags        pq.StringArray `gorm:"type:text[]"`

	// Attending caches the sum of attendee quantities. It is recomputed
	// from the attendee rows inside the same transaction as every
	// mutation, never incremented blindly, so it cannot drift.
	Attending int `gorm:"not null;default:0"`

	// Cached review aggregate, overwritten on every review save.
	RatingAverage float64
	RatingCount   int
}

// Available returns the remaining capacity of the event.
func (e *Event) Available() int {
	return e.Capacity - e.Attending
}

// IsOver reports whether the event has already started.
func (e *Event) IsOver() bool {
	return e.StartTime.Before(time.Now())
}

// EventAttendee is one reservation: a (event, user) pair with the total
// quantity the user holds. Repeat purchases increment Quantity in place.
type EventAttendee struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   string `gorm:"not null;type:uuid;uniqueIndex:idx_event_attendee"`
	UserID    string `gorm:"not null;type:uuid;uniqueIndex:idx_event_attendee"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// TicketCode is embedded in the attendee's QR ticket.
	TicketCode string `gorm:"not null"`
}

// EventFavorite gives favorites real set semantics: membership is one row
// keyed by (event, user), toggled by insert or delete.
type EventFavorite struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   string `gorm:"not null;type:uuid;uniqueIndex:idx_event_favorite"`
	UserID    string `gorm:"not null;type:uuid;uniqueIndex:idx_event_favorite"`
	CreatedAt time.Time
}

// EventComment is append-only; there is no edit or delete path.
type EventComment struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   string `gorm:"not null;type:uuid;index"`
	UserID    string `gorm:"not null;type:uuid"`
	Text      string `gorm:"not null"`
	CreatedAt time.Time
}
