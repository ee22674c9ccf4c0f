package entity

import (
	"time"

	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Review is unique per (user, event); the composite index enforces this
// even under concurrent submits, the service pre-check only exists for a
// friendlier error. Creation additionally requires the user to hold an
// attendee record for the event.
type Review struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
	EventID   string `gorm:"not null;type:uuid;uniqueIndex:idx_review_user_event"`
	UserID    string `gorm:"not null;type:uuid;uniqueIndex:idx_review_user_event"`
	Rating    int    `gorm:"not null"`
	Text      string
	Status    ReviewStatus `gorm:"not null;default:approved"`

	// Optional sub-category ratings, zero means not given.
	VenueRating        int
	OrganizationRating int
	ContentRating      int
}
