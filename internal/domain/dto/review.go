package dto

import (
	"time"

	"github.com/mainevents/server/internal/domain/entity"
)

type CreateReview struct {
	EventID            string `json:"eventId" validate:"required,uuid"`
	Rating             int    `json:"rating" validate:"required,min=1,max=5"`
	Text               string `json:"text" validate:"max=2000"`
	VenueRating        int    `json:"venueRating" validate:"min=0,max=5"`
	OrganizationRating int    `json:"organizationRating" validate:"min=0,max=5"`
	ContentRating      int    `json:"contentRating" validate:"min=0,max=5"`
}

type Review struct {
	ID                 string    `json:"id"`
	EventID            string    `json:"eventId"`
	UserID             string    `json:"userId"`
	Rating             int       `json:"rating"`
	Text               string    `json:"text,omitempty"`
	VenueRating        int       `json:"venueRating,omitempty"`
	OrganizationRating int       `json:"organizationRating,omitempty"`
	ContentRating      int       `json:"contentRating,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func NewReviewFromEntity(r entity.Review) Review {
	return Review{
		ID:                 r.ID,
		EventID:            r.EventID,
		UserID:             r.UserID,
		Rating:             r.Rating,
		Text:               r.Text,
		VenueRating:        r.VenueRating,
		OrganizationRating: r.OrganizationRating,
		ContentRating:      r.ContentRating,
		CreatedAt:          r.CreatedAt,
	}
}
