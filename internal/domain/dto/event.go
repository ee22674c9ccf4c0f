package dto

import (
	"time"

	"github.com/mainevents/server/internal/domain/entity"
)

type CreateEvent struct {
	Name        string    `json:"name" validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"max=2000"`
	Location    string    `json:"location" validate:"required,min=3,max=200"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	EndTime     time.Time `json:"endTime"`
	Capacity    int       `json:"capacity" validate:"required,min=1,max=10000"`
	Price       float64   `json:"price" validate:"min=0,max=10000"`
	Tags        []string  `json:"tags" validate:"max=10,dive,max=30"`
}

type UpdateEvent struct {
	Name        string    `json:"name" validate:"omitempty,min=3,max=100"`
	Description string    `json:"description" validate:"max=2000"`
	Location    string    `json:"location" validate:"omitempty,min=3,max=200"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Price       float64   `json:"price" validate:"min=0,max=10000"`
	Tags        []string  `json:"tags" validate:"max=10,dive,max=30"`
}

type Attend struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=50"`
}

type Favorite struct {
	EventID string `json:"eventId" validate:"required,uuid"`
}

type Comment struct {
	EventID string `json:"eventId" validate:"required,uuid"`
	Text    string `json:"text" validate:"required,min=1,max=500"`
}

type Event struct {
	ID            string    `json:"id"`
	OrganizerID   string    `json:"organizerId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime,omitempty"`
	Capacity      int       `json:"capacity"`
	Price         float64   `json:"price"`
	Status        string    `json:"status"`
	Featured      bool      `json:"featured"`
	Tags          []string  `json:"tags,omitempty"`
	Attending     int       `json:"attending"`
	Available     int       `json:"available"`
	RatingAverage float64   `json:"ratingAverage"`
	RatingCount   int       `json:"ratingCount"`
	IsFavorite    bool      `json:"isFavorite,omitempty"`
}

func NewEventFromEntity(event entity.Event, isFavorite bool) Event {
	return Event{
		ID:            event.ID,
		OrganizerID:   event.OrganizerID,
		Name:          event.Name,
		Description:   event.Description,
		Location:      event.Location,
		StartTime:     event.StartTime,
		EndTime:       event.EndTime,
		Capacity:      event.Capacity,
		Price:         event.Price,
		Status:        string(event.Status),
		Featured:      event.Featured,
		Tags:          event.Tags,
		Attending:     event.Attending,
		Available:     event.Available(),
		RatingAverage: event.RatingAverage,
		RatingCount:   event.RatingCount,
		IsFavorite:    isFavorite,
	}
}

// AttendResult reports the reservation outcome back to the buyer.
type AttendResult struct {
	EventID   string `json:"eventId"`
	Quantity  int    `json:"quantity"`
	Attending int    `json:"attending"`
	Available int    `json:"available"`
}

type FavoriteResult struct {
	EventID   string `json:"eventId"`
	Favorited bool   `json:"favorited"`
}

type CommentView struct {
	ID        uint      `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCommentFromEntity(c entity.EventComment) CommentView {
	return CommentView{
		ID:        c.ID,
		EventID:   c.EventID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
