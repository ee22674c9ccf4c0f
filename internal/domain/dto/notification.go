package dto

import (
	"time"

	"github.com/mainevents/server/internal/domain/entity"
)

type CreateNotification struct {
	UserID   string   `json:"userId" validate:"required,uuid"`
	EventID  string   `json:"eventId" validate:"omitempty,uuid"`
	Type     string   `json:"type" validate:"required"`
	Title    string   `json:"title" validate:"required,max=200"`
	Body     string   `json:"body" validate:"max=2000"`
	Priority string   `json:"priority" validate:"omitempty,oneof=low normal high"`
	Channels []string `json:"channels" validate:"required,min=1,dive,oneof=in_app email push sms"`
}

type CleanupNotifications struct {
	OlderThanDays int `json:"olderThanDays" validate:"required,min=1,max=365"`
}

type Notification struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	EventID    string     `json:"eventId,omitempty"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Body       string     `json:"body,omitempty"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	Channels   []string   `json:"channels"`
	CreatedAt  time.Time  `json:"createdAt"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

func NewNotificationFromEntity(n entity.Notification) Notification {
	return Notification{
		ID:         n.ID,
		UserID:     n.UserID,
		EventID:    n.EventID,
		Type:       string(n.Type),
		Title:      n.Title,
		Body:       n.Body,
		Priority:   string(n.Priority),
		Status:     string(n.Status),
		Channels:   n.Channels,
		CreatedAt:  n.CreatedAt,
		SentAt:     n.SentAt,
		ReadAt:     n.ReadAt,
		ArchivedAt: n.ArchivedAt,
	}
}
