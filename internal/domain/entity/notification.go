package entity

import (
	"time"

	"github.com/lib/pq"
)

type NotificationType string

const (
	NotificationTypeEventCreated   NotificationType = "event_created"
	NotificationTypeEventCancelled NotificationType = "event_cancelled"
	NotificationTypeTicketPurchase NotificationType = "ticket_purchase"
	NotificationTypeTicketRefund   NotificationType = "ticket_refund"
	NotificationTypeNewAttendee    NotificationType = "new_attendee"
	NotificationTypeNewComment     NotificationType = "new_comment"
	NotificationTypeSystem         NotificationType = "system"
)

type NotificationStatus string

const (
	NotificationStatusUnread   NotificationStatus = "unread"
	NotificationStatusRead     NotificationStatus = "read"
	NotificationStatusArchived NotificationStatus = "archived"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Delivery channel names as stored in Notification.Channels.
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelPush  = "push"
	ChannelSMS   = "sms"
)

// Notification belongs to exactly one user. The persisted row is the
// in-app channel and the source of truth; the other channels are
// best-effort deliveries recorded in Channels.
//
// ReadAt is set iff the notification has ever been read, ArchivedAt iff
// it has been archived.
type Notification struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    string           `gorm:"not null;type:uuid;index"`
	EventID   string           `gorm:"type:uuid"`
	Type      NotificationType `gorm:"not null"`
	Title     string           `gorm:"not null"`
	Body      string
	Priority  NotificationPriority `gorm:"not null;default:normal"`
	Status    NotificationStatus   `gorm:"not null;default:unread"`
	Channels  pq.StringArray       `gorm:"type:text[]"`
	SentAt     *time.Time
	ReadAt     *time.Time
	ArchivedAt *time.Time
}
