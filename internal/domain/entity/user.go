package entity

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Role         Role   `gorm:"not null;default:user"`
	Banned       bool
	// TelegramChatID links the account to a Telegram chat for push delivery.
	// Zero means the user never linked a chat and push is skipped.
	TelegramChatID int64
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
