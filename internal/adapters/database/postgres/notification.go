package postgres

import (
	"context"
	"time"

	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type NotificationStorage struct {
	db *gorm.DB
}

func NewNotificationStorage(db *gorm.DB) *NotificationStorage {
	return &NotificationStorage{
		db: db,
	}
}

func (s *NotificationStorage) Create(ctx context.Context, notification *entity.Notification) (*entity.Notification, error) {
	err := s.db.WithContext(ctx).Create(&notification).Error
	return notification, err
}

func (s *NotificationStorage) Get(ctx context.Context, id string) (*entity.Notification, error) {
	var notification entity.Notification
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	return &notification, err
}

func (s *NotificationStorage) Update(ctx context.Context, notification *entity.Notification) (*entity.Notification, error) {
	err := s.db.WithContext(ctx).Save(&notification).Error
	return notification, err
}

// GetByUserID returns the user's notifications, newest first.
func (s *NotificationStorage) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (s *NotificationStorage) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND status = ?", userID, entity.NotificationStatusUnread).
		Count(&count).Error
	return count, err
}

// DeleteArchivedBefore removes archived notifications older than the cutoff
// and returns how many rows were deleted.
func (s *NotificationStorage) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("status = ? AND archived_at < ?", entity.NotificationStatusArchived, cutoff).
		Delete(&entity.Notification{})
	return res.RowsAffected, res.Error
}
