package postgres

import (
	"context"

	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type EventFavoriteStorage struct {
	db *gorm.DB
}

func NewEventFavoriteStorage(db *gorm.DB) *EventFavoriteStorage {
	return &EventFavoriteStorage{
		db: db,
	}
}

// Toggle flips the membership of (event, user) in the favorites set and
// reports whether the event is favorited afterwards.
func (s *EventFavoriteStorage) Toggle(ctx context.Context, eventID string, userID string) (bool, error) {
	var favorited bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&entity.EventFavorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorited = false
			return nil
		}
		favorited = true
		return tx.Create(&entity.EventFavorite{EventID: eventID, UserID: userID}).Error
	})
	return favorited, err
}

func (s *EventFavoriteStorage) Exists(ctx context.Context, eventID string, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.EventFavorite{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).Count(&count).Error
	return count > 0, err
}

// GetUserEventIDs returns the ids of all events the user has favorited.
func (s *EventFavoriteStorage) GetUserEventIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&entity.EventFavorite{}).
		Where("user_id = ?", userID).Pluck("event_id", &ids).Error
	return ids, err
}
