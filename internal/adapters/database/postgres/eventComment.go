package postgres

import (
	"context"

	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type EventCommentStorage struct {
	db *gorm.DB
}

func NewEventCommentStorage(db *gorm.DB) *EventCommentStorage {
	return &EventCommentStorage{
		db: db,
	}
}

func (s *EventCommentStorage) Create(ctx context.Context, comment *entity.EventComment) (*entity.EventComment, error) {
	err := s.db.WithContext(ctx).Create(&comment).Error
	return comment, err
}

func (s *EventCommentStorage) GetByEventID(ctx context.Context, eventID string, limit, offset int) ([]entity.EventComment, error) {
	var comments []entity.EventComment
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, err
}
