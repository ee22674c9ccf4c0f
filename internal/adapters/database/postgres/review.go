package postgres

import (
	"context"

	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type ReviewStorage struct {
	db *gorm.DB
}

func NewReviewStorage(db *gorm.DB) *ReviewStorage {
	return &ReviewStorage{
		db: db,
	}
}

func (s *ReviewStorage) Create(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	err := s.db.WithContext(ctx).Create(&review).Error
	return review, err
}

func (s *ReviewStorage) Get(ctx context.Context, eventID string, userID string) (*entity.Review, error) {
	var review entity.Review
	err := s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&review).Error
	return &review, err
}

func (s *ReviewStorage) GetByEventID(ctx context.Context, eventID string, limit, offset int) ([]entity.Review, error) {
	var reviews []entity.Review
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, entity.ReviewStatusApproved).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	return reviews, err
}

// AggregateApproved computes the average rating and count over all
// approved reviews of an event.
func (s *ReviewStorage) AggregateApproved(ctx context.Context, eventID string) (float64, int, error) {
	var result struct {
		Average float64
		Count   int64
	}
	err := s.db.WithContext(ctx).Model(&entity.Review{}).
		Where("event_id = ? AND status = ?", eventID, entity.ReviewStatusApproved).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&result).Error
	return result.Average, int(result.Count), err
}
