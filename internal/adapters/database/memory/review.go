package memory

import (
	"context"
	"time"

	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type ReviewStorage struct {
	store *Store
}

func (s *ReviewStorage) Create(_ context.Context, review *entity.Review) (*entity.Review, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, r := range s.store.reviews {
		if r.EventID == review.EventID && r.UserID == review.UserID && !r.DeletedAt.Valid {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if review.ID == "" {
		review.ID = s.store.nextID()
	}
	if review.Status == "" {
		review.Status = entity.ReviewStatusApproved
	}
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	copied := *review
	s.store.reviews = append(s.store.reviews, &copied)
	return review, nil
}

func (s *ReviewStorage) Get(_ context.Context, eventID string, userID string) (*entity.Review, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, r := range s.store.reviews {
		if r.EventID == eventID && r.UserID == userID && !r.DeletedAt.Valid {
			copied := *r
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *ReviewStorage) GetByEventID(_ context.Context, eventID string, limit, offset int) ([]entity.Review, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var reviews []entity.Review
	for _, r := range s.store.reviews {
		if r.EventID == eventID && r.Status == entity.ReviewStatusApproved && !r.DeletedAt.Valid {
			reviews = append(reviews, *r)
		}
	}
	if offset >= len(reviews) {
		return nil, nil
	}
	reviews = reviews[offset:]
	if limit > 0 && limit < len(reviews) {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (s *ReviewStorage) AggregateApproved(_ context.Context, eventID string) (float64, int, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var sum, count int
	for _, r := range s.store.reviews {
		if r.EventID == eventID && r.Status == entity.ReviewStatusApproved && !r.DeletedAt.Valid {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
