package service

import (
	"context"
	"errors"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/dto"
	"github.com/mainevents/server/internal/domain/entity"
	"github.com/mainevents/server/pkg/logger/types"
	"gorm.io/gorm"
)

type ReviewStorage interface {
	Create(ctx context.Context, review *entity.Review) (*entity.Review, error)
	Get(ctx context.Context, eventID string, userID string) (*entity.Review, error)
	GetByEventID(ctx context.Context, eventID string, limit, offset int) ([]entity.Review, error)
	AggregateApproved(ctx context.Context, eventID string) (float64, int, error)
}

type reviewEventStorage interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
	UpdateRating(ctx context.Context, eventID string, average float64, count int) error
}

type reviewAttendeeStorage interface {
	Get(ctx context.Context, eventID string, userID string) (*entity.EventAttendee, error)
}

type ReviewService struct {
	logger *types.Logger

	storage         ReviewStorage
	eventStorage    reviewEventStorage
	attendeeStorage reviewAttendeeStorage
}

func NewReviewService(
	logger *types.Logger,
	storage ReviewStorage,
	eventStorage reviewEventStorage,
	attendeeStorage reviewAttendeeStorage,
) *ReviewService {
	return &ReviewService{
		logger:          logger,
		storage:         storage,
		eventStorage:    eventStorage,
		attendeeStorage: attendeeStorage,
	}
}

// Create stores a review and refreshes the event's cached rating
// aggregate. The caller must hold an attendee record for the event, and
// only one review per (user, event) is allowed.
func (s *ReviewService) Create(ctx context.Context, userID string, data dto.CreateReview) (*entity.Review, error) {
	event, err := s.eventStorage.Get(ctx, data.EventID)
	if err != nil {
		return nil, err
	}

	if _, err = s.attendeeStorage.Get(ctx, data.EventID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorz.ErrNotAttending
		}
		return nil, err
	}

	if _, err = s.storage.Get(ctx, data.EventID, userID); err == nil {
		return nil, errorz.ErrAlreadyReviewed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review, err := s.storage.Create(ctx, &entity.Review{
		EventID:            data.EventID,
		UserID:             userID,
		Rating:             data.Rating,
		Text:               data.Text,
		Status:             entity.ReviewStatusApproved,
		VenueRating:        data.VenueRating,
		OrganizationRating: data.OrganizationRating,
		ContentRating:      data.ContentRating,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorz.ErrAlreadyReviewed
		}
		return nil, err
	}

	s.recomputeRating(ctx, event.ID)
	return review, nil
}

func (s *ReviewService) GetByEventID(ctx context.Context, eventID string, limit, offset int) ([]entity.Review, error) {
	return s.storage.GetByEventID(ctx, eventID, limit, offset)
}

// recomputeRating overwrites the event's cached average and count from a
// fresh aggregation over approved reviews. A failure here leaves a stale
// cache, not a broken review, so it is only logged.
func (s *ReviewService) recomputeRating(ctx context.Context, eventID string) {
	average, count, err := s.storage.AggregateApproved(ctx, eventID)
	if err != nil {
		s.logger.Errorf("failed to aggregate reviews for event %s: %v", eventID, err)
		return
	}
	if err := s.eventStorage.UpdateRating(ctx, eventID, average, count); err != nil {
		s.logger.Errorf("failed to update cached rating for event %s: %v", eventID, err)
	}
}
