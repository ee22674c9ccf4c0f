package service

import (
	"context"
	"time"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/dto"
	"github.com/mainevents/server/internal/domain/entity"
	"github.com/mainevents/server/pkg/logger/types"
)

const featuredCacheTTL = 5 * time.Minute

type EventStorage interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Get(ctx context.Context, id string) (*entity.Event, error)
	GetAll(ctx context.Context) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.Event, error)
	GetFeatured(ctx context.Context, limit int) ([]entity.Event, error)
	UpdateStatus(ctx context.Context, eventID string, status entity.EventStatus) error
	UpdateRating(ctx context.Context, eventID string, average float64, count int) error
}

type EventCommentStorage interface {
	Create(ctx context.Context, comment *entity.EventComment) (*entity.EventComment, error)
	GetByEventID(ctx context.Context, eventID string, limit, offset int) ([]entity.EventComment, error)
}

type EventFavoriteStorage interface {
	Toggle(ctx context.Context, eventID string, userID string) (bool, error)
	Exists(ctx context.Context, eventID string, userID string) (bool, error)
	GetUserEventIDs(ctx context.Context, userID string) ([]string, error)
}

type eventCache interface {
	GetFeatured(ctx context.Context) ([]entity.Event, bool)
	SetFeatured(ctx context.Context, events []entity.Event, expiration time.Duration)
	ClearFeatured(ctx context.Context)
}

type eventNotifier interface {
	NotifyEventCancelled(ctx context.Context, event entity.Event)
	NotifyNewComment(ctx context.Context, event entity.Event, text string)
}

type EventService struct {
	logger *types.Logger

	eventStorage    EventStorage
	commentStorage  EventCommentStorage
	favoriteStorage EventFavoriteStorage
	cache           eventCache
	notifier        eventNotifier
}

func NewEventService(
	logger *types.Logger,
	eventStorage EventStorage,
	commentStorage EventCommentStorage,
	favoriteStorage EventFavoriteStorage,
	cache eventCache,
	notifier eventNotifier,
) *EventService {
	return &EventService{
		logger:          logger,
		eventStorage:    eventStorage,
		commentStorage:  commentStorage,
		favoriteStorage: favoriteStorage,
		cache:           cache,
		notifier:        notifier,
	}
}

func (s *EventService) Create(ctx context.Context, organizerID string, data dto.CreateEvent) (*entity.Event, error) {
	return s.eventStorage.Create(ctx, &entity.Event{
		OrganizerID: organizerID,
		Name:        data.Name,
		Description: data.Description,
		Location:    data.Location,
		StartTime:   data.StartTime,
		EndTime:     data.EndTime,
		Capacity:    data.Capacity,
		Price:       data.Price,
		Tags:        data.Tags,
		Status:      entity.EventStatusActive,
	})
}

func (s *EventService) Get(ctx context.Context, id string) (*entity.Event, error) {
	return s.eventStorage.Get(ctx, id)
}

func (s *EventService) GetAll(ctx context.Context) ([]entity.Event, error) {
	return s.eventStorage.GetAll(ctx)
}

func (s *EventService) GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.Event, error) {
	return s.eventStorage.GetWithPagination(ctx, limit, offset, order)
}

func (s *EventService) Count(ctx context.Context) (int64, error) {
	return s.eventStorage.Count(ctx)
}

// GetFeatured serves featured events from the cache when possible.
func (s *EventService) GetFeatured(ctx context.Context, limit int) ([]entity.Event, error) {
	if s.cache != nil {
		if events, ok := s.cache.GetFeatured(ctx); ok {
			return events, nil
		}
	}

	events, err := s.eventStorage.GetFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetFeatured(ctx, events, featuredCacheTTL)
	}
	return events, nil
}

// Update lets the owning organizer change event details. Capacity and
// status are deliberately not updatable here.
func (s *EventService) Update(ctx context.Context, eventID string, userID string, data dto.UpdateEvent) (*entity.Event, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID {
		return nil, errorz.ErrForbidden
	}

	if data.Name != "" {
		event.Name = data.Name
	}
	if data.Description != "" {
		event.Description = data.Description
	}
	if data.Location != "" {
		event.Location = data.Location
	}
	if !data.StartTime.IsZero() {
		event.StartTime = data.StartTime
	}
	if !data.EndTime.IsZero() {
		event.EndTime = data.EndTime
	}
	if data.Price != 0 {
		event.Price = data.Price
	}
	if data.Tags != nil {
		event.Tags = data.Tags
	}

	updated, err := s.eventStorage.Update(ctx, event)
	if err != nil {
		return nil, err
	}
	s.invalidateFeatured(ctx, updated)
	return updated, nil
}

// Delete removes an event; only the owning organizer may do it.
func (s *EventService) Delete(ctx context.Context, eventID string, userID string) error {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != userID {
		return errorz.ErrForbidden
	}
	if err := s.eventStorage.Delete(ctx, eventID); err != nil {
		return err
	}
	s.invalidateFeatured(ctx, event)
	return nil
}

// Cancel marks the event cancelled and notifies every attendee.
func (s *EventService) Cancel(ctx context.Context, eventID string, userID string) (*entity.Event, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID {
		return nil, errorz.ErrForbidden
	}
	if event.Status != entity.EventStatusActive {
		return nil, errorz.ErrEventNotActive
	}

	if err := s.eventStorage.UpdateStatus(ctx, eventID, entity.EventStatusCancelled); err != nil {
		return nil, err
	}
	event.Status = entity.EventStatusCancelled
	s.invalidateFeatured(ctx, event)
	s.notifier.NotifyEventCancelled(ctx, *event)
	return event, nil
}

// ToggleFavorite flips the user's favorite mark on the event. Toggling
// twice in a row returns to the original state.
func (s *EventService) ToggleFavorite(ctx context.Context, eventID string, userID string) (bool, error) {
	if _, err := s.eventStorage.Get(ctx, eventID); err != nil {
		return false, err
	}
	return s.favoriteStorage.Toggle(ctx, eventID, userID)
}

func (s *EventService) IsFavorite(ctx context.Context, eventID string, userID string) (bool, error) {
	return s.favoriteStorage.Exists(ctx, eventID, userID)
}

// Comment appends to the event's comment list and pings the organizer.
func (s *EventService) Comment(ctx context.Context, eventID string, userID string, text string) (*entity.EventComment, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentStorage.Create(ctx, &entity.EventComment{
		EventID: eventID,
		UserID:  userID,
		Text:    text,
	})
	if err != nil {
		return nil, err
	}

	if userID != event.OrganizerID {
		s.notifier.NotifyNewComment(ctx, *event, text)
	}
	return comment, nil
}

func (s *EventService) GetComments(ctx context.Context, eventID string, limit, offset int) ([]entity.EventComment, error) {
	return s.commentStorage.GetByEventID(ctx, eventID, limit, offset)
}

func (s *EventService) invalidateFeatured(ctx context.Context, event *entity.Event) {
	if s.cache != nil && event.Featured {
		s.cache.ClearFeatured(ctx)
	}
}
