package memory

import (
	"context"
	"sort"
	"time"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type EventStorage struct {
	store *Store
}

func (s *EventStorage) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if event.ID == "" {
		event.ID = s.store.nextID()
	}
	if event.Status == "" {
		event.Status = entity.EventStatusActive
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	copied := *event
	s.store.events = append(s.store.events, &copied)
	return event, nil
}

func (s *EventStorage) Get(_ context.Context, id string) (*entity.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.getLocked(id)
}

func (s *EventStorage) getLocked(id string) (*entity.Event, error) {
	for _, e := range s.store.events {
		if e.ID == id && !e.DeletedAt.Valid {
			copied := *e
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *EventStorage) GetAll(_ context.Context) ([]entity.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	events := make([]entity.Event, 0, len(s.store.events))
	for _, e := range s.store.events {
		if !e.DeletedAt.Valid {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (s *EventStorage) Update(_ context.Context, event *entity.Event) (*entity.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, e := range s.store.events {
		if e.ID == event.ID {
			event.UpdatedAt = time.Now()
			copied := *event
			s.store.events[i] = &copied
			return event, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *EventStorage) Delete(_ context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, e := range s.store.events {
		if e.ID == id {
			e.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
			return nil
		}
	}
	return nil
}

func (s *EventStorage) Count(_ context.Context) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var count int64
	for _, e := range s.store.events {
		if !e.DeletedAt.Valid {
			count++
		}
	}
	return count, nil
}

func (s *EventStorage) GetWithPagination(_ context.Context, limit, offset int, _ string) ([]entity.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	events := make([]entity.Event, 0, len(s.store.events))
	for _, e := range s.store.events {
		if !e.DeletedAt.Valid {
			events = append(events, *e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	if offset >= len(events) {
		return nil, nil
	}
	events = events[offset:]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

func (s *EventStorage) GetFeatured(_ context.Context, limit int) ([]entity.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var events []entity.Event
	for _, e := range s.store.events {
		if e.Featured && e.Status == entity.EventStatusActive && !e.DeletedAt.Valid {
			events = append(events, *e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

func (s *EventStorage) UpdateRating(_ context.Context, eventID string, average float64, count int) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, e := range s.store.events {
		if e.ID == eventID {
			e.RatingAverage = average
			e.RatingCount = count
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *EventStorage) UpdateStatus(_ context.Context, eventID string, status entity.EventStatus) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, e := range s.store.events {
		if e.ID == eventID {
			e.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type EventAttendeeStorage struct {
	store *Store
}

// Reserve books quantity places for a user under the store mutex, so the
// check-then-write cannot interleave with another reservation. Attending
// is recomputed from the rows, matching the postgres storage.
func (s *EventAttendeeStorage) Reserve(_ context.Context, eventID string, userID string, quantity int, ticketCode string) (*entity.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	event := s.findEvent(eventID)
	if event == nil {
		return nil, gorm.ErrRecordNotFound
	}

	reserved := s.sumQuantities(eventID)
	if reserved+quantity > event.Capacity {
		return nil, &errorz.CapacityError{Available: event.Capacity - reserved}
	}

	var attendee *entity.EventAttendee
	for _, a := range s.store.attendees {
		if a.EventID == eventID && a.UserID == userID {
			attendee = a
			break
		}
	}
	if attendee == nil {
		s.store.attendees = append(s.store.attendees, &entity.EventAttendee{
			ID:         s.store.nextNumericID(),
			EventID:    eventID,
			UserID:     userID,
			Quantity:   quantity,
			TicketCode: ticketCode,
			CreatedAt:  time.Now(),
		})
	} else {
		attendee.Quantity += quantity
	}

	event.Attending = s.sumQuantities(eventID)
	copied := *event
	return &copied, nil
}

func (s *EventAttendeeStorage) Release(_ context.Context, eventID string, userID string, quantity int) (*entity.Event, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	event := s.findEvent(eventID)
	if event == nil {
		return nil, gorm.ErrRecordNotFound
	}

	idx := -1
	for i, a := range s.store.attendees {
		if a.EventID == eventID && a.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errorz.ErrNotAttending
	}

	if quantity >= s.store.attendees[idx].Quantity {
		s.store.attendees = append(s.store.attendees[:idx], s.store.attendees[idx+1:]...)
	} else {
		s.store.attendees[idx].Quantity -= quantity
	}

	event.Attending = s.sumQuantities(eventID)
	copied := *event
	return &copied, nil
}

func (s *EventAttendeeStorage) Get(_ context.Context, eventID string, userID string) (*entity.EventAttendee, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, a := range s.store.attendees {
		if a.EventID == eventID && a.UserID == userID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *EventAttendeeStorage) GetByEventID(_ context.Context, eventID string) ([]entity.EventAttendee, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var attendees []entity.EventAttendee
	for _, a := range s.store.attendees {
		if a.EventID == eventID {
			attendees = append(attendees, *a)
		}
	}
	return attendees, nil
}

func (s *EventAttendeeStorage) CountByEventID(_ context.Context, eventID string) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var count int64
	for _, a := range s.store.attendees {
		if a.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (s *EventAttendeeStorage) GetUserEventIDs(_ context.Context, userID string) ([]string, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var ids []string
	for _, a := range s.store.attendees {
		if a.UserID == userID {
			ids = append(ids, a.EventID)
		}
	}
	return ids, nil
}

func (s *EventAttendeeStorage) findEvent(eventID string) *entity.Event {
	for _, e := range s.store.events {
		if e.ID == eventID && !e.DeletedAt.Valid {
			return e
		}
	}
	return nil
}

func (s *EventAttendeeStorage) sumQuantities(eventID string) int {
	total := 0
	for _, a := range s.store.attendees {
		if a.EventID == eventID {
			total += a.Quantity
		}
	}
	return total
}

type EventFavoriteStorage struct {
	store *Store
}

func (s *EventFavoriteStorage) Toggle(_ context.Context, eventID string, userID string) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, f := range s.store.favorites {
		if f.EventID == eventID && f.UserID == userID {
			s.store.favorites = append(s.store.favorites[:i], s.store.favorites[i+1:]...)
			return false, nil
		}
	}
	s.store.favorites = append(s.store.favorites, &entity.EventFavorite{
		ID:        s.store.nextNumericID(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	return true, nil
}

func (s *EventFavoriteStorage) Exists(_ context.Context, eventID string, userID string) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, f := range s.store.favorites {
		if f.EventID == eventID && f.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *EventFavoriteStorage) GetUserEventIDs(_ context.Context, userID string) ([]string, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var ids []string
	for _, f := range s.store.favorites {
		if f.UserID == userID {
			ids = append(ids, f.EventID)
		}
	}
	return ids, nil
}

type EventCommentStorage struct {
	store *Store
}

func (s *EventCommentStorage) Create(_ context.Context, comment *entity.EventComment) (*entity.EventComment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	comment.ID = s.store.nextNumericID()
	comment.CreatedAt = time.Now()
	copied := *comment
	s.store.comments = append(s.store.comments, &copied)
	return comment, nil
}

func (s *EventCommentStorage) GetByEventID(_ context.Context, eventID string, limit, offset int) ([]entity.EventComment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var comments []entity.EventComment
	for _, c := range s.store.comments {
		if c.EventID == eventID {
			comments = append(comments, *c)
		}
	}
	if offset >= len(comments) {
		return nil, nil
	}
	comments = comments[offset:]
	if limit > 0 && limit < len(comments) {
		comments = comments[:limit]
	}
	return comments, nil
}
