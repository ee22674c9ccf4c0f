package postgres

import (
	"context"
	"errors"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventAttendeeStorage struct {
	db *gorm.DB
}

func NewEventAttendeeStorage(db *gorm.DB) *EventAttendeeStorage {
	return &EventAttendeeStorage{
		db: db,
	}
}

// Reserve books quantity places on an event for a user. The whole
// read-modify-write runs in one transaction holding a row lock on the
// event, so concurrent reservations against the same event serialize and
// the capacity guard cannot be raced past.
//
// The cached Attending counter is recomputed as the sum over attendee
// rows inside the same transaction, not incremented.
func (s *EventAttendeeStorage) Reserve(ctx context.Context, eventID string, userID string, quantity int, ticketCode string) (*entity.Event, error) {
	var event entity.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", eventID).First(&event).Error; err != nil {
			return err
		}

		reserved, err := sumQuantities(tx, eventID)
		if err != nil {
			return err
		}
		if reserved+quantity > event.Capacity {
			return &errorz.CapacityError{Available: event.Capacity - reserved}
		}

		var attendee entity.EventAttendee
		err = tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&attendee).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			attendee = entity.EventAttendee{
				EventID:    eventID,
				UserID:     userID,
				Quantity:   quantity,
				TicketCode: ticketCode,
			}
			if err = tx.Create(&attendee).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			attendee.Quantity += quantity
			if err = tx.Save(&attendee).Error; err != nil {
				return err
			}
		}

		return syncAttending(tx, &event)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Release gives back quantity places previously reserved by the user. A
// release of the full held quantity (or more) removes the attendee row.
func (s *EventAttendeeStorage) Release(ctx context.Context, eventID string, userID string, quantity int) (*entity.Event, error) {
	var event entity.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", eventID).First(&event).Error; err != nil {
			return err
		}

		var attendee entity.EventAttendee
		if err := tx.Where("event_id = ? AND user_id = ?", eventID, userID).First(&attendee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorz.ErrNotAttending
			}
			return err
		}

		if quantity >= attendee.Quantity {
			if err := tx.Delete(&attendee).Error; err != nil {
				return err
			}
		} else {
			attendee.Quantity -= quantity
			if err := tx.Save(&attendee).Error; err != nil {
				return err
			}
		}

		return syncAttending(tx, &event)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventAttendeeStorage) Get(ctx context.Context, eventID string, userID string) (*entity.EventAttendee, error) {
	var attendee entity.EventAttendee
	err := s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&attendee).Error
	return &attendee, err
}

func (s *EventAttendeeStorage) GetByEventID(ctx context.Context, eventID string) ([]entity.EventAttendee, error) {
	var attendees []entity.EventAttendee
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&attendees).Error
	return attendees, err
}

func (s *EventAttendeeStorage) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.EventAttendee{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// GetUserEventIDs returns the ids of all events the user holds tickets for.
func (s *EventAttendeeStorage) GetUserEventIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&entity.EventAttendee{}).
		Where("user_id = ?", userID).Pluck("event_id", &ids).Error
	return ids, err
}

func sumQuantities(tx *gorm.DB, eventID string) (int, error) {
	var total int64
	err := tx.Model(&entity.EventAttendee{}).Where("event_id = ?", eventID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error
	return int(total), err
}

// syncAttending recomputes the event's cached total from the attendee rows
// and persists it. Callers must hold the event row lock.
func syncAttending(tx *gorm.DB, event *entity.Event) error {
	total, err := sumQuantities(tx, event.ID)
	if err != nil {
		return err
	}
	event.Attending = total
	return tx.Model(&entity.Event{}).Where("id = ?", event.ID).Update("attending", total).Error
}
