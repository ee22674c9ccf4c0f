package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

func TestAttendCapacityAccounting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	event := env.createEvent(t, organizer.ID, 10)

	updated, err := env.attendance.Attend(ctx, event.ID, alice.ID, 7)
	if err != nil {
		t.Fatalf("attend 7 of 10: %v", err)
	}
	if updated.Attending != 7 || updated.Available() != 3 {
		t.Fatalf("after 7 of 10: attending=%d available=%d", updated.Attending, updated.Available())
	}

	_, err = env.attendance.Attend(ctx, event.ID, bob.ID, 5)
	var capErr *errorz.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("attend 5 with 3 left: want CapacityError, got %v", err)
	}
	if capErr.Available != 3 {
		t.Fatalf("rejection reported available=%d, want 3", capErr.Available)
	}

	// The failed attempt must not have reserved anything.
	stored, err := env.store.Events.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if stored.Attending != 7 {
		t.Fatalf("attending changed by rejected reservation: %d", stored.Attending)
	}

	updated, err = env.attendance.Attend(ctx, event.ID, carol.ID, 3)
	if err != nil {
		t.Fatalf("attend remaining 3: %v", err)
	}
	if updated.Attending != 10 || updated.Available() != 0 {
		t.Fatalf("after filling up: attending=%d available=%d", updated.Attending, updated.Available())
	}
}

func TestAttendPreconditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	attendee := env.createUser(t, "attendee")
	active := env.createEvent(t, organizer.ID, 5)

	cancelled := env.createEvent(t, organizer.ID, 5)
	if err := env.store.Events.UpdateStatus(ctx, cancelled.ID, entity.EventStatusCancelled); err != nil {
		t.Fatalf("cancel event: %v", err)
	}

	tests := []struct {
		name    string
		eventID string
		userID  string
		want    error
	}{
		{"unknown event", "999", attendee.ID, gorm.ErrRecordNotFound},
		{"cancelled event", cancelled.ID, attendee.ID, errorz.ErrEventNotActive},
		{"own event", active.ID, organizer.ID, errorz.ErrOwnEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.attendance.Attend(ctx, tt.eventID, tt.userID, 1)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAttendRepeatPurchaseAccumulates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	alice := env.createUser(t, "alice")
	event := env.createEvent(t, organizer.ID, 10)

	if _, err := env.attendance.Attend(ctx, event.ID, alice.ID, 2); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if _, err := env.attendance.Attend(ctx, event.ID, alice.ID, 3); err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	attendee, err := env.attendance.Get(ctx, event.ID, alice.ID)
	if err != nil {
		t.Fatalf("get attendee: %v", err)
	}
	if attendee.Quantity != 5 {
		t.Fatalf("quantity=%d, want 5 after two purchases", attendee.Quantity)
	}

	count, err := env.store.Attendees.CountByEventID(ctx, event.ID)
	if err != nil {
		t.Fatalf("count attendees: %v", err)
	}
	if count != 1 {
		t.Fatalf("attendee rows=%d, want a single row per (event, user)", count)
	}

	stored, _ := env.store.Events.Get(ctx, event.ID)
	if stored.Attending != 5 {
		t.Fatalf("attending=%d, want sum of quantities 5", stored.Attending)
	}
}

func TestAttendConcurrentNeverOversells(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	event := env.createEvent(t, organizer.ID, 5)

	users := make([]*entity.User, 20)
	for i := range users {
		users[i] = env.createUser(t, "user"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	results := make([]error, len(users))
	for i, user := range users {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, results[i] = env.attendance.Attend(ctx, event.ID, userID, 1)
		}(i, user.ID)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else if _, ok := errorz.AsCapacityError(err); !ok {
			t.Fatalf("unexpected error under contention: %v", err)
		}
	}
	if successes != 5 {
		t.Fatalf("successes=%d, want exactly the 5 places", successes)
	}

	stored, _ := env.store.Events.Get(ctx, event.ID)
	if stored.Attending != 5 {
		t.Fatalf("attending=%d, capacity=5 must never be exceeded", stored.Attending)
	}
}

func TestCancelAttendanceReleasesPlaces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	alice := env.createUser(t, "alice")
	event := env.createEvent(t, organizer.ID, 10)

	if _, err := env.attendance.Attend(ctx, event.ID, alice.ID, 4); err != nil {
		t.Fatalf("attend: %v", err)
	}

	updated, err := env.attendance.Cancel(ctx, event.ID, alice.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.Attending != 0 || updated.Available() != 10 {
		t.Fatalf("after cancel: attending=%d available=%d", updated.Attending, updated.Available())
	}

	if _, err := env.attendance.Get(ctx, event.ID, alice.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("attendee row should be gone, got %v", err)
	}

	// Cancelling twice is a not-found, not a double refund.
	if _, err := env.attendance.Cancel(ctx, event.ID, alice.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second cancel: got %v, want record not found", err)
	}
}
