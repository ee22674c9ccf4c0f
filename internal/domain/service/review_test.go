package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/dto"
)

func TestReviewRequiresAttendance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	stranger := env.createUser(t, "stranger")
	event := env.createEvent(t, organizer.ID, 10)

	_, err := env.reviews.Create(ctx, stranger.ID, dto.CreateReview{EventID: event.ID, Rating: 5})
	if !errors.Is(err, errorz.ErrNotAttending) {
		t.Fatalf("got %v, want ErrNotAttending", err)
	}
}

func TestReviewOncePerUserAndEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	alice := env.createUser(t, "alice")
	event := env.createEvent(t, organizer.ID, 10)

	if _, err := env.attendance.Attend(ctx, event.ID, alice.ID, 1); err != nil {
		t.Fatalf("attend: %v", err)
	}

	if _, err := env.reviews.Create(ctx, alice.ID, dto.CreateReview{EventID: event.ID, Rating: 4}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := env.reviews.Create(ctx, alice.ID, dto.CreateReview{EventID: event.ID, Rating: 2})
	if !errors.Is(err, errorz.ErrAlreadyReviewed) {
		t.Fatalf("second review: got %v, want ErrAlreadyReviewed", err)
	}

	reviews, err := env.reviews.GetByEventID(ctx, event.ID, 10, 0)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("reviews=%d, want 1", len(reviews))
	}
}

func TestReviewRefreshesRatingAggregate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	event := env.createEvent(t, organizer.ID, 10)

	for _, userID := range []string{alice.ID, bob.ID} {
		if _, err := env.attendance.Attend(ctx, event.ID, userID, 1); err != nil {
			t.Fatalf("attend: %v", err)
		}
	}

	if _, err := env.reviews.Create(ctx, alice.ID, dto.CreateReview{EventID: event.ID, Rating: 5}); err != nil {
		t.Fatalf("alice review: %v", err)
	}
	stored, _ := env.store.Events.Get(ctx, event.ID)
	if stored.RatingCount != 1 || stored.RatingAverage != 5 {
		t.Fatalf("after one review: count=%d average=%v", stored.RatingCount, stored.RatingAverage)
	}

	if _, err := env.reviews.Create(ctx, bob.ID, dto.CreateReview{EventID: event.ID, Rating: 2}); err != nil {
		t.Fatalf("bob review: %v", err)
	}
	stored, _ = env.store.Events.Get(ctx, event.ID)
	if stored.RatingCount != 2 || math.Abs(stored.RatingAverage-3.5) > 1e-9 {
		t.Fatalf("after two reviews: count=%d average=%v, want 2 and 3.5", stored.RatingCount, stored.RatingAverage)
	}
}

func TestReviewUnknownEvent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.reviews.Create(context.Background(), alice.ID, dto.CreateReview{EventID: "999", Rating: 3})
	if err == nil {
		t.Fatal("want error for unknown event")
	}
}
