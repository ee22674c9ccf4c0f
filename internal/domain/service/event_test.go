package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/dto"
	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

func TestToggleFavorite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	alice := env.createUser(t, "alice")
	event := env.createEvent(t, organizer.ID, 10)

	on, err := env.events.ToggleFavorite(ctx, event.ID, alice.ID)
	if err != nil || !on {
		t.Fatalf("first toggle: on=%v err=%v", on, err)
	}
	if fav, _ := env.events.IsFavorite(ctx, event.ID, alice.ID); !fav {
		t.Fatal("favorite not recorded")
	}

	// Toggling twice restores the original state; favorites are a set,
	// so repeated marks cannot pile up.
	off, err := env.events.ToggleFavorite(ctx, event.ID, alice.ID)
	if err != nil || off {
		t.Fatalf("second toggle: on=%v err=%v", off, err)
	}
	if fav, _ := env.events.IsFavorite(ctx, event.ID, alice.ID); fav {
		t.Fatal("favorite not removed")
	}

	if _, err := env.events.ToggleFavorite(ctx, "999", alice.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("unknown event: got %v", err)
	}
}

func TestCommentNotifiesOrganizer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	alice := env.createUser(t, "alice")
	event := env.createEvent(t, organizer.ID, 10)

	longText := strings.Repeat("x", 150)
	if _, err := env.events.Comment(ctx, event.ID, alice.ID, longText); err != nil {
		t.Fatalf("comment: %v", err)
	}

	notifications, err := env.notifications.GetByUserID(ctx, organizer.ID, 50, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("organizer notifications=%d, want 1", len(notifications))
	}
	if notifications[0].Type != entity.NotificationTypeNewComment {
		t.Fatalf("type=%s, want new_comment", notifications[0].Type)
	}
	if len([]rune(notifications[0].Body)) > 101 {
		t.Fatalf("notification body not truncated: %d runes", len([]rune(notifications[0].Body)))
	}

	// The organizer commenting on their own event must not self-notify.
	if _, err := env.events.Comment(ctx, event.ID, organizer.ID, "thanks all"); err != nil {
		t.Fatalf("organizer comment: %v", err)
	}
	notifications, _ = env.notifications.GetByUserID(ctx, organizer.ID, 50, 0)
	if len(notifications) != 1 {
		t.Fatalf("organizer notifications=%d after own comment, want still 1", len(notifications))
	}

	comments, err := env.events.GetComments(ctx, event.ID, 50, 0)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("comments=%d, want 2", len(comments))
	}
}

func TestEventOwnershipChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	organizer := env.createUser(t, "organizer")
	stranger := env.createUser(t, "stranger")
	event := env.createEvent(t, organizer.ID, 10)

	if _, err := env.events.Update(ctx, event.ID, stranger.ID, dto.UpdateEvent{Name: "hijacked"}); !errors.Is(err, errorz.ErrForbidden) {
		t.Fatalf("update by stranger: got %v, want ErrForbidden", err)
	}
	if err := env.events.Delete(ctx, event.ID, stranger.ID); !errors.Is(err, errorz.ErrForbidden) {
		t.Fatalf("delete by stranger: got %v, want ErrForbidden", err)
	}
	if _, err := env.events.Cancel(ctx, event.ID, stranger.ID); !errors.Is(err, errorz.ErrForbidden) {
		t.Fatalf("cancel by stranger: got %v, want ErrForbidden", err)
	}

	if _, err := env.events.Cancel(ctx, event.ID, organizer.ID); err != nil {
		t.Fatalf("cancel by organizer: %v", err)
	}
	if _, err := env.events.Cancel(ctx, event.ID, organizer.ID); !errors.Is(err, errorz.ErrEventNotActive) {
		t.Fatalf("second cancel: got %v, want ErrEventNotActive", err)
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Register(ctx, dto.Register{
		Email:    "dana@example.com",
		Password: "correct horse battery",
		Name:     "Dana",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Fatal("password stored in plain text")
	}

	if _, err := env.users.Register(ctx, dto.Register{
		Email:    "dana@example.com",
		Password: "other",
		Name:     "Imposter",
	}); !errors.Is(err, errorz.ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	if _, err := env.users.Authenticate(ctx, "dana@example.com", "correct horse battery"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := env.users.Authenticate(ctx, "dana@example.com", "wrong"); !errors.Is(err, errorz.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := env.users.Authenticate(ctx, "nobody@example.com", "whatever"); !errors.Is(err, errorz.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}
