package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/dto"
	"github.com/mainevents/server/internal/domain/entity"
)

func TestNotificationSurvivesSenderFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	env.emailSender.err = errors.New("smtp: connection refused")

	notification, err := env.notifications.Create(ctx, dto.CreateNotification{
		UserID:   alice.ID,
		Type:     string(entity.NotificationTypeTicketPurchase),
		Title:    "Tickets reserved",
		Channels: []string{entity.ChannelInApp, entity.ChannelEmail},
	})
	if err != nil {
		t.Fatalf("create must not surface delivery errors, got %v", err)
	}
	if got := env.emailSender.deliveries(); got != 1 {
		t.Fatalf("email delivery attempts=%d, want 1", got)
	}

	stored, err := env.notifications.Get(ctx, notification.ID)
	if err != nil {
		t.Fatalf("reload notification: %v", err)
	}
	if stored.Status != entity.NotificationStatusUnread {
		t.Fatalf("status=%s, want unread", stored.Status)
	}
	if stored.SentAt == nil {
		t.Fatal("SentAt must be stamped even when a channel fails")
	}
}

func TestNotificationSkipsUnconfiguredChannel(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	// No push sender is registered in the test env.
	_, err := env.notifications.Create(context.Background(), dto.CreateNotification{
		UserID:   alice.ID,
		Type:     string(entity.NotificationTypeEventCancelled),
		Title:    "Event cancelled",
		Channels: []string{entity.ChannelInApp, entity.ChannelPush},
	})
	if err != nil {
		t.Fatalf("missing sender must be skipped, got %v", err)
	}
}

func TestNotificationDefaultsPriority(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	notification, err := env.notifications.Create(context.Background(), dto.CreateNotification{
		UserID:   alice.ID,
		Type:     string(entity.NotificationTypeNewComment),
		Title:    "New comment",
		Channels: []string{entity.ChannelInApp},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notification.Priority != entity.NotificationPriorityNormal {
		t.Fatalf("priority=%s, want normal by default", notification.Priority)
	}
}

func TestNotificationStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	create := func() *entity.Notification {
		n, err := env.notifications.Create(ctx, dto.CreateNotification{
			UserID:   alice.ID,
			Type:     string(entity.NotificationTypeTicketPurchase),
			Title:    "Tickets reserved",
			Channels: []string{entity.ChannelInApp},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return n
	}

	t.Run("read sets ReadAt once", func(t *testing.T) {
		n := create()
		read, err := env.notifications.MarkRead(ctx, n.ID, alice.ID)
		if err != nil {
			t.Fatalf("mark read: %v", err)
		}
		if read.Status != entity.NotificationStatusRead || read.ReadAt == nil {
			t.Fatalf("status=%s readAt=%v", read.Status, read.ReadAt)
		}

		again, err := env.notifications.MarkRead(ctx, n.ID, alice.ID)
		if err != nil {
			t.Fatalf("repeated read must be a no-op: %v", err)
		}
		if !again.ReadAt.Equal(*read.ReadAt) {
			t.Fatal("ReadAt changed on repeated read")
		}
	})

	t.Run("archive from unread and from read", func(t *testing.T) {
		for _, markFirst := range []bool{false, true} {
			n := create()
			if markFirst {
				if _, err := env.notifications.MarkRead(ctx, n.ID, alice.ID); err != nil {
					t.Fatalf("mark read: %v", err)
				}
			}
			archived, err := env.notifications.Archive(ctx, n.ID, alice.ID)
			if err != nil {
				t.Fatalf("archive (markFirst=%v): %v", markFirst, err)
			}
			if archived.Status != entity.NotificationStatusArchived || archived.ArchivedAt == nil {
				t.Fatalf("status=%s archivedAt=%v", archived.Status, archived.ArchivedAt)
			}
		}
	})

	t.Run("archived cannot go back to read", func(t *testing.T) {
		n := create()
		if _, err := env.notifications.Archive(ctx, n.ID, alice.ID); err != nil {
			t.Fatalf("archive: %v", err)
		}
		if _, err := env.notifications.MarkRead(ctx, n.ID, alice.ID); !errors.Is(err, errorz.ErrBadTransition) {
			t.Fatalf("got %v, want ErrBadTransition", err)
		}
	})

	t.Run("only the owner may transition", func(t *testing.T) {
		n := create()
		if _, err := env.notifications.MarkRead(ctx, n.ID, bob.ID); !errors.Is(err, errorz.ErrForbidden) {
			t.Fatalf("read by stranger: got %v, want ErrForbidden", err)
		}
		if _, err := env.notifications.Archive(ctx, n.ID, bob.ID); !errors.Is(err, errorz.ErrForbidden) {
			t.Fatalf("archive by stranger: got %v, want ErrForbidden", err)
		}
	})
}

func TestNotificationCleanupOnlyOldArchived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")

	create := func() *entity.Notification {
		n, err := env.notifications.Create(ctx, dto.CreateNotification{
			UserID:   alice.ID,
			Type:     string(entity.NotificationTypeTicketRefund),
			Title:    "Refund",
			Channels: []string{entity.ChannelInApp},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return n
	}

	unread := create()

	freshArchived := create()
	if _, err := env.notifications.Archive(ctx, freshArchived.ID, alice.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	oldArchived := create()
	if _, err := env.notifications.Archive(ctx, oldArchived.ID, alice.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	stale, err := env.notifications.Get(ctx, oldArchived.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	past := time.Now().AddDate(0, 0, -60)
	stale.ArchivedAt = &past
	if _, err := env.store.Notifications.Update(ctx, stale); err != nil {
		t.Fatalf("backdate archived notification: %v", err)
	}

	deleted, err := env.notifications.CleanupArchived(ctx, 30)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted=%d, want only the backdated one", deleted)
	}

	for _, id := range []string{unread.ID, freshArchived.ID} {
		if _, err := env.notifications.Get(ctx, id); err != nil {
			t.Fatalf("notification %s should survive cleanup: %v", id, err)
		}
	}
}

func TestEventCancellationNotifiesAttendees(t *testing.T) {
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

	if _, err := env.events.Cancel(ctx, event.ID, organizer.ID); err != nil {
		t.Fatalf("cancel event: %v", err)
	}

	for _, userID := range []string{alice.ID, bob.ID} {
		notifications, err := env.notifications.GetByUserID(ctx, userID, 50, 0)
		if err != nil {
			t.Fatalf("list notifications: %v", err)
		}
		found := false
		for _, n := range notifications {
			if n.Type == entity.NotificationTypeEventCancelled && n.EventID == event.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("user %s missing cancellation notification", userID)
		}
	}
}
