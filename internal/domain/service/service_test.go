package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mainevents/server/internal/adapters/database/memory"
	"github.com/mainevents/server/internal/domain/entity"
	"github.com/mainevents/server/pkg/logger/types"
	"go.uber.org/zap"
)

func testLogger() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// stubSender records deliveries and optionally fails every send.
type stubSender struct {
	mu   sync.Mutex
	name string
	err  error
	sent []string
}

func (s *stubSender) Name() string {
	return s.name
}

func (s *stubSender) Send(_ context.Context, user entity.User, _ entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, user.ID)
	return s.err
}

func (s *stubSender) deliveries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type testEnv struct {
	store         *memory.Storages
	users         *UserService
	events        *EventService
	attendance    *AttendanceService
	reviews       *ReviewService
	notifications *NotificationService
	emailSender   *stubSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStorages()
	log := testLogger()

	emailSender := &stubSender{name: entity.ChannelEmail}
	notifications := NewNotificationService(log, store.Notifications, store.Users, emailSender)
	events := NewEventService(log, store.Events, store.Comments, store.Favorites, nil, notifications)
	attendance := NewAttendanceService(log, store.Attendees, store.Events, store.Users, notifications)
	reviews := NewReviewService(log, store.Reviews, store.Events, store.Attendees)

	return &testEnv{
		store:         store,
		users:         NewUserService(store.Users),
		events:        events,
		attendance:    attendance,
		reviews:       reviews,
		notifications: notifications,
		emailSender:   emailSender,
	}
}

func (e *testEnv) createUser(t *testing.T, name string) *entity.User {
	t.Helper()
	user, err := e.store.Users.Create(context.Background(), &entity.User{
		Email: fmt.Sprintf("%s@example.com", name),
		Name:  name,
		Role:  entity.RoleUser,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func (e *testEnv) createEvent(t *testing.T, organizerID string, capacity int) *entity.Event {
	t.Helper()
	event, err := e.store.Events.Create(context.Background(), &entity.Event{
		OrganizerID: organizerID,
		Name:        "Test Event",
		Location:    "Main Hall",
		StartTime:   time.Now().Add(48 * time.Hour),
		Capacity:    capacity,
		Status:      entity.EventStatusActive,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}
