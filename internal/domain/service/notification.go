package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/dto"
	"github.com/mainevents/server/internal/domain/entity"
	"github.com/mainevents/server/pkg/logger/types"
)

type NotificationStorage interface {
	Create(ctx context.Context, notification *entity.Notification) (*entity.Notification, error)
	Get(ctx context.Context, id string) (*entity.Notification, error)
	Update(ctx context.Context, notification *entity.Notification) (*entity.Notification, error)
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationUserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
	GetAttendeesByEventID(ctx context.Context, eventID string) ([]entity.User, error)
}

type NotificationService struct {
	logger *types.Logger

	storage     NotificationStorage
	userStorage notificationUserStorage
	senders     map[string]ChannelSender
}

func NewNotificationService(
	logger *types.Logger,
	storage NotificationStorage,
	userStorage notificationUserStorage,
	senders ...ChannelSender,
) *NotificationService {
	byName := make(map[string]ChannelSender, len(senders))
	for _, sender := range senders {
		byName[sender.Name()] = sender
	}
	return &NotificationService{
		logger:      logger,
		storage:     storage,
		userStorage: userStorage,
		senders:     byName,
	}
}

// Create persists the notification and then fans it out over the
// requested channels. The row is written first so the in-app channel is
// guaranteed even if every other delivery fails; sender errors are logged
// and swallowed, never surfaced to the caller. SentAt is stamped once all
// channels have been attempted, success or not.
func (s *NotificationService) Create(ctx context.Context, data dto.CreateNotification) (*entity.Notification, error) {
	priority := entity.NotificationPriority(data.Priority)
	if priority == "" {
		priority = entity.NotificationPriorityNormal
	}

	notification, err := s.storage.Create(ctx, &entity.Notification{
		UserID:   data.UserID,
		EventID:  data.EventID,
		Type:     entity.NotificationType(data.Type),
		Title:    data.Title,
		Body:     data.Body,
		Priority: priority,
		Status:   entity.NotificationStatusUnread,
		Channels: data.Channels,
	})
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, notification)

	now := time.Now()
	notification.SentAt = &now
	if notification, err = s.storage.Update(ctx, notification); err != nil {
		s.logger.Errorf("failed to stamp sent_at on notification %s: %v", notification.ID, err)
	}
	return notification, nil
}

func (s *NotificationService) deliver(ctx context.Context, notification *entity.Notification) {
	needsUser := false
	for _, channel := range notification.Channels {
		if channel != entity.ChannelInApp {
			needsUser = true
		}
	}
	if !needsUser {
		return
	}

	user, err := s.userStorage.Get(ctx, notification.UserID)
	if err != nil {
		s.logger.Errorf("failed to load user %s for notification %s: %v", notification.UserID, notification.ID, err)
		return
	}

	for _, channel := range notification.Channels {
		if channel == entity.ChannelInApp {
			// Already covered by the persisted row.
			continue
		}
		sender, ok := s.senders[channel]
		if !ok {
			s.logger.Warnf("no sender configured for channel %s, skipping", channel)
			continue
		}
		if err := sender.Send(ctx, *user, *notification); err != nil {
			s.logger.Errorf("failed to deliver notification %s over %s: %v", notification.ID, channel, err)
		}
	}
}

func (s *NotificationService) Get(ctx context.Context, id string) (*entity.Notification, error) {
	return s.storage.Get(ctx, id)
}

func (s *NotificationService) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error) {
	return s.storage.GetByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.storage.CountUnread(ctx, userID)
}

// MarkRead transitions unread -> read. Reading an already read
// notification is a no-op; reading an archived one is rejected.
func (s *NotificationService) MarkRead(ctx context.Context, id string, userID string) (*entity.Notification, error) {
	notification, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.UserID != userID {
		return nil, errorz.ErrForbidden
	}
	switch notification.Status {
	case entity.NotificationStatusRead:
		return notification, nil
	case entity.NotificationStatusArchived:
		return nil, errorz.ErrBadTransition
	}

	now := time.Now()
	notification.Status = entity.NotificationStatusRead
	notification.ReadAt = &now
	return s.storage.Update(ctx, notification)
}

// Archive transitions unread or read -> archived, terminally.
func (s *NotificationService) Archive(ctx context.Context, id string, userID string) (*entity.Notification, error) {
	notification, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.UserID != userID {
		return nil, errorz.ErrForbidden
	}
	if notification.Status == entity.NotificationStatusArchived {
		return notification, nil
	}

	now := time.Now()
	notification.Status = entity.NotificationStatusArchived
	notification.ArchivedAt = &now
	return s.storage.Update(ctx, notification)
}

// CleanupArchived deletes archived notifications older than the given
// number of days and returns how many were removed.
func (s *NotificationService) CleanupArchived(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	return s.storage.DeleteArchivedBefore(ctx, cutoff)
}

// StartCleanupScheduler periodically sweeps old archived notifications.
func (s *NotificationService) StartCleanupScheduler(interval time.Duration, olderThanDays int) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if olderThanDays <= 0 {
		olderThanDays = 30
	}
	s.logger.Info("Starting notification cleanup scheduler")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			deleted, err := s.CleanupArchived(context.Background(), olderThanDays)
			if err != nil {
				s.logger.Errorf("notification cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				s.logger.Infof("notification cleanup removed %d archived notifications", deleted)
			}
		}
	}()
}

// The helpers below are the domain-event entry points used by the other
// services. They are fire-and-forget: failures are logged, never returned.

func (s *NotificationService) NotifyTicketPurchase(ctx context.Context, event entity.Event, userID string, quantity int) {
	s.fireAndForget(ctx, dto.CreateNotification{
		UserID:   userID,
		EventID:  event.ID,
		Type:     string(entity.NotificationTypeTicketPurchase),
		Title:    fmt.Sprintf("Tickets for %s", event.Name),
		Body:     fmt.Sprintf("You reserved %d ticket(s) for %s.", quantity, event.Name),
		Priority: string(entity.NotificationPriorityNormal),
		Channels: []string{entity.ChannelInApp, entity.ChannelEmail},
	})
}

func (s *NotificationService) NotifyNewAttendee(ctx context.Context, event entity.Event, quantity int) {
	s.fireAndForget(ctx, dto.CreateNotification{
		UserID:   event.OrganizerID,
		EventID:  event.ID,
		Type:     string(entity.NotificationTypeNewAttendee),
		Title:    fmt.Sprintf("New attendee for %s", event.Name),
		Body:     fmt.Sprintf("%d ticket(s) were just reserved. %d place(s) left.", quantity, event.Available()),
		Priority: string(entity.NotificationPriorityLow),
		Channels: []string{entity.ChannelInApp},
	})
}

func (s *NotificationService) NotifyTicketRefund(ctx context.Context, event entity.Event, userID string, quantity int) {
	s.fireAndForget(ctx, dto.CreateNotification{
		UserID:   userID,
		EventID:  event.ID,
		Type:     string(entity.NotificationTypeTicketRefund),
		Title:    fmt.Sprintf("Refund for %s", event.Name),
		Body:     fmt.Sprintf("Your reservation of %d ticket(s) for %s was cancelled.", quantity, event.Name),
		Priority: string(entity.NotificationPriorityNormal),
		Channels: []string{entity.ChannelInApp, entity.ChannelEmail},
	})
}

func (s *NotificationService) NotifyNewComment(ctx context.Context, event entity.Event, text string) {
	body := text
	if len(body) > 100 {
		body = body[:100] + "…"
	}
	s.fireAndForget(ctx, dto.CreateNotification{
		UserID:   event.OrganizerID,
		EventID:  event.ID,
		Type:     string(entity.NotificationTypeNewComment),
		Title:    fmt.Sprintf("New comment on %s", event.Name),
		Body:     body,
		Priority: string(entity.NotificationPriorityLow),
		Channels: []string{entity.ChannelInApp},
	})
}

// NotifyEventCancelled fans one cancellation out to every attendee of the
// event, one notification document per user.
func (s *NotificationService) NotifyEventCancelled(ctx context.Context, event entity.Event) {
	attendees, err := s.userStorage.GetAttendeesByEventID(ctx, event.ID)
	if err != nil {
		s.logger.Errorf("failed to load attendees of event %s for cancellation notice: %v", event.ID, err)
		return
	}
	for _, attendee := range attendees {
		s.fireAndForget(ctx, dto.CreateNotification{
			UserID:   attendee.ID,
			EventID:  event.ID,
			Type:     string(entity.NotificationTypeEventCancelled),
			Title:    fmt.Sprintf("%s was cancelled", event.Name),
			Body:     "The organizer cancelled the event. Your tickets will be refunded.",
			Priority: string(entity.NotificationPriorityHigh),
			Channels: []string{entity.ChannelInApp, entity.ChannelEmail, entity.ChannelPush},
		})
	}
}

func (s *NotificationService) fireAndForget(ctx context.Context, data dto.CreateNotification) {
	if _, err := s.Create(ctx, data); err != nil {
		s.logger.Errorf("failed to create %s notification for user %s: %v", data.Type, data.UserID, err)
	}
}
