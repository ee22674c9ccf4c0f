package memory

import (
	"context"
	"sort"
	"time"

	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type NotificationStorage struct {
	store *Store
}

func (s *NotificationStorage) Create(_ context.Context, notification *entity.Notification) (*entity.Notification, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if notification.ID == "" {
		notification.ID = s.store.nextID()
	}
	if notification.Status == "" {
		notification.Status = entity.NotificationStatusUnread
	}
	if notification.Priority == "" {
		notification.Priority = entity.NotificationPriorityNormal
	}
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = notification.CreatedAt
	copied := *notification
	s.store.notifications = append(s.store.notifications, &copied)
	return notification, nil
}

func (s *NotificationStorage) Get(_ context.Context, id string) (*entity.Notification, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, n := range s.store.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *NotificationStorage) Update(_ context.Context, notification *entity.Notification) (*entity.Notification, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, n := range s.store.notifications {
		if n.ID == notification.ID {
			notification.UpdatedAt = time.Now()
			copied := *notification
			s.store.notifications[i] = &copied
			return notification, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *NotificationStorage) GetByUserID(_ context.Context, userID string, limit, offset int) ([]entity.Notification, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var notifications []entity.Notification
	for _, n := range s.store.notifications {
		if n.UserID == userID {
			notifications = append(notifications, *n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	if offset >= len(notifications) {
		return nil, nil
	}
	notifications = notifications[offset:]
	if limit > 0 && limit < len(notifications) {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (s *NotificationStorage) CountUnread(_ context.Context, userID string) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var count int64
	for _, n := range s.store.notifications {
		if n.UserID == userID && n.Status == entity.NotificationStatusUnread {
			count++
		}
	}
	return count, nil
}

func (s *NotificationStorage) DeleteArchivedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var kept []*entity.Notification
	var deleted int64
	for _, n := range s.store.notifications {
		if n.Status == entity.NotificationStatusArchived && n.ArchivedAt != nil && n.ArchivedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	s.store.notifications = kept
	return deleted, nil
}
