// Package memory is an array-backed fallback store for environments
// without Postgres. It mirrors the postgres storages' method sets, uses
// linear scans for queries and hands out monotonically increasing string
// ids. A single mutex serializes all access, which also gives the
// capacity accounting the same no-lost-update guarantee the postgres
// store gets from row locks.
package memory

import (
	"strconv"
	"sync"

	"github.com/mainevents/server/internal/domain/entity"
)

type Store struct {
	mu sync.Mutex

	lastID        int64
	lastNumericID uint

	users         []*entity.User
	events        []*entity.Event
	attendees     []*entity.EventAttendee
	favorites     []*entity.EventFavorite
	comments      []*entity.EventComment
	reviews       []*entity.Review
	notifications []*entity.Notification
}

func New() *Store {
	return &Store{}
}

// nextID must be called with the mutex held.
func (s *Store) nextID() string {
	s.lastID++
	return strconv.FormatInt(s.lastID, 10)
}

// nextNumericID must be called with the mutex held.
func (s *Store) nextNumericID() uint {
	s.lastNumericID++
	return s.lastNumericID
}

// Storages bundles the per-entity views over one shared store, shaped
// like the postgres adapter's constructors.
type Storages struct {
	Users         *UserStorage
	Events        *EventStorage
	Attendees     *EventAttendeeStorage
	Favorites     *EventFavoriteStorage
	Comments      *EventCommentStorage
	Reviews       *ReviewStorage
	Notifications *NotificationStorage
}

func NewStorages() *Storages {
	store := New()
	return &Storages{
		Users:         &UserStorage{store: store},
		Events:        &EventStorage{store: store},
		Attendees:     &EventAttendeeStorage{store: store},
		Favorites:     &EventFavoriteStorage{store: store},
		Comments:      &EventCommentStorage{store: store},
		Reviews:       &ReviewStorage{store: store},
		Notifications: &NotificationStorage{store: store},
	}
}
