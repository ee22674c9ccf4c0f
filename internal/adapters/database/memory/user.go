package memory

import (
	"context"
	"time"

	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type UserStorage struct {
	store *Store
}

func (s *UserStorage) Create(_ context.Context, user *entity.User) (*entity.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.users {
		if u.Email == user.Email && !u.DeletedAt.Valid {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = s.store.nextID()
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	s.store.users = append(s.store.users, &copied)
	return user, nil
}

func (s *UserStorage) Get(_ context.Context, id string) (*entity.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.users {
		if u.ID == id && !u.DeletedAt.Valid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *UserStorage) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, u := range s.store.users {
		if u.Email == email && !u.DeletedAt.Valid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *UserStorage) GetMany(_ context.Context, ids []string) ([]entity.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var users []entity.User
	for _, u := range s.store.users {
		for _, id := range ids {
			if u.ID == id && !u.DeletedAt.Valid {
				users = append(users, *u)
				break
			}
		}
	}
	return users, nil
}

func (s *UserStorage) Update(_ context.Context, user *entity.User) (*entity.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, u := range s.store.users {
		if u.ID == user.ID {
			user.UpdatedAt = time.Now()
			copied := *user
			s.store.users[i] = &copied
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *UserStorage) GetAttendeesByEventID(_ context.Context, eventID string) ([]entity.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var users []entity.User
	for _, a := range s.store.attendees {
		if a.EventID != eventID {
			continue
		}
		for _, u := range s.store.users {
			if u.ID == a.UserID && !u.DeletedAt.Valid {
				users = append(users, *u)
				break
			}
		}
	}
	return users, nil
}
