package postgres

import (
	"context"

	"github.com/mainevents/server/internal/domain/entity"
	"gorm.io/gorm"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{
		db: db,
	}
}

// Create is a function that creates a new user in the database.
func (s *UserStorage) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	err := s.db.WithContext(ctx).Create(&user).Error
	return user, err
}

// Get is a function that gets a user from the database by id.
func (s *UserStorage) Get(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return &user, err
}

// GetByEmail is a function that gets a user from the database by email.
func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

// GetMany is a function that gets users from the database by ids.
func (s *UserStorage) GetMany(ctx context.Context, ids []string) ([]entity.User, error) {
	var users []entity.User
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Update is a function that updates a user in the database.
func (s *UserStorage) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	err := s.db.WithContext(ctx).Save(&user).Error
	return user, err
}

// GetAttendeesByEventID returns the users holding tickets for an event.
func (s *UserStorage) GetAttendeesByEventID(ctx context.Context, eventID string) ([]entity.User, error) {
	var users []entity.User
	err := s.db.WithContext(ctx).
		Joins("JOIN event_attendees ON event_attendees.user_id = users.id").
		Where("event_attendees.event_id = ?", eventID).
		Find(&users).Error
	return users, err
}
