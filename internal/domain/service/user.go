package service

import (
	"context"
	"errors"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/dto"
	"github.com/mainevents/server/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserStorage interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetMany(ctx context.Context, ids []string) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) (*entity.User, error)
	GetAttendeesByEventID(ctx context.Context, eventID string) ([]entity.User, error)
}

type UserService struct {
	userStorage UserStorage
}

func NewUserService(userStorage UserStorage) *UserService {
	return &UserService{
		userStorage: userStorage,
	}
}

func (s *UserService) Register(ctx context.Context, data dto.Register) (*entity.User, error) {
	if _, err := s.userStorage.GetByEmail(ctx, data.Email); err == nil {
		return nil, errorz.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userStorage.Create(ctx, &entity.User{
		Email:        data.Email,
		PasswordHash: string(hash),
		Name:         data.Name,
		Role:         entity.RoleUser,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorz.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.userStorage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorz.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Banned {
		return nil, errorz.ErrForbidden
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errorz.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.userStorage.Get(ctx, id)
}

func (s *UserService) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	return s.userStorage.Update(ctx, user)
}

// LinkTelegram stores the chat id used by the push channel.
func (s *UserService) LinkTelegram(ctx context.Context, userID string, chatID int64) (*entity.User, error) {
	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.TelegramChatID = chatID
	return s.userStorage.Update(ctx, user)
}
