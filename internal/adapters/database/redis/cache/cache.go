package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mainevents/server/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

const featuredKey = "events:featured"

type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// GetFeatured returns the cached featured events list, or ok=false on a
// cache miss.
func (s *Storage) GetFeatured(ctx context.Context) ([]entity.Event, bool) {
	eventBytes, err := s.redis.Get(ctx, featuredKey).Result()
	if err != nil {
		return nil, false
	}

	var events []entity.Event
	if err = json.Unmarshal([]byte(eventBytes), &events); err != nil {
		return nil, false
	}
	return events, true
}

func (s *Storage) SetFeatured(ctx context.Context, events []entity.Event, expiration time.Duration) {
	eventBytes, _ := json.Marshal(events)
	s.redis.Set(ctx, featuredKey, eventBytes, expiration)
}

func (s *Storage) ClearFeatured(ctx context.Context) {
	s.redis.Del(ctx, featuredKey)
}
