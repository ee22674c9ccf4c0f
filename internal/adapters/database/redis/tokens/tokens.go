package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a denylist for revoked JWTs. Logout puts the token id here
// with a TTL matching the remaining token lifetime, after which the entry
// expires on its own.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func (s *Storage) Revoke(ctx context.Context, tokenID string, until time.Duration) {
	s.redis.Set(ctx, key(tokenID), "revoked", until)
}

func (s *Storage) IsRevoked(ctx context.Context, tokenID string) bool {
	n, err := s.redis.Exists(ctx, key(tokenID)).Result()
	return err == nil && n > 0
}

func key(tokenID string) string {
	return fmt.Sprintf("revoked:%s", tokenID)
}
