package redis

import (
	"context"
	"fmt"

	"github.com/mainevents/server/internal/adapters/database/redis/cache"
	"github.com/mainevents/server/internal/adapters/database/redis/tokens"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Cache  *cache.Storage
	Tokens *tokens.Storage
}

type Options struct {
	Host     string
	Port     string
	Password string
}

func New(opts Options) (*Client, error) {
	cacheStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := cacheStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping cache storage: %w", err)
	}

	tokenStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := tokenStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping token storage: %w", err)
	}

	return &Client{
		Cache:  cache.NewStorage(cacheStorage),
		Tokens: tokens.NewStorage(tokenStorage),
	}, nil
}
