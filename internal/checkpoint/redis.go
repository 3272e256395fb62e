package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the checkpoint JSON under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	log    *slog.Logger
}

// NewRedisStore connects to the Redis instance at url (redis://...) and
// verifies it is reachable.
func NewRedisStore(ctx context.Context, url, key string, log *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{
		client: client,
		key:    key,
		log:    log.With("checkpoint_key", key),
	}, nil
}

// Load returns the stored page, if any.
func (s *RedisStore) Load(ctx context.Context) (int, bool) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.log.Debug("no checkpoint key")
		return 0, false
	}
	if err != nil {
		s.log.Warn("checkpoint unreadable, ignoring", "error", err)
		return 0, false
	}

	page, err := decode(data)
	if errors.Is(err, errNoPage) {
		return 0, false
	}
	if err != nil {
		s.log.Warn("checkpoint corrupt, ignoring", "error", err)
		return 0, false
	}
	return page, true
}

// Save overwrites the checkpoint key. SET replaces the value atomically.
func (s *RedisStore) Save(ctx context.Context, page int) error {
	data, err := encode(page)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
