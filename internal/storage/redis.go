package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

var _ domain.KVStore = (*RedisStore)(nil)

// RedisStore keeps each document as a plain string value under prefix+key.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
	log    *logger.Logger
}

// OpenRedis connects to addr and pings it.
func OpenRedis(ctx context.Context, addr, prefix string, log *logger.Logger) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis: missing address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("redis: connected to %s (prefix=%q)", addr, prefix)
	return &RedisStore{rdb: rdb, prefix: prefix, log: log}, nil
}

// Get returns the document stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return b, nil
}

// Set stores the document under key without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	s.log.Debug("redis: set %s (%d bytes)", key, len(value))
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.rdb.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("redis: delete %s: %w", key, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
