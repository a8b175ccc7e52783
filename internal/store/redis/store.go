package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps the equipment document under a single Redis key.
type Store struct {
	client *redis.Client
	key    string
}

// NewStore creates a Redis store writing to the given document key
// (see DocumentKey).
func NewStore(client *redis.Client, key string) *Store {
	return &Store{
		client: client,
		key:    DocumentKey(key),
	}
}

// Key returns the Redis key holding the document.
func (s *Store) Key() string {
	return s.key
}

// Load reads the document. A missing key is not an error.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.key, err)
	}
	return data, nil
}

// Save replaces the document and records the write time in one
// MULTI/EXEC, without expiry.
func (s *Store) Save(ctx context.Context, data []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key, data, 0)
	pipe.Set(ctx, SavedAtKey(s.key), time.Now().UTC().Format(time.RFC3339), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.key, err)
	}
	return nil
}

// LastWrite returns the time of the last Save, zero if never written.
func (s *Store) LastWrite(ctx context.Context) (time.Time, error) {
	v, err := s.client.Get(ctx, SavedAtKey(s.key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get save time: %w", err)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid save time %q: %w", v, err)
	}
	return t, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
