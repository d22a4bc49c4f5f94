package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
)

var _ domain.SnapshotStore = (*RedisSnapshotStore)(nil)

// DefaultSnapshotKey is the key the whole user collection is stored under.
const DefaultSnapshotKey = "12m-users"

type RedisSnapshotStore struct {
	client *redis.Client
	key    string
}

func NewRedisSnapshotStore(client *redis.Client, key string) *RedisSnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisSnapshotStore{
		client: client,
		key:    key,
	}
}

func (s *RedisSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis snapshot: load %s: %w", s.key, err)
	}
	return data, nil
}

// Save overwrites the key without expiry.
func (s *RedisSnapshotStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis snapshot: save %s: %w", s.key, err)
	}
	return nil
}
