package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

const (
	redisSnapshotKey = "storefront:" + SnapshotKey
	redisEventsKey   = "storefront:cart:events"
)

// RedisStore implements Store on a Redis key-value database. The snapshot
// lives under one fixed key as a JSON array; events are RPUSHed to a list.
// This is the durable key-value rendition of a browser's local storage.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) LoadCart(ctx context.Context) ([]model.CartItem, error) {
	data, err := s.rdb.Get(ctx, redisSnapshotKey).Bytes()
	if err == redis.Nil {
		return nil, ErrNoCart
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return items, nil
}

func (s *RedisStore) SaveCart(ctx context.Context, items []model.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	// No TTL: the cart outlives a session and is cleared only explicitly.
	if err := s.rdb.Set(ctx, redisSnapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearCart(ctx context.Context) error {
	if err := s.rdb.Del(ctx, redisSnapshotKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) AppendEvent(ctx context.Context, event *model.CartEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode cart event: %w", err)
	}
	if err := s.rdb.RPush(ctx, redisEventsKey, data).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	return nil
}

func (s *RedisStore) ListEvents(ctx context.Context) ([]model.CartEvent, error) {
	raw, err := s.rdb.LRange(ctx, redisEventsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	events := make([]model.CartEvent, 0, len(raw))
	for _, entry := range raw {
		var e model.CartEvent
		if err := json.Unmarshal([]byte(entry), &e); err != nil {
			return nil, fmt.Errorf("decode cart event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
