package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tripplanner:session:"

// RedisStore keeps each session as a JSON value with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(id string) string { return keyPrefix + id }

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	ok, err := r.rdb.SetNX(ctx, key(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx %s: %w", s.ID, err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

// Save overwrites an existing session and refreshes its TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	ok, err := r.rdb.SetXX(ctx, key(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setxx %s: %w", s.ID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	return nil
}
