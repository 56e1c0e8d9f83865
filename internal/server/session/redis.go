package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis: the user snapshot as a JSON string
// under "session:<id>" and flashes as a list under "session:<id>:flash".
// Both keys carry the session TTL, so abandoned sessions expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient creates and verifies a Redis client connection from a URL
// such as "redis://localhost:6379/0".
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

func userKey(sessionID string) string  { return "session:" + sessionID }
func flashKey(sessionID string) string { return "session:" + sessionID + ":flash" }

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*User, error) {
	raw, err := s.client.Get(ctx, userKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("session get: %w", err)
	}

	user := &User{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return user, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, user *User, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.ttl
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, userKey(sessionID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, userKey(sessionID), flashKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

func (s *RedisStore) SetFlash(ctx context.Context, sessionID string, flash Flash) error {
	raw, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("flash encode: %w", err)
	}

	key := flashKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, raw)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("flash set: %w", err)
	}
	return nil
}

func (s *RedisStore) PopFlashes(ctx context.Context, sessionID string) ([]Flash, error) {
	key := flashKey(sessionID)

	pipe := s.client.TxPipeline()
	list := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("flash pop: %w", err)
	}

	raws := list.Val()
	flashes := make([]Flash, 0, len(raws))
	for _, raw := range raws {
		var f Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return nil, fmt.Errorf("flash decode: %w", err)
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
