package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as fields of a single hash, "<prefix>:cache:<namespace>".
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, prefix, namespace string) *RedisStore {
	if prefix == "" {
		prefix = "ytsync"
	}
	return &RedisStore{rdb: rdb, key: fmt.Sprintf("%s:cache:%s", prefix, namespace)}
}

// Key is the redis hash holding this store.
func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.HGet(ctx, s.key, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("%w: redis HGET %s: %v", shared.ErrCacheIO, s.key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.HSet(ctx, s.key, key, value).Err(); err != nil {
		return fmt.Errorf("%w: redis HSET %s: %v", shared.ErrCacheIO, s.key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: redis DEL %s: %v", shared.ErrCacheIO, s.key, err)
	}
	return nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.rdb.HLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: redis HLEN %s: %v", shared.ErrCacheIO, s.key, err)
	}
	return int(n), nil
}
