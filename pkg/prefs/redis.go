package prefs

import (
	"context"
	stderrors "errors"

	"github.com/redis/go-redis/v9"

	"github.com/zwdscn-cloud/JFreports/pkg/observability"
)

const redisBackend = "prefs-redis"

// DefaultRedisKey is the hash holding every preference.
const DefaultRedisKey = "jfreports:prefs"

// RedisStore keeps preferences as fields of one Redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
	owned  bool
}

// NewRedisStore connects to addr and stores preferences under
// DefaultRedisKey.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client, key: DefaultRedisKey, owned: true}, nil
}

// NewRedisStoreFromClient shares an existing client. key scopes the hash,
// so several users can keep separate preferences on one server.
func NewRedisStoreFromClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if stderrors.Is(err, redis.Nil) {
		observability.Store().OnRead(ctx, redisBackend, key, false)
		return "", false, nil
	}
	if err != nil {
		observability.Store().OnError(ctx, redisBackend, "get", err)
		return "", false, err
	}
	observability.Store().OnRead(ctx, redisBackend, key, true)
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.key, key, value).Err(); err != nil {
		observability.Store().OnError(ctx, redisBackend, "set", err)
		return err
	}
	observability.Store().OnWrite(ctx, redisBackend, key, len(value))
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.HDel(ctx, s.key, key).Err()
}

// Close closes the client if the store created it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
