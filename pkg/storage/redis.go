package storage

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
)

const redisBackend = "redis"

// Redis key layout.
const (
	redisKeyPrefix = "jfreports:doc:"
	redisIndexKey  = "jfreports:docs"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps each dashboard as a msgpack record under
// jfreports:doc:<name>, with the names in the jfreports:docs set.
type RedisStore struct {
	client *redis.Client
}

// redisRecord is the stored value. Body is the document's JSON form.
type redisRecord struct {
	Info Info   `msgpack:"info"`
	Body []byte `msgpack:"body"`
}

// NewRedisStore connects to Redis, retrying while the server comes up.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisStoreFromClient(client), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(name string) string { return redisKeyPrefix + name }

func encodeRecord(info Info, body []byte) ([]byte, error) {
	return msgpack.Marshal(redisRecord{Info: info, Body: body})
}

func decodeRecord(data []byte) (redisRecord, error) {
	var rec redisRecord
	err := msgpack.Unmarshal(data, &rec)
	return rec, err
}

func (s *RedisStore) Get(ctx context.Context, name string) (dashboard.Document, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return dashboard.Document{}, err
	}
	data, err := s.client.Get(ctx, redisKey(name)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		observability.Store().OnRead(ctx, redisBackend, name, false)
		return dashboard.Document{}, notFound(name)
	}
	if err != nil {
		return dashboard.Document{}, storageErr(ctx, redisBackend, "get", err, "read dashboard %q", name)
	}
	observability.Store().OnRead(ctx, redisBackend, name, true)

	rec, err := decodeRecord(data)
	if err != nil {
		return dashboard.Document{}, errors.Wrap(errors.ErrCodeStorage, err, "stored dashboard %q is corrupt", name)
	}
	return decode(name, rec.Body)
}

func (s *RedisStore) Put(ctx context.Context, name string, doc dashboard.Document) error {
	body, info, err := encode(name, doc)
	if err != nil {
		return err
	}
	data, err := encodeRecord(info, body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode dashboard %q", name)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisKey(name), data, 0)
		p.SAdd(ctx, redisIndexKey, name)
		return nil
	})
	if err != nil {
		return storageErr(ctx, redisBackend, "put", err, "write dashboard %q", name)
	}
	observability.Store().OnWrite(ctx, redisBackend, name, len(data))
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDocumentName(name); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, redisKey(name))
		p.SRem(ctx, redisIndexKey, name)
		return nil
	})
	if err != nil {
		return storageErr(ctx, redisBackend, "delete", err, "remove dashboard %q", name)
	}
	if del.Val() == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	names, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, storageErr(ctx, redisBackend, "list", err, "list dashboards")
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = redisKey(n)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageErr(ctx, redisBackend, "list", err, "list dashboards")
	}

	out := make([]Info, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // removed between SMEMBERS and MGET
		}
		rec, err := decodeRecord([]byte(str))
		if err != nil {
			continue
		}
		out = append(out, rec.Info)
	}
	return out, nil
}

// Ping checks the connection with a short timeout.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
