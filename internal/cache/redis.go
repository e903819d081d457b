package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "movieplex:cache:"
	maxWatchRetries    = 3
)

// RedisStore keeps entries in Redis as JSON values so several processes share one cache.
//
// Keys expire after RetainFor, which should exceed the freshness window so stale entries
// stay available for reads after upstream failures.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	retainFor time.Duration
}

// RedisOptions configures a [RedisStore].
type RedisOptions struct {
	Prefix    string
	RetainFor time.Duration
}

type redisValue struct {
	StoredAt time.Time       `json:"stored_at"`
	Data     json.RawMessage `json:"data"`
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, opts RedisOptions) *RedisStore {
	if opts.Prefix == "" {
		opts.Prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: opts.Prefix, retainFor: opts.RetainFor}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Load(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	v, err := decodeRedisValue(raw)
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Key: key, Data: []byte(v.Data), StoredAt: v.StoredAt}, true, nil
}

// StoreIfNewer reads the current value under WATCH and writes in a MULTI transaction,
// retrying when another writer touched the key in between.
func (s *RedisStore) StoreIfNewer(ctx context.Context, e Entry) (bool, error) {
	payload, err := encodeRedisValue(e)
	if err != nil {
		return false, err
	}

	k := s.prefix + e.Key
	var written bool
	txf := func(tx *redis.Tx) error {
		written = false
		raw, err := tx.Get(ctx, k).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if cur, err := decodeRedisValue(raw); err == nil && cur.StoredAt.After(e.StoredAt) {
				return nil
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, payload, s.retainFor)
			return nil
		})
		if err == nil {
			written = true
		}
		return err
	}

	for range maxWatchRetries {
		err := s.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return written, err
	}
	return false, fmt.Errorf("cache write for %s lost %d optimistic transactions", e.Key, maxWatchRetries)
}

func (s *RedisStore) Purge(ctx context.Context) (int, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.client.Del(ctx, keys...).Result()
	return int(n), err
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	keys, err := s.keys(ctx)
	return len(keys), err
}

func (s *RedisStore) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func encodeRedisValue(e Entry) ([]byte, error) {
	if !json.Valid(e.Data) {
		return nil, fmt.Errorf("cache entry %s is not JSON", e.Key)
	}
	return json.Marshal(redisValue{StoredAt: e.StoredAt, Data: e.Data})
}

func decodeRedisValue(raw []byte) (redisValue, error) {
	var v redisValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return redisValue{}, fmt.Errorf("undecodable cache value: %w", err)
	}
	return v, nil
}
