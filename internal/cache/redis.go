package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps entries in Redis so several workers on one host can share
// a warm cache. Each region tracks its keys in a set, which makes a flush a
// single script over that set instead of a keyspace scan.
type RedisStore struct {
	Client *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, cfg *RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "catalog"
	}
	return &RedisStore{Client: client, prefix: prefix}, nil
}

func (s *RedisStore) entryKey(region Region, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, region, key)
}

func (s *RedisStore) indexKey(region Region) string {
	return fmt.Sprintf("%s:region:%s", s.prefix, region)
}

func (s *RedisStore) Get(ctx context.Context, region Region, key string) ([]byte, bool, error) {
	val, err := s.Client.Get(ctx, s.entryKey(region, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, region Region, key string, value []byte) error {
	entry := s.entryKey(region, key)
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entry, value, 0)
		pipe.SAdd(ctx, s.indexKey(region), entry)
		return nil
	})
	return err
}

// flushScript drops a region's entries and its index in one step, so a Set
// racing the flush lands either before it (and is removed) or after it (and is
// tracked by the fresh index).
var flushScript = redis.NewScript(`
local keys = redis.call('SMEMBERS', KEYS[1])
for i = 1, #keys, 500 do
	redis.call('DEL', unpack(keys, i, math.min(i + 499, #keys)))
end
redis.call('DEL', KEYS[1])
return #keys
`)

func (s *RedisStore) Flush(ctx context.Context, region Region) error {
	err := flushScript.Run(ctx, s.Client, []string{s.indexKey(region)}).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
