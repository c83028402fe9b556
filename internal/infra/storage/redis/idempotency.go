package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"staybook/internal/app/middleware"
)

const keyPrefix = "staybook:idem:"

// kv is the subset of the go-redis client used by the store.
type kv interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *goredis.BoolCmd
}

// IdempotencyStore keeps command outcomes in Redis under a TTL.
type IdempotencyStore struct {
	client kv
	ttl    time.Duration
}

func NewIdempotencyStore(client kv, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return middleware.IdempotencyRecord{}, false, nil
		}
		return middleware.IdempotencyRecord{}, false, fmt.Errorf("redis get: %w", err)
	}
	var rec middleware.IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return middleware.IdempotencyRecord{}, false, fmt.Errorf("decode idempotency record: %w", err)
	}
	return rec, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	// SETNX keeps the first outcome when duplicates race.
	if err := s.client.SetNX(ctx, keyPrefix+rec.Key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	return nil
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
