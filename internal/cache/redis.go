package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisTier is an optional second cache layer behind the in-memory cache,
// useful when several server instances share one operator session. If no URL
// is configured or the connection fails, all operations become no-ops.
type RedisTier struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisTier connects to Redis. On any setup failure it logs and returns a
// disabled tier rather than an error.
func NewRedisTier(redisURL string, ttl time.Duration) *RedisTier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if redisURL == "" {
		log.Debug().Msg("redis: no URL configured, second cache tier disabled")
		return &RedisTier{ttl: ttl}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Str("url", redisURL).Msg("redis: invalid URL, second cache tier disabled")
		return &RedisTier{ttl: ttl}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, second cache tier disabled")
		return &RedisTier{ttl: ttl}
	}

	log.Info().Msg("redis: connected, second cache tier enabled")
	return &RedisTier{rdb: rdb, ttl: ttl}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (r *RedisTier) Client() *redis.Client {
	return r.rdb
}

// Get retrieves a cached JSON value into dest. Reports whether it was found.
func (r *RedisTier) Get(ctx context.Context, key string, dest any) (bool, error) {
	if r.rdb == nil {
		return false, nil
	}
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a JSON-encoded value with the tier TTL.
func (r *RedisTier) Set(ctx context.Context, key string, data any) error {
	if r.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key, b, r.ttl).Err()
}

// Delete removes a key.
func (r *RedisTier) Delete(ctx context.Context, key string) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, key).Err()
}

// Close shuts down the Redis connection.
func (r *RedisTier) Close() error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
