// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisOpTimeout = 2 * time.Second

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, config RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// RedisStore is a Redis-backed Store. Entries are JSON encoded under
// prefix+key. A positive retention bounds how long Redis keeps an entry; it
// is unrelated to freshness, which callers judge from Entry.StoredAt.
type RedisStore[T any] struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
	logger    zerolog.Logger
	stats     counters
}

// NewRedisStore creates a store sharing client.
func NewRedisStore[T any](client *redis.Client, prefix string, retention time.Duration, logger zerolog.Logger) *RedisStore[T] {
	return &RedisStore[T]{
		client:    client,
		prefix:    prefix,
		retention: retention,
		logger:    logger,
	}
}

// Get retrieves an entry from Redis. Transport and decode failures count as misses.
func (s *RedisStore[T]) Get(ctx context.Context, key string) (Entry[T], bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.stats.misses.Add(1)
		return Entry[T]{}, false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		s.stats.misses.Add(1)
		return Entry[T]{}, false
	}

	var e Entry[T]
	if err := json.Unmarshal(val, &e); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("json unmarshal failed")
		s.stats.misses.Add(1)
		return Entry[T]{}, false
	}

	s.stats.hits.Add(1)
	return e, true
}

// Set stores an entry in Redis.
func (s *RedisStore[T]) Set(ctx context.Context, key string, e Entry[T]) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	data, err := json.Marshal(e)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("json marshal failed")
		return
	}
	if err := s.client.Set(ctx, s.prefix+key, data, s.retention).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
		return
	}
	s.stats.sets.Add(1)
}

// Stats returns store statistics. CurrentSize counts keys under the prefix.
func (s *RedisStore[T]) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	size := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		size++
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("redis scan failed")
	}
	return s.stats.snapshot(size)
}

// HealthCheck checks if Redis is available.
func (s *RedisStore[T]) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
