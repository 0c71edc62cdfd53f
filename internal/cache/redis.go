// Package cache provides a Redis-backed report store shared between
// analyzer instances.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"seoAnalyzerGO/internal/config"
	"seoAnalyzerGO/internal/models"
)

const (
	keyPrefix = "seo:report:"
	scanBatch = 500
)

// RedisStore keeps reports in Redis as JSON, keyed by a hash of the URL.
// A zero TTL keeps reports until they are deleted.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis", "addr", cfg.Addr, "db", cfg.DB, "ttl", cfg.TTL)
	return &RedisStore{rdb: rdb, ttl: cfg.TTL, logger: logger}, nil
}

// Key returns the Redis key for a URL
func Key(pageURL string) string {
	return fmt.Sprintf("%s%016x", keyPrefix, xxhash.Sum64String(pageURL))
}

func (s *RedisStore) Get(ctx context.Context, pageURL string) (*models.SEOAnalysis, bool, error) {
	raw, err := s.rdb.Get(ctx, Key(pageURL)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report models.SEOAnalysis
	if err := json.Unmarshal(raw, &report); err != nil {
		// unreadable entries are dropped so the next analysis replaces them
		s.logger.Warn("Discarding unreadable cached report", "url", pageURL, "error", err)
		s.rdb.Del(ctx, Key(pageURL))
		return nil, false, nil
	}
	return &report, true, nil
}

func (s *RedisStore) Set(ctx context.Context, pageURL string, report *models.SEOAnalysis) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := s.rdb.Set(ctx, Key(pageURL), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, pageURL string) error {
	if err := s.rdb.Del(ctx, Key(pageURL)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Clear removes every cached report and leaves other keys alone
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del failed: %w", err)
			}
			removed += len(keys)
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	s.logger.Debug("Cleared cached reports", "count", removed)
	return nil
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the connection pool
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
