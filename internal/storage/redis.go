package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const storyKeyPrefix = "story:"

// RedisStorage keeps story sources in Redis and falls back to the
// filesystem data directory for stories that were never published.
// Sources read from disk are cached in Redis for ttl.
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
	ttl     time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. redisURL may be a
// host:port address or a redis:// URL.
func NewRedisStorage(redisURL, dataDir string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opts := &redis.Options{Addr: redisURL}
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opts = parsed
	}

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  redis.NewClient(opts),
		logger:  logger,
		dataDir: dataDir,
		ttl:     ttl,
	}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Debug("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available
func (r *RedisStorage) WaitForConnection(ctx context.Context, attempts int, delay time.Duration) error {
	for i := 0; i < attempts; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(delay):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("redis did not become available after %d attempts", attempts)
}

// Story operations

func (r *RedisStorage) ListStories(ctx context.Context) ([]string, error) {
	names := make(map[string]struct{})

	iter := r.client.Scan(ctx, 0, storyKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names[strings.TrimPrefix(iter.Val(), storyKeyPrefix)] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Failed to scan stories", "error", err)
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	fileNames, err := r.listStoryFiles()
	if err != nil {
		return nil, err
	}
	for _, name := range fileNames {
		names[name] = struct{}{}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (r *RedisStorage) GetStory(ctx context.Context, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	source, err := r.client.Get(ctx, storyKeyPrefix+name).Result()
	if err == nil {
		return source, nil
	}
	if !errors.Is(err, redis.Nil) {
		r.logger.Error("Failed to load story", "name", name, "error", err)
		return "", fmt.Errorf("failed to load story: %w", err)
	}

	source, err = r.readStoryFile(name)
	if err != nil {
		return "", err
	}
	if err := r.client.Set(ctx, storyKeyPrefix+name, source, r.ttl).Err(); err != nil {
		// The file is still usable without the cache.
		r.logger.Warn("Failed to cache story", "name", name, "error", err)
	}
	return source, nil
}

func (r *RedisStorage) SaveStory(ctx context.Context, name, source string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := r.client.Set(ctx, storyKeyPrefix+name, source, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save story", "name", name, "error", err)
		return fmt.Errorf("failed to save story: %w", err)
	}
	return nil
}

func (r *RedisStorage) DeleteStory(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := r.client.Del(ctx, storyKeyPrefix+name).Err(); err != nil {
		r.logger.Error("Failed to delete story", "name", name, "error", err)
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return nil
}
