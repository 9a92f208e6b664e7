package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisReportCache implements ReportCache using Redis. This is suitable
// for distributed deployments where instances share cached reports.
//
// Invalidation is generation-based: every project carries a version
// counter baked into its cache keys, so InvalidateProject is a single
// INCR and orphaned payloads age out via TTL instead of a SCAN.
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisReportCache creates a new Redis-backed report cache
func NewRedisReportCache(cfg RedisConfig) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReportCache{
		client:    client,
		keyPrefix: "report:",
	}, nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisReportCacheWithClient(client *redis.Client, keyPrefix string) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = "report:"
	}
	return &RedisReportCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisReportCache) versionKey(projectID uuid.UUID) string {
	return c.keyPrefix + "ver:" + projectID.String()
}

func (c *RedisReportCache) payloadKey(projectID uuid.UUID, version int64, key string) string {
	return fmt.Sprintf("%s%s:%d:%s", c.keyPrefix, projectID.String(), version, key)
}

func (c *RedisReportCache) currentVersion(ctx context.Context, projectID uuid.UUID) (int64, error) {
	version, err := c.client.Get(ctx, c.versionKey(projectID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return version, err
}

// Get retrieves a cached payload
func (c *RedisReportCache) Get(ctx context.Context, projectID uuid.UUID, key string) ([]byte, bool) {
	version, err := c.currentVersion(ctx, projectID)
	if err != nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, c.payloadKey(projectID, version, key)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores a payload under the project's current generation
func (c *RedisReportCache) Set(ctx context.Context, projectID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	version, err := c.currentVersion(ctx, projectID)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.payloadKey(projectID, version, key), payload, ttl).Err()
}

// InvalidateProject bumps the project's generation counter
func (c *RedisReportCache) InvalidateProject(ctx context.Context, projectID uuid.UUID) error {
	return c.client.Incr(ctx, c.versionKey(projectID)).Err()
}

// Close closes the underlying Redis client
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

var _ ReportCache = (*RedisReportCache)(nil)
