package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// ReportCache stores rendered report payloads keyed by project and report
// key. Every ledger mutation invalidates the whole project, so a stale
// payload can only survive until the next write.
type ReportCache interface {
	Get(ctx context.Context, projectID uuid.UUID, key string) ([]byte, bool)
	Set(ctx context.Context, projectID uuid.UUID, key string, payload []byte, ttl time.Duration) error
	InvalidateProject(ctx context.Context, projectID uuid.UUID) error
	Close() error
}

// InMemoryReportCache implements ReportCache with process-local storage.
// Suitable for single-instance deployments and testing.
type InMemoryReportCache struct {
	entries sync.Map // map[string]*reportEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type reportEntry struct {
	payload   []byte
	expiresAt time.Time
}

func (e *reportEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryReportCacheOption is a functional option for configuring the cache
type InMemoryReportCacheOption func(*InMemoryReportCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryReportCacheOption {
	return func(c *InMemoryReportCache) {
		c.logger = logger
	}
}

// NewInMemoryReportCache creates a new in-memory report cache
func NewInMemoryReportCache(opts ...InMemoryReportCacheOption) *InMemoryReportCache {
	cache := &InMemoryReportCache{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

func cacheKey(projectID uuid.UUID, key string) string {
	return projectID.String() + ":" + key
}

// Get retrieves a cached payload
func (c *InMemoryReportCache) Get(ctx context.Context, projectID uuid.UUID, key string) ([]byte, bool) {
	if value, ok := c.entries.Load(cacheKey(projectID, key)); ok {
		entry := value.(*reportEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.payload, true
		}
		c.entries.Delete(cacheKey(projectID, key))
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

// Set stores a payload
func (c *InMemoryReportCache) Set(ctx context.Context, projectID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	if payload == nil {
		return nil
	}

	c.entries.Store(cacheKey(projectID, key), &reportEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// InvalidateProject removes every cached payload of the project
func (c *InMemoryReportCache) InvalidateProject(ctx context.Context, projectID uuid.UUID) error {
	prefix := projectID.String() + ":"
	removed := 0
	c.entries.Range(func(key, _ any) bool {
		if k, ok := key.(string); ok && len(k) > len(prefix) && k[:len(prefix)] == prefix {
			c.entries.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("Invalidated report cache",
			zap.String("project_id", projectID.String()),
			zap.Int("entries", removed))
	}
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryReportCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryReportCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryReportCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*reportEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

var _ ReportCache = (*InMemoryReportCache)(nil)
