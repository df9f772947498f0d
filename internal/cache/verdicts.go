package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const verdictPrefix = "vyapar:verdict:"

// Stats counts cache traffic; the CLI logs it once the cycle finishes.
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// VerdictCache stores commercial verdicts keyed by normalised label.
type VerdictCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	log    logrus.FieldLogger

	mu    sync.Mutex
	stats Stats
}

func NewVerdictCache(client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *VerdictCache {
	return &VerdictCache{
		redis:  client,
		ttl:    ttl,
		prefix: verdictPrefix,
		log:    log,
	}
}

func (c *VerdictCache) key(label string) string {
	return c.prefix + strings.ToLower(strings.TrimSpace(label))
}

// Get returns the cached verdict for label. Redis errors count as a miss.
func (c *VerdictCache) Get(ctx context.Context, label string) (verdict, found bool) {
	val, err := c.redis.Get(ctx, c.key(label)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("label", label).Warn("Verdict cache read failed")
		}
		c.count(&c.stats.Misses)
		return false, false
	}

	c.count(&c.stats.Hits)
	return val == "1", true
}

// Set stores verdict for label with the configured TTL. Failures are logged only.
func (c *VerdictCache) Set(ctx context.Context, label string, verdict bool) {
	val := "0"
	if verdict {
		val = "1"
	}
	if err := c.redis.Set(ctx, c.key(label), val, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("label", label).Warn("Verdict cache write failed")
		return
	}
	c.count(&c.stats.Sets)
}

func (c *VerdictCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *VerdictCache) count(field *int64) {
	c.mu.Lock()
	*field++
	c.mu.Unlock()
}
