package source

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"personachat/internal/models"
	"personachat/internal/redis"
)

const defaultCacheTTL = time.Hour

// Cache keeps retrieved snippets in Redis keyed by search term so repeated
// questions skip the external chain. A nil Cache (or a Cache over a nil
// client) is a no-op; the service runs fine without Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps a redis client; ttl <= 0 selects the default.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(term string) string { return "snippet:" + term }

// Lookup returns the cached snippet for a term, if any.
func (c *Cache) Lookup(ctx context.Context, term string) (*models.Snippet, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(term))
	if err != nil {
		if err != redis.ErrCacheMiss {
			log.Printf("snippet cache get %q: %v", term, err)
		}
		return nil, false
	}
	var snippet models.Snippet
	if err := json.Unmarshal([]byte(raw), &snippet); err != nil {
		log.Printf("snippet cache decode %q: %v", term, err)
		_ = c.client.Del(ctx, cacheKey(term))
		return nil, false
	}
	return &snippet, true
}

// Store records a snippet for a term; failures are logged and ignored.
func (c *Cache) Store(ctx context.Context, term string, snippet *models.Snippet) {
	if c == nil || c.client == nil || snippet == nil {
		return
	}
	raw, err := json.Marshal(snippet)
	if err != nil {
		log.Printf("snippet cache encode %q: %v", term, err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(term), string(raw), c.ttl); err != nil {
		log.Printf("snippet cache set %q: %v", term, err)
	}
}
