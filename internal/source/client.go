// Package source fetches grounding snippets from an ordered chain of external
// reference sources. Failures are soft: a source that errors, times out, or
// returns too little text is skipped and the next term/source pair is tried.
package source

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"personachat/internal/models"
)

// ErrNoData is the sentinel returned when every term/source combination fails.
var ErrNoData = errors.New("no external data available")

// Source is one reference endpoint in the fallback chain.
type Source interface {
	Name() string
	Fetch(ctx context.Context, term string) (*models.Snippet, error)
}

const (
	defaultMinSnippetLength = 50
	defaultTimeout          = 10 * time.Second
)

// Client tries each candidate term against each source in order and returns
// the first acceptable snippet.
type Client struct {
	sources    []Source
	cache      *Cache
	minLength  int
	perTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCache attaches a snippet cache consulted before any network call.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithMinSnippetLength overrides the relevance length threshold.
func WithMinSnippetLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.minLength = n
		}
	}
}

// WithPerSourceTimeout bounds each individual source call.
func WithPerSourceTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.perTimeout = d
		}
	}
}

// NewClient builds a client over an ordered source chain.
func NewClient(sources []Source, opts ...Option) *Client {
	c := &Client{
		sources:    sources,
		minLength:  defaultMinSnippetLength,
		perTimeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup walks terms in order, trying each source for a term before moving to
// the next term. It returns the first acceptable snippet, or ErrNoData when
// everything fails. It never returns any other error.
func (c *Client) Lookup(ctx context.Context, terms []string) (*models.Snippet, error) {
	if c == nil || len(terms) == 0 {
		return nil, ErrNoData
	}

	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if snippet, ok := c.cache.Lookup(ctx, term); ok {
			return snippet, nil
		}
		for _, src := range c.sources {
			snippet, err := c.fetchOne(ctx, src, term)
			if err != nil {
				log.Printf("source %s failed for %q: %v", src.Name(), term, err)
				continue
			}
			if !c.acceptable(snippet) {
				continue
			}
			c.cache.Store(ctx, term, snippet)
			return snippet, nil
		}
	}
	return nil, ErrNoData
}

func (c *Client) fetchOne(ctx context.Context, src Source, term string) (*models.Snippet, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.perTimeout)
	defer cancel()
	return src.Fetch(fetchCtx, term)
}

func (c *Client) acceptable(snippet *models.Snippet) bool {
	if snippet == nil {
		return false
	}
	content := strings.TrimSpace(snippet.Content)
	return len(content) >= c.minLength
}
