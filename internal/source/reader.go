package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"personachat/internal/models"
)

const (
	defaultReaderBaseURL = "https://r.jina.ai/"
	readerMaxContent     = 1000
)

var defaultReferenceSites = []string{
	"https://en.wikipedia.org/wiki/",
	"https://www.britannica.com/search?query=",
	"https://www.investopedia.com/search?q=",
}

// Reader proxies reference sites through a text-extraction reader service,
// the last resort in the chain before the no-data sentinel.
type Reader struct {
	baseURL string
	sites   []string
	client  *http.Client
}

// NewReader builds the source; empty arguments fall back to defaults.
func NewReader(baseURL string, sites []string, client *http.Client) *Reader {
	if baseURL == "" {
		baseURL = defaultReaderBaseURL
	}
	if len(sites) == 0 {
		sites = defaultReferenceSites
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Reader{baseURL: baseURL, sites: sites, client: client}
}

func (r *Reader) Name() string { return "Reference Reader" }

// Fetch tries each configured reference site through the reader and returns
// the first page with enough text.
func (r *Reader) Fetch(ctx context.Context, term string) (*models.Snippet, error) {
	var lastErr error
	for _, site := range r.sites {
		encoded := escapeTerm(site, term)
		target := r.baseURL + site + encoded
		content, err := r.read(ctx, target)
		if err != nil {
			lastErr = err
			continue
		}
		return &models.Snippet{
			Title:       titleCase(term),
			Content:     content,
			SourceName:  r.Name(),
			URL:         site + encoded,
			RetrievedAt: time.Now().UTC(),
		}, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no reference sites configured")
	}
	return nil, lastErr
}

// escapeTerm matches the escaping to where the term lands: query-suffix sites
// take query escaping, path-suffix sites need path escaping (a "+" is a
// literal plus in a path segment).
func escapeTerm(site, term string) string {
	if strings.Contains(site, "?") {
		return url.QueryEscape(term)
	}
	return url.PathEscape(term)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (r *Reader) read(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "PersonaChat/1.0 (reference lookup)")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	content := strings.TrimSpace(string(body))
	if len(content) < 100 {
		return "", fmt.Errorf("page too short (%d bytes)", len(content))
	}
	if len(content) > readerMaxContent {
		cut := readerMaxContent
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = strings.TrimSpace(content[:cut])
	}
	return content, nil
}
