package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"personachat/internal/models"
)

const defaultWikipediaBaseURL = "https://en.wikipedia.org/api/rest_v1"

// Wikipedia looks up page summaries through the Wikipedia REST API. It is the
// primary source in the chain.
type Wikipedia struct {
	baseURL string
	client  *http.Client
}

// NewWikipedia builds the source; baseURL may be empty for the public API.
func NewWikipedia(baseURL string, client *http.Client) *Wikipedia {
	if baseURL == "" {
		baseURL = defaultWikipediaBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Wikipedia{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (w *Wikipedia) Name() string { return "Wikipedia" }

type wikipediaSummary struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Fetch requests the page summary for a term, title-cased with underscores
// the way the API expects. Disambiguation pages count as misses.
func (w *Wikipedia) Fetch(ctx context.Context, term string) (*models.Snippet, error) {
	page := strings.ReplaceAll(strings.TrimSpace(term), " ", "_")
	endpoint := fmt.Sprintf("%s/page/summary/%s", w.baseURL, url.PathEscape(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "PersonaChat/1.0 (reference lookup)")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary status %d", resp.StatusCode)
	}

	var summary wikipediaSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	if summary.Type == "disambiguation" {
		return nil, fmt.Errorf("term %q is ambiguous", term)
	}
	if strings.TrimSpace(summary.Extract) == "" {
		return nil, fmt.Errorf("empty extract for %q", term)
	}

	return &models.Snippet{
		Title:       summary.Title,
		Content:     summary.Extract,
		SourceName:  w.Name(),
		URL:         summary.ContentURLs.Desktop.Page,
		RetrievedAt: time.Now().UTC(),
	}, nil
}
