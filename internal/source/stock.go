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

const defaultStockBaseURL = "https://api.yahoofinance.com/v6/finance"

// stockRouteWords gate the source: only terms mentioning one of these are
// treated as quote requests.
var stockRouteWords = map[string]struct{}{
	"stock":  {},
	"price":  {},
	"shares": {},
}

var stockSkipWords = map[string]struct{}{
	"stock": {}, "price": {}, "shares": {}, "market": {}, "trading": {},
	"the": {}, "for": {}, "and": {}, "or": {}, "what": {}, "how": {},
	"current": {}, "today": {},
}

// Stock answers share-price questions through the Yahoo Finance quote API.
// Like Weather it sits ahead of the general chain and misses for any term
// that does not look like a quote request.
type Stock struct {
	baseURL string
	client  *http.Client
}

// NewStock builds the source; baseURL may be empty for the public API.
func NewStock(baseURL string, client *http.Client) *Stock {
	if baseURL == "" {
		baseURL = defaultStockBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Stock{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *Stock) Name() string { return "Yahoo Finance" }

type stockQuote struct {
	QuoteResponse struct {
		Result []struct {
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Fetch extracts a ticker symbol from the term and requests its quote.
func (s *Stock) Fetch(ctx context.Context, term string) (*models.Snippet, error) {
	symbol := extractSymbol(term)
	if symbol == "" {
		return nil, fmt.Errorf("no ticker in %q", term)
	}

	endpoint := s.baseURL + "/quote?symbols=" + url.QueryEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "PersonaChat/1.0 (reference lookup)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote status %d", resp.StatusCode)
	}

	var quote stockQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if len(quote.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote for %q", symbol)
	}

	result := quote.QuoteResponse.Result[0]
	content := fmt.Sprintf("The current price of %s is %.2f. Change: %+.2f%%.",
		symbol, result.RegularMarketPrice, result.RegularMarketChangePercent)

	return &models.Snippet{
		Title:       symbol + " Stock Price",
		Content:     content,
		SourceName:  s.Name(),
		URL:         "https://finance.yahoo.com/quote/" + symbol,
		RetrievedAt: time.Now().UTC(),
	}, nil
}

// extractSymbol returns the first short alphabetic word that is not part of
// the question phrasing, uppercased as a ticker; empty when the term does not
// mention stocks at all.
func extractSymbol(term string) string {
	words := strings.Fields(strings.ToLower(term))
	routed := false
	for _, word := range words {
		if _, ok := stockRouteWords[word]; ok {
			routed = true
			break
		}
	}
	if !routed {
		return ""
	}

	for _, word := range words {
		word = strings.Trim(word, "?!.,")
		if _, skip := stockSkipWords[word]; skip {
			continue
		}
		if len(word) < 1 || len(word) > 5 {
			continue
		}
		if !isAlpha(word) {
			continue
		}
		return strings.ToUpper(word)
	}
	return ""
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
