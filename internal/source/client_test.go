package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alicebob/miniredis/v2"

	"personachat/internal/models"
	"personachat/internal/redis"
)

type stubSource struct {
	name    string
	snippet *models.Snippet
	err     error
	calls   int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, term string) (*models.Snippet, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.snippet, nil
}

func TestLookupFirstSuccessShortCircuits(t *testing.T) {
	failing := &stubSource{name: "first", err: errors.New("boom")}
	winning := &stubSource{name: "second", snippet: &models.Snippet{
		Content:    "A sufficiently long snippet about business trends and markets.",
		SourceName: "second",
	}}
	unreached := &stubSource{name: "third", snippet: &models.Snippet{Content: "should not be used, but long enough anyway"}}

	client := NewClient([]Source{failing, winning, unreached})
	snippet, err := client.Lookup(context.Background(), []string{"business trends"})
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if snippet.SourceName != "second" {
		t.Fatalf("expected snippet from second source, got %q", snippet.SourceName)
	}
	if unreached.calls != 0 {
		t.Fatalf("expected chain to short-circuit, third source called %d times", unreached.calls)
	}
}

func TestLookupAllFailReturnsSentinel(t *testing.T) {
	sources := []Source{
		&stubSource{name: "a", err: errors.New("network down")},
		&stubSource{name: "b", snippet: &models.Snippet{Content: "too short"}},
	}
	client := NewClient(sources)
	snippet, err := client.Lookup(context.Background(), []string{"one", "two"})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if snippet != nil {
		t.Fatalf("expected nil snippet with sentinel")
	}
}

func TestLookupEmptyTerms(t *testing.T) {
	client := NewClient([]Source{&stubSource{name: "a"}})
	if _, err := client.Lookup(context.Background(), nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for empty terms, got %v", err)
	}
}

func TestLookupTriesLaterTermsAfterMiss(t *testing.T) {
	var served []string
	src := &termRecordingSource{hits: map[string]string{
		"economics": "Economics is the study of how societies allocate scarce resources.",
	}, served: &served}

	client := NewClient([]Source{src})
	snippet, err := client.Lookup(context.Background(), []string{"business trends", "economics"})
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if snippet.Title != "economics" {
		t.Fatalf("expected snippet for fallback term, got %q", snippet.Title)
	}
	if len(served) != 2 {
		t.Fatalf("expected both terms attempted, got %v", served)
	}
}

type termRecordingSource struct {
	hits   map[string]string
	served *[]string
}

func (s *termRecordingSource) Name() string { return "recording" }

func (s *termRecordingSource) Fetch(ctx context.Context, term string) (*models.Snippet, error) {
	*s.served = append(*s.served, term)
	content, ok := s.hits[term]
	if !ok {
		return nil, fmt.Errorf("no entry for %q", term)
	}
	return &models.Snippet{Title: term, Content: content, SourceName: s.Name()}, nil
}

func TestWikipediaFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page/summary/business_trends" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"title": "Business trends",
			"type": "standard",
			"extract": "Business trends describe the general direction in which markets develop over time.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Business_trends"}}
		}`)
	}))
	defer server.Close()

	wiki := NewWikipedia(server.URL, server.Client())
	snippet, err := wiki.Fetch(context.Background(), "business trends")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if snippet.Title != "Business trends" {
		t.Fatalf("unexpected title %q", snippet.Title)
	}
	if snippet.URL != "https://en.wikipedia.org/wiki/Business_trends" {
		t.Fatalf("unexpected url %q", snippet.URL)
	}

	if _, err := wiki.Fetch(context.Background(), "missing page"); err == nil {
		t.Fatalf("expected error for unknown page")
	}
}

func TestWikipediaDisambiguationIsMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title": "Mercury", "type": "disambiguation", "extract": "Mercury may refer to several things."}`)
	}))
	defer server.Close()

	wiki := NewWikipedia(server.URL, server.Client())
	if _, err := wiki.Fetch(context.Background(), "mercury"); err == nil {
		t.Fatalf("expected disambiguation pages to be treated as misses")
	}
}

func TestReaderFallsThroughSites(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("site") == "second" {
			w.Write(long)
			return
		}
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	reader := NewReader(server.URL, []string{"/?site=first&q=", "/?site=second&q="}, server.Client())
	snippet, err := reader.Fetch(context.Background(), "economics")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(snippet.Content) == 0 || len(snippet.Content) > readerMaxContent {
		t.Fatalf("unexpected content length %d", len(snippet.Content))
	}
}

func TestReaderEscapesPerSiteStyle(t *testing.T) {
	long := strings.Repeat("x", 300)
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		w.Write([]byte(long))
	}))
	defer server.Close()

	// Path-suffix site: spaces must become %20, never "+".
	reader := NewReader(server.URL, []string{"/wiki/"}, server.Client())
	if _, err := reader.Fetch(context.Background(), "business trends"); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotPath != "/wiki/business%20trends" {
		t.Fatalf("unexpected escaped path %q", gotPath)
	}

	// Query-suffix site keeps query escaping.
	reader = NewReader(server.URL, []string{"/search?q="}, server.Client())
	if _, err := reader.Fetch(context.Background(), "business trends"); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotQuery != "q=business+trends" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestReaderTruncatesOnRuneBoundary(t *testing.T) {
	// One leading byte shifts every two-byte rune so the truncation point
	// lands inside one.
	long := "a" + strings.Repeat("é", 600)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(long))
	}))
	defer server.Close()

	reader := NewReader(server.URL, []string{"/?q="}, server.Client())
	snippet, err := reader.Fetch(context.Background(), "greetings")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(snippet.Content) > readerMaxContent {
		t.Fatalf("content too long: %d", len(snippet.Content))
	}
	if !utf8.ValidString(snippet.Content) {
		t.Fatalf("truncation split a rune")
	}
}

func TestSnippetCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewFromAddr(mr.Addr())
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	if _, ok := cache.Lookup(ctx, "economics"); ok {
		t.Fatalf("expected cache miss on empty cache")
	}
	want := &models.Snippet{Title: "Economics", Content: "Economics is the study of scarcity.", SourceName: "Wikipedia"}
	cache.Store(ctx, "economics", want)
	got, ok := cache.Lookup(ctx, "economics")
	if !ok {
		t.Fatalf("expected cache hit after store")
	}
	if got.Content != want.Content || got.SourceName != want.SourceName {
		t.Fatalf("cached snippet mismatch: %+v", got)
	}
}

func TestCachedSnippetSkipsSources(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewFromAddr(mr.Addr())
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	src := &stubSource{name: "net", snippet: &models.Snippet{
		Content:    "Fresh network content long enough to be accepted by the chain.",
		SourceName: "net",
	}}
	chain := NewClient([]Source{src}, WithCache(NewCache(client, time.Minute)))

	ctx := context.Background()
	if _, err := chain.Lookup(ctx, []string{"economics"}); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if _, err := chain.Lookup(ctx, []string{"economics"}); err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected single source call with warm cache, got %d", src.calls)
	}
}
