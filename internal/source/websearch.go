package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino-ext/components/tool/googlesearch"
	"github.com/cloudwego/eino/components/tool"

	"personachat/internal/models"
)

// webSearch adapts an eino invokable search tool into a Source.
type webSearch struct {
	name    string
	linkFmt string
	tool    tool.InvokableTool
}

func (s *webSearch) Name() string { return s.name }

func (s *webSearch) Fetch(ctx context.Context, term string) (*models.Snippet, error) {
	payload, err := json.Marshal(map[string]string{"query": term})
	if err != nil {
		return nil, fmt.Errorf("marshal search params: %w", err)
	}
	result, err := s.tool.InvokableRun(ctx, string(payload))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if strings.TrimSpace(result) == "" {
		return nil, fmt.Errorf("empty result for %q", term)
	}
	return &models.Snippet{
		Title:       term,
		Content:     result,
		SourceName:  s.name,
		URL:         fmt.Sprintf(s.linkFmt, url.QueryEscape(term)),
		RetrievedAt: time.Now().UTC(),
	}, nil
}

// NewDuckDuckGo builds the DuckDuckGo text-search source (no token required).
func NewDuckDuckGo(ctx context.Context) (Source, error) {
	duckTool, err := duckduckgo.NewTextSearchTool(ctx, &duckduckgo.Config{
		ToolName:   "reference_search_ddg",
		ToolDesc:   "DuckDuckGo reference lookup",
		MaxResults: 3,
		Region:     duckduckgo.RegionWT,
		Timeout:    10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("init duckduckgo tool: %w", err)
	}
	return &webSearch{
		name:    "DuckDuckGo",
		linkFmt: "https://duckduckgo.com/?q=%s",
		tool:    duckTool,
	}, nil
}

// NewGoogleSearch builds the Google CSE source when GOOGLE_API_KEY and
// GOOGLE_SEARCH_ENGINE_ID are set; otherwise it returns nil and the chain
// simply runs without it.
func NewGoogleSearch(ctx context.Context) Source {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	engineID := os.Getenv("GOOGLE_SEARCH_ENGINE_ID")
	if apiKey == "" || engineID == "" {
		log.Printf("google source disabled: missing GOOGLE_API_KEY or GOOGLE_SEARCH_ENGINE_ID")
		return nil
	}
	googleTool, err := googlesearch.NewTool(ctx, &googlesearch.Config{
		ToolName:       "reference_search_google",
		ToolDesc:       "Google reference lookup",
		APIKey:         apiKey,
		SearchEngineID: engineID,
		Lang:           "en",
		Num:            5,
	})
	if err != nil {
		log.Printf("google source disabled: %v", err)
		return nil
	}
	return &webSearch{
		name:    "Google",
		linkFmt: "https://www.google.com/search?q=%s",
		tool:    googleTool,
	}
}
