// Package knowledge is a small seed-document store consulted before the
// external source chain. Documents are plain text or markdown files loaded
// from a directory at startup.
package knowledge

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"

	"personachat/internal/models"
)

// Document is one loaded seed file.
type Document struct {
	ID      string
	Content string
}

// Store holds the loaded documents. A nil Store retrieves nothing.
type Store struct {
	docs []Document
}

var loadableExtensions = map[string]struct{}{
	".txt": {},
	".md":  {},
}

// Load reads every .txt/.md file under dir. Files that fail to parse are
// skipped with a log line; a missing directory yields an empty store.
func Load(ctx context.Context, dir string) (*Store, error) {
	if dir == "" {
		return &Store{}, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("knowledge dir %s not found, starting empty", dir)
		return &Store{}, nil
	}

	extParser, err := parser.NewExtParser(ctx, &parser.ExtParserConfig{
		FallbackParser: parser.TextParser{},
	})
	if err != nil {
		return nil, fmt.Errorf("init parser: %w", err)
	}
	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      extParser,
	})
	if err != nil {
		return nil, fmt.Errorf("init file loader: %w", err)
	}

	store := &Store{}
	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if _, ok := loadableExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		docs, err := loader.Load(ctx, document.Source{URI: path})
		if err != nil {
			log.Printf("skip knowledge file %s: %v", path, err)
			return nil
		}
		for _, doc := range docs {
			content := strings.TrimSpace(doc.Content)
			if content == "" {
				continue
			}
			store.docs = append(store.docs, Document{ID: info.Name(), Content: content})
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk knowledge dir: %w", walkErr)
	}
	log.Printf("loaded %d knowledge documents from %s", len(store.docs), dir)
	return store, nil
}

// Retrieve scores documents by keyword overlap with the terms and returns the
// best match as a grounding snippet, or nil when nothing overlaps.
func (s *Store) Retrieve(terms []string) *models.Snippet {
	if s == nil || len(s.docs) == 0 || len(terms) == 0 {
		return nil
	}

	keywords := make(map[string]struct{})
	for _, term := range terms {
		for _, word := range strings.Fields(strings.ToLower(term)) {
			if len(word) > 2 {
				keywords[word] = struct{}{}
			}
		}
	}
	if len(keywords) == 0 {
		return nil
	}

	type scored struct {
		doc   Document
		score int
	}
	var candidates []scored
	for _, doc := range s.docs {
		lower := strings.ToLower(doc.Content)
		score := 0
		for word := range keywords {
			if strings.Contains(lower, word) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{doc: doc, score: score})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	best := candidates[0].doc
	return &models.Snippet{
		Title:       best.ID,
		Content:     best.Content,
		SourceName:  "Knowledge Base",
		RetrievedAt: time.Now().UTC(),
	}
}

// Len reports how many documents are loaded.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}
