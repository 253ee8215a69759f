package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"personachat/internal/api"
	"personachat/internal/auth"
	"personachat/internal/chat"
	"personachat/internal/config"
	"personachat/internal/knowledge"
	"personachat/internal/llm"
	"personachat/internal/redis"
	"personachat/internal/source"
	"personachat/internal/storage"
	"personachat/internal/store"
)

func main() {
	ctx := context.Background()

	cfgPath := os.Getenv("PERSONACHAT_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	users, err := store.LoadCredentials(cfg.BasicConfig.UsersPath)
	if err != nil {
		log.Fatalf("load credentials: %v", err)
	}
	history, err := store.NewHistoryStore(cfg.BasicConfig.HistoryPath)
	if err != nil {
		log.Fatalf("open history store: %v", err)
	}

	driver := cfg.Auth.Driver
	if driver == "" {
		driver = "sqlite3"
	}
	db, err := storage.Open(driver, cfg.Auth.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := storage.Migrate(db, driver); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	authService := auth.NewService(db, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	// The snippet cache is optional; run uncached when Redis is unreachable.
	var cache *source.Cache
	rdb, err := redis.NewRedisClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, snippet cache disabled: %v", err)
	} else {
		defer rdb.Close()
		cache = source.NewCache(rdb, time.Duration(cfg.Sources.CacheTTLMinutes)*time.Minute)
	}

	sources := buildSources(ctx, cfg)
	retriever := source.NewClient(sources,
		source.WithCache(cache),
		source.WithMinSnippetLength(cfg.Sources.MinSnippetLength),
		source.WithPerSourceTimeout(time.Duration(cfg.Sources.TimeoutSeconds)*time.Second),
	)

	kb, err := knowledge.Load(ctx, cfg.BasicConfig.KnowledgeDir)
	if err != nil {
		log.Fatalf("load knowledge store: %v", err)
	}

	generator := buildGenerator(ctx, cfg)
	chatService := chat.NewService(history, kb, retriever, generator)

	handlers := api.NewHandler(chatService, authService, users, api.StatusInfo{
		Provider:           generator.Provider(),
		KnowledgeDocuments: kb.Len(),
		CacheEnabled:       cache != nil,
	})

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// buildSources assembles the external reference chain in lookup order: the
// routed weather and stock sources first (they miss on anything that is not
// their kind of question), then Wikipedia summaries, web search, and the
// reader proxy.
func buildSources(ctx context.Context, cfg *config.Config) []source.Source {
	var sources []source.Source

	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		sources = append(sources, source.NewWeather("", key, nil))
	} else {
		log.Printf("weather source disabled: missing OPENWEATHER_API_KEY")
	}
	sources = append(sources, source.NewStock("", nil))

	sources = append(sources, source.NewWikipedia(cfg.Sources.WikipediaBaseURL, nil))

	if google := source.NewGoogleSearch(ctx); google != nil {
		sources = append(sources, google)
	}
	duck, err := source.NewDuckDuckGo(ctx)
	if err != nil {
		log.Printf("duckduckgo source disabled: %v", err)
	} else {
		sources = append(sources, duck)
	}

	sources = append(sources, source.NewReader(cfg.Sources.ReaderBaseURL, cfg.Sources.ReferenceSites, nil))
	return sources
}

// buildGenerator initializes the configured provider; without one the service
// still answers through the canned fallbacks.
func buildGenerator(ctx context.Context, cfg *config.Config) *llm.Client {
	provider := cfg.BasicConfig.DefaultProvider
	if provider == "" {
		log.Printf("no default provider configured, answering with fallbacks only")
		return nil
	}
	provCfg, ok := cfg.Providers[provider]
	if !ok {
		log.Printf("provider %s has no config entry, answering with fallbacks only", provider)
		return nil
	}
	client, err := llm.NewClient(ctx, provider, provCfg)
	if err != nil {
		log.Printf("init provider %s failed, answering with fallbacks only: %v", provider, err)
		return nil
	}
	log.Printf("chat provider: %s", provider)
	return client
}
