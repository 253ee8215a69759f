package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Sources     SourcesConfig             `json:"sources"`
	Auth        AuthConfig                `json:"auth"`
	Redis       RedisConfig               `json:"redis"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type BasicConfig struct {
	ServerAddress   string `json:"server_address"`
	UsersPath       string `json:"users_path"`
	HistoryPath     string `json:"history_path"`
	KnowledgeDir    string `json:"knowledge_dir"`
	DefaultProvider string `json:"default_provider"`
}

// SourcesConfig drives the external reference source chain.
type SourcesConfig struct {
	WikipediaBaseURL string   `json:"wikipedia_base_url"`
	ReaderBaseURL    string   `json:"reader_base_url"`
	ReferenceSites   []string `json:"reference_sites"`
	MinSnippetLength int      `json:"min_snippet_length"`
	TimeoutSeconds   int      `json:"timeout_seconds"`
	CacheTTLMinutes  int      `json:"cache_ttl_minutes"`
}

// AuthConfig points at the login-token database.
type AuthConfig struct {
	Driver        string `json:"driver"`
	DSN           string `json:"dsn"`
	TokenTTLHours int    `json:"token_ttl_hours"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.BasicConfig.HistoryPath == "" {
		return nil, fmt.Errorf("history_path must be configured")
	}

	baseDir := filepath.Dir(absPath)
	cfg.BasicConfig.HistoryPath = resolvePath(baseDir, cfg.BasicConfig.HistoryPath)
	cfg.BasicConfig.UsersPath = resolvePath(baseDir, cfg.BasicConfig.UsersPath)
	cfg.BasicConfig.KnowledgeDir = resolvePath(baseDir, cfg.BasicConfig.KnowledgeDir)

	return &cfg, nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
