// Package config loads the application configuration from YAML with sane
// defaults for every field.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tutorbot/internal/bot"
	"tutorbot/internal/chunker"
	"tutorbot/internal/embedder"
	"tutorbot/internal/llm"
	"tutorbot/internal/search"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IndexConfig configures ingestion and retrieval over the knowledge base.
type IndexConfig struct {
	Path         string   `yaml:"path"`
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	TopK         int      `yaml:"top_k"`
	MinQueryLen  int      `yaml:"min_query_len"`
	Exclude      []string `yaml:"exclude"`
}

// FactsConfig configures the structured fact store.
type FactsConfig struct {
	DBPath string `yaml:"db_path"`
}

// AppConfig is the root application configuration.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Embedding embedder.Config `yaml:"embedding"`
	Chat      llm.Config      `yaml:"chat"`
	Index     IndexConfig     `yaml:"index"`
	Facts     FactsConfig     `yaml:"facts"`
}

// Load reads a config from path. The file must exist: callers naming a
// path explicitly should hear about a typo, not silently get defaults.
// Probing for optional locations happens in LoadDefault.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./tutorbot.yaml first, then
// ~/.config/tutorbot/config.yaml, then falls back to defaults.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "tutorbot.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".config", "tutorbot", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			cfg, err := Load(userPath)
			return cfg, userPath, err
		}
	}
	return defaultConfig(), "", nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = 120
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "ollama"
	}
	if cfg.Chat.Provider == "" {
		cfg.Chat.Provider = "ollama"
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "knowledge.json"
	}
	if cfg.Index.ChunkSize == 0 {
		cfg.Index.ChunkSize = chunker.DefaultChunkSize
	}
	if cfg.Index.ChunkOverlap == 0 {
		cfg.Index.ChunkOverlap = chunker.DefaultOverlap
	}
	if cfg.Index.TopK == 0 {
		cfg.Index.TopK = search.DefaultTopK
	}
	if cfg.Index.MinQueryLen == 0 {
		cfg.Index.MinQueryLen = bot.DefaultMinQueryLen
	}
	if cfg.Facts.DBPath == "" {
		cfg.Facts.DBPath = "facts.db"
	}
}
