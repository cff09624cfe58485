package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileErrors(t *testing.T) {
	// An explicitly named config file that does not exist is a user error,
	// not a cue to fall back to defaults.
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load on missing file: err = %v, want ErrNotExist", err)
	}
}

func TestLoadEmptyFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Embedding.Provider != "ollama" || cfg.Chat.Provider != "ollama" {
		t.Errorf("providers = %q/%q, want ollama defaults", cfg.Embedding.Provider, cfg.Chat.Provider)
	}
	if cfg.Index.TopK != 5 || cfg.Index.MinQueryLen != 12 {
		t.Errorf("Index = %+v, want top_k 5 and min_query_len 12", cfg.Index)
	}
	if cfg.Index.ChunkSize != 1000 || cfg.Index.ChunkOverlap != 150 {
		t.Errorf("chunking = %d/%d, want 1000/150", cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	}
}

func TestLoadOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
embedding:
  provider: openai
  model: text-embedding-3-small
index:
  path: /var/lib/tutorbot/knowledge.json
  top_k: 3
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("Embedding.Provider = %q, want openai", cfg.Embedding.Provider)
	}
	if cfg.Index.TopK != 3 {
		t.Errorf("Index.TopK = %d, want 3", cfg.Index.TopK)
	}
	// Unset fields still get defaults.
	if cfg.Server.TimeoutSecs != 120 {
		t.Errorf("Server.TimeoutSecs = %d, want default 120", cfg.Server.TimeoutSecs)
	}
	if cfg.Chat.Provider != "ollama" {
		t.Errorf("Chat.Provider = %q, want default ollama", cfg.Chat.Provider)
	}
	if cfg.Facts.DBPath != "facts.db" {
		t.Errorf("Facts.DBPath = %q, want default facts.db", cfg.Facts.DBPath)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed YAML")
	}
}
