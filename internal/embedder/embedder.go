package embedder

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrUnavailable indicates the embedding service could not be reached or
// answered with a failure status.
var ErrUnavailable = errors.New("embedding service unavailable")

// ErrInvalidResponse indicates the service answered but the payload was not
// usable (missing or misshapen vectors), or the input itself was empty.
var ErrInvalidResponse = errors.New("invalid embedding response")

// Client produces embedding vectors for text. Implementations are thin
// synchronous boundaries: no retries here, callers decide retry policy.
type Client interface {
	// Embed returns the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns embeddings in the same order as texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Model returns the embedding model identifier.
	Model() string
}

// Config selects and configures an embedding provider.
type Config struct {
	Provider  string `yaml:"provider"` // "ollama" | "openai"
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// New creates a client for the configured provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "ollama", "":
		base := cfg.BaseURL
		if base == "" {
			base = "http://localhost:11434"
		}
		model := cfg.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOllamaClient(base, model), nil
	case "openai":
		keyEnv := cfg.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "OPENAI_API_KEY"
		}
		key := os.Getenv(keyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", keyEnv)
		}
		model := cfg.Model
		if model == "" {
			model = "text-embedding-3-small"
		}
		return NewOpenAIClient(key, cfg.BaseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
