package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Message roles accepted by the chat completion backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrUnavailable indicates the completion service could not be reached.
var ErrUnavailable = errors.New("chat completion service unavailable")

// ErrUpstream indicates the completion service responded with a failure
// status or an unusable payload.
var ErrUpstream = errors.New("chat completion service error")

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends an ordered message list to a model and returns one reply.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config selects and configures a chat completion provider.
type Config struct {
	Provider  string `yaml:"provider"` // "ollama" | "openai"
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// New creates a completer for the configured provider.
func New(cfg Config) (Completer, error) {
	switch cfg.Provider {
	case "ollama", "":
		base := cfg.BaseURL
		if base == "" {
			base = "http://localhost:11434"
		}
		model := cfg.Model
		if model == "" {
			model = "qwen3:8b"
		}
		return NewOllamaChat(base, model), nil
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
			model = "gpt-4o-mini"
		}
		return NewOpenAIChat(key, cfg.BaseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", cfg.Provider)
	}
}

// ValidRole reports whether role is one of the accepted chat roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}
