// Package llm provides the embedding and chat-completion clients the
// pipeline calls. Two interchangeable providers are supported: a local
// Ollama server and the OpenAI API.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/andrew/clickup-rag/pkg/models"
)

// Provider names accepted by NewClient.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Client is the interface for interacting with LLMs
type Client interface {
	Chat(ctx context.Context, messages []models.Message, config ModelConfig) (models.Message, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// ModelConfig holds configuration parameters for model generation
type ModelConfig struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultModelConfig returns a default configuration
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   2048,
	}
}

// Config selects and configures a provider.
type Config struct {
	// Provider is "ollama" or "openai".
	Provider string

	// OllamaHost is the Ollama server base URL.
	OllamaHost string

	// OpenAIAPIKey authenticates against the OpenAI API.
	OpenAIAPIKey string

	// OpenAIBaseURL overrides the OpenAI API base URL.
	OpenAIBaseURL string

	// ChatModel is the completion model name.
	ChatModel string

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string

	// Dimensions is the embedding vector size the index expects.
	Dimensions int

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// NewClient creates an LLM client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(cfg)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
