package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/andrew/clickup-rag/pkg/models"
)

// Ollama defaults.
const (
	DefaultOllamaHost           = "http://localhost:11434"
	DefaultOllamaChatModel      = "llama3.2"
	DefaultOllamaEmbeddingModel = "llama3"
	DefaultOllamaTimeout        = 5 * time.Minute
)

// OllamaClient talks to a local Ollama server through the official API
// client.
type OllamaClient struct {
	api        *api.Client
	chatModel  string
	embedModel string
}

// NewOllamaClient creates a client for the configured Ollama server.
func NewOllamaClient(cfg Config) (*OllamaClient, error) {
	host := cfg.OllamaHost
	if host == "" {
		host = DefaultOllamaHost
	}
	ollamaURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama host URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultOllamaTimeout
	}
	httpClient := &http.Client{
		Timeout: timeout,
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultOllamaChatModel
	}
	embedModel := cfg.EmbeddingModel
	if embedModel == "" {
		embedModel = DefaultOllamaEmbeddingModel
	}

	return &OllamaClient{
		api:        api.NewClient(ollamaURL, httpClient),
		chatModel:  chatModel,
		embedModel: embedModel,
	}, nil
}

// Chat processes a conversation and returns the assistant's response.
func (c *OllamaClient) Chat(ctx context.Context, messages []models.Message, config ModelConfig) (models.Message, error) {
	ollamaMessages := make([]api.Message, len(messages))
	for i, msg := range messages {
		ollamaMessages[i] = api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	options := map[string]interface{}{
		"temperature": config.Temperature,
	}
	if config.TopP > 0 {
		options["top_p"] = config.TopP
	}
	if config.MaxTokens > 0 {
		options["num_predict"] = config.MaxTokens
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.chatModel,
		Messages: ollamaMessages,
		Options:  options,
		Stream:   &stream,
	}

	var response strings.Builder
	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		response.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("ollama chat: %w", err)
	}

	return models.Message{
		Role:    models.RoleAssistant,
		Content: response.String(),
	}, nil
}

// EmbedText generates a vector embedding for the given text.
func (c *OllamaClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	req := &api.EmbeddingRequest{
		Model:  c.embedModel,
		Prompt: text,
	}

	resp, err := c.api.Embeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}

	embedding := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// Close cleans up any resources
func (c *OllamaClient) Close() error {
	// No cleanup needed for HTTP client
	return nil
}
