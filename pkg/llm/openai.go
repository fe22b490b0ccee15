package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andrew/clickup-rag/pkg/models"
)

// OpenAI defaults. The deployment's vector index was provisioned for
// text-embedding dimensions of 1536.
const (
	DefaultOpenAIBaseURL        = "https://api.openai.com/v1"
	DefaultOpenAIChatModel      = "gpt-4o-mini"
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultOpenAIDimensions     = 1536
	DefaultOpenAITimeout        = 60 * time.Second
)

// OpenAIClient calls the OpenAI chat-completions and embeddings
// endpoints.
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	chatModel  string
	embedModel string
	dimensions int
}

type openAIChatRequest struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature float32          `json:"temperature"`
	TopP        float32          `json:"top_p,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *openAIError `json:"error,omitempty"`
}

type openAIEmbeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *openAIError `json:"error,omitempty"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewOpenAIClient creates an OpenAI API client.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}

	baseURL := cfg.OpenAIBaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultOpenAIChatModel
	}
	embedModel := cfg.EmbeddingModel
	if embedModel == "" {
		embedModel = DefaultOpenAIEmbeddingModel
	}
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = DefaultOpenAIDimensions
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultOpenAITimeout
	}

	return &OpenAIClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    baseURL,
		apiKey:     cfg.OpenAIAPIKey,
		chatModel:  chatModel,
		embedModel: embedModel,
		dimensions: dimensions,
	}, nil
}

// Chat processes a conversation and returns the assistant's response.
func (c *OpenAIClient) Chat(ctx context.Context, messages []models.Message, config ModelConfig) (models.Message, error) {
	reqBody := openAIChatRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: config.Temperature,
		TopP:        config.TopP,
		MaxTokens:   config.MaxTokens,
	}

	var chatResp openAIChatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &chatResp); err != nil {
		return models.Message{}, err
	}
	if chatResp.Error != nil {
		return models.Message{}, fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return models.Message{}, fmt.Errorf("openai: no completion returned")
	}

	return models.Message{
		Role:    models.RoleAssistant,
		Content: chatResp.Choices[0].Message.Content,
	}, nil
}

// EmbedText generates a vector embedding for the given text.
func (c *OpenAIClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	reqBody := openAIEmbeddingRequest{
		Model: c.embedModel,
		Input: []string{text},
	}
	// Only text-embedding-3-* models accept an explicit dimension.
	if c.embedModel == "text-embedding-3-small" || c.embedModel == "text-embedding-3-large" {
		reqBody.Dimensions = c.dimensions
	}

	var embedResp openAIEmbeddingResponse
	if err := c.post(ctx, "/embeddings", reqBody, &embedResp); err != nil {
		return nil, err
	}
	if embedResp.Error != nil {
		return nil, fmt.Errorf("openai error: %s", embedResp.Error.Message)
	}
	if len(embedResp.Data) == 0 {
		return nil, fmt.Errorf("openai: no embedding returned")
	}

	embedding := make([]float32, len(embedResp.Data[0].Embedding))
	for i, v := range embedResp.Data[0].Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// post sends a JSON request and decodes the JSON response into out.
func (c *OpenAIClient) post(ctx context.Context, path string, in, out any) error {
	jsonBody, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Close releases resources.
func (c *OpenAIClient) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
