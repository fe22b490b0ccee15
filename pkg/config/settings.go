// Package config loads application settings from CLI flags, environment
// variables, and an optional .env file, in that priority order.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ClickUpSettings configures the source API client.
type ClickUpSettings struct {
	APIKey            string `mapstructure:"api_key"`
	BaseURL           string `mapstructure:"base_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// LLMSettings selects and configures the embedding/chat provider.
type LLMSettings struct {
	Provider       string `mapstructure:"provider"`
	ChatModel      string `mapstructure:"chat_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	Dimensions     int    `mapstructure:"dimensions"`
	OllamaHost     string `mapstructure:"ollama_host"`
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIBaseURL  string `mapstructure:"openai_base_url"`
}

// QdrantSettings configures the vector index connection.
type QdrantSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// RetrievalSettings configures the query path.
type RetrievalSettings struct {
	TopK int `mapstructure:"top_k"`
}

// Settings application settings
type Settings struct {
	ClickUp   ClickUpSettings   `mapstructure:"clickup"`
	LLM       LLMSettings       `mapstructure:"llm"`
	Qdrant    QdrantSettings    `mapstructure:"qdrant"`
	Retrieval RetrievalSettings `mapstructure:"retrieval"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("clickup.base_url", "https://api.clickup.com/api/v2")
	v.SetDefault("clickup.requests_per_minute", 90)
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.dimensions", 1536)
	v.SetDefault("llm.ollama_host", "http://localhost:11434")
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("retrieval.top_k", 10)

	// Environment variables
	v.SetEnvPrefix("CLICKUP_RAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("clickup.api_key", "CLICKUP_RAG_CLICKUP_API_KEY", "CLICKUP_API_KEY")
	_ = v.BindEnv("llm.openai_api_key", "CLICKUP_RAG_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.ollama_host", "CLICKUP_RAG_LLM_OLLAMA_HOST", "OLLAMA_HOST")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("clickup.api_key", flags.Lookup("clickup-api-key"))
		_ = v.BindPFlag("llm.provider", flags.Lookup("llm-provider"))
		_ = v.BindPFlag("llm.chat_model", flags.Lookup("chat-model"))
		_ = v.BindPFlag("llm.embedding_model", flags.Lookup("embedding-model"))
		_ = v.BindPFlag("llm.dimensions", flags.Lookup("dimensions"))
		_ = v.BindPFlag("llm.ollama_host", flags.Lookup("ollama-host"))
		_ = v.BindPFlag("qdrant.host", flags.Lookup("qdrant-host"))
		_ = v.BindPFlag("qdrant.port", flags.Lookup("qdrant-port"))
		_ = v.BindPFlag("retrieval.top_k", flags.Lookup("top-k"))
	}

	// Optional .env file in the working directory
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ValidateSettings checks for configurations that cannot work.
func ValidateSettings(s *Settings) error {
	if s.ClickUp.APIKey == "" {
		return errors.New("clickup API key is required (set CLICKUP_API_KEY)")
	}
	if s.LLM.Provider == "openai" && s.LLM.OpenAIAPIKey == "" {
		return errors.New("openai API key is required when llm.provider is openai (set OPENAI_API_KEY)")
	}
	return nil
}
