// Package app wires the CLI to the ingestion and query pipelines.
package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("clickup-api-key", "", "ClickUp API token")
	flags.String("llm-provider", "", "LLM provider: ollama or openai")
	flags.String("chat-model", "", "Chat completion model name")
	flags.String("embedding-model", "", "Embedding model name")
	flags.Int("dimensions", 0, "Embedding vector dimensions")
	flags.String("ollama-host", "", "Ollama server URL")
	flags.String("qdrant-host", "", "Qdrant server host")
	flags.Int("qdrant-port", 0, "Qdrant server gRPC port")
	flags.Int("top-k", 0, "Number of documents to retrieve per query")
}
