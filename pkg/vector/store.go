// Package vector embeds documents and stores them in a namespaced
// Qdrant index. It owns the deterministic document identity and the
// compilation of structured query filters into Qdrant's native
// predicate syntax.
package vector

import (
	"context"

	"github.com/qdrant/go-client/qdrant"

	"github.com/andrew/clickup-rag/pkg/models"
)

// Embedder turns text into a fixed-dimension vector. llm.Client
// satisfies it.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Store defines the interface for vector database operations
type Store interface {
	// EnsureNamespace creates the namespace's collection if it does not
	// exist yet.
	EnsureNamespace(ctx context.Context, namespace string) error

	// Upsert embeds each document and inserts or updates its point in
	// the namespace. Re-submitting an identical document overwrites the
	// prior entry.
	Upsert(ctx context.Context, docs []models.Document, namespace string) error

	// Query finds the topK most similar points in the namespace,
	// restricted by the optional native filter.
	Query(ctx context.Context, vector []float32, topK int, namespace string, filter *qdrant.Filter) ([]models.Match, error)

	// Close releases resources used by the vector store
	Close() error
}

// Config contains configuration for the vector database connection.
type Config struct {
	// Host is the Qdrant server host (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Dimension is the embedding vector size (default: 1536).
	Dimension int
}
