package rag

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/andrew/clickup-rag/pkg/models"
	"github.com/andrew/clickup-rag/pkg/vector"
)

// DefaultTopK is the number of nearest neighbours requested per query.
const DefaultTopK = 10

// noContentPlaceholder stands in for matches whose metadata lacks the
// duplicated content field.
const noContentPlaceholder = "<no content available>"

// Retriever embeds a question and runs the filtered similarity search.
type Retriever struct {
	Embedder vector.Embedder
	Store    vector.Store
	TopK     int
}

// NewRetriever creates a retriever with the default top-K.
func NewRetriever(embedder vector.Embedder, store vector.Store) *Retriever {
	return &Retriever{
		Embedder: embedder,
		Store:    store,
		TopK:     DefaultTopK,
	}
}

// Retrieve returns the documents most similar to the question within
// the namespace, restricted by the compiled filter.
func (r *Retriever) Retrieve(ctx context.Context, question, namespace string, filter *qdrant.Filter) ([]models.RetrievedDocument, error) {
	embedding, err := r.Embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	topK := r.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	matches, err := r.Store.Query(ctx, embedding, topK, namespace, filter)
	if err != nil {
		return nil, fmt.Errorf("query namespace %s: %w", namespace, err)
	}

	docs := make([]models.RetrievedDocument, 0, len(matches))
	for _, match := range matches {
		content, _ := match.Metadata["content"].(string)
		if content == "" {
			content = noContentPlaceholder
		}
		docs = append(docs, models.RetrievedDocument{
			ID:      match.ID,
			Content: content,
		})
	}
	return docs, nil
}
