package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrew/clickup-rag/pkg/llm"
	"github.com/andrew/clickup-rag/pkg/models"
)

// emptyContextMarker is the literal context block used when retrieval
// returned nothing, so the model states its uncertainty instead of
// inventing an answer.
const emptyContextMarker = "No relevant documents found."

const answerPromptTemplate = `You are an expert assistant helping answer questions based on the following context.

Today's date: %s

Context:
%s

Instructions:
- Answer the question based only on the context above.
- If the most recent document appears up to date or contains a recent timestamp, respond accordingly.
- If no context is provided, say "I don't know based on the provided context."
- Be concise, accurate, and well-structured.

Question: %s`

// BuildContext renders retrieved documents as a numbered context block,
// or the explicit empty marker when there are none.
func BuildContext(docs []models.RetrievedDocument) string {
	if len(docs) == 0 {
		return emptyContextMarker
	}

	blocks := make([]string, len(docs))
	for i, doc := range docs {
		blocks[i] = fmt.Sprintf("Document %d:\n%s", i+1, doc.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// Synthesize composes the retrieved documents into a grounded prompt
// and asks the language model for the final answer, returned verbatim.
func Synthesize(ctx context.Context, client llm.Client, question string, docs []models.RetrievedDocument, now time.Time) (string, error) {
	prompt := fmt.Sprintf(answerPromptTemplate, now.Format("2006-01-02"), BuildContext(docs), question)

	response, err := client.Chat(ctx, []models.Message{
		{Role: models.RoleSystem, Content: "You are a helpful assistant trained to answer questions using provided documents."},
		{Role: models.RoleUser, Content: prompt},
	}, llm.ModelConfig{Temperature: 0.2})
	if err != nil {
		return "", fmt.Errorf("answer synthesis: %w", err)
	}

	return response.Content, nil
}
