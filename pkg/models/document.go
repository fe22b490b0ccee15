package models

import "fmt"

// DocumentType discriminates the kinds of retrievable documents a task
// produces.
type DocumentType string

const (
	DocumentTypeTask       DocumentType = "task"
	DocumentTypeComment    DocumentType = "comment"
	DocumentTypeReply      DocumentType = "reply"
	DocumentTypeActivity   DocumentType = "activity"
	DocumentTypeDiscussion DocumentType = "discussion"
)

// Metadata is the flat payload stored next to a document's vector.
// Values must be strings, numbers, or lists of strings; Flatten
// enforces this before storage.
type Metadata map[string]any

// Flatten returns a copy with every composite value serialized to a
// string. Strings, numbers, booleans, and []string pass through
// unchanged; nil values are dropped.
func (m Metadata) Flatten() Metadata {
	flat := make(Metadata, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			continue
		case string, bool, int, int32, int64, float32, float64:
			flat[k] = val
		case []string:
			flat[k] = val
		default:
			flat[k] = fmt.Sprintf("%v", val)
		}
	}
	return flat
}

// Document is one retrievable unit of text plus metadata, derived from
// a task, comment, reply, activity item, or aggregated discussion.
// Documents are immutable once built; re-ingestion produces fresh ones
// whose deterministic identifier dedups byte-identical content.
type Document struct {
	Type         DocumentType
	ParentTaskID string
	Content      string
	Metadata     Metadata
}

// Match is one similarity-search hit returned by the vector index.
type Match struct {
	ID       string
	Score    float32
	Metadata Metadata
}

// RetrievedDocument is a match reduced to what the answer synthesizer
// needs.
type RetrievedDocument struct {
	ID      string
	Content string
}
