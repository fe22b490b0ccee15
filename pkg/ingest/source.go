// Package ingest turns the ClickUp task hierarchy into retrievable
// documents and hands them to the vector store. It contains the
// document builder, the reply fetcher, and the orchestrator that walks
// the hierarchy.
package ingest

import (
	"context"

	"github.com/andrew/clickup-rag/pkg/models"
)

// Source is the subset of the ClickUp API the ingestion pipeline reads.
// *clickup.Client satisfies it; tests substitute doubles.
type Source interface {
	Folders(ctx context.Context, spaceID string) ([]models.Folder, error)
	Lists(ctx context.Context, folderID string) ([]models.List, error)
	FolderlessLists(ctx context.Context, spaceID string) ([]models.List, error)
	Tasks(ctx context.Context, listID string) ([]models.Task, error)
	Comments(ctx context.Context, taskID string) ([]models.Comment, error)
	Replies(ctx context.Context, commentID string) ([]models.Reply, error)
	Activity(ctx context.Context, taskID string) ([]models.ActivityItem, error)
}

// DocumentStore persists a batch of built documents into one namespace.
// *vector.QdrantStore satisfies it.
type DocumentStore interface {
	Upsert(ctx context.Context, docs []models.Document, namespace string) error
}
