package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrew/clickup-rag/pkg/models"
)

// Orchestrator walks one space's folder/list/task hierarchy, builds
// documents per task, and stores the full batch in one namespace.
// Failures fetching any single unit are logged and treated as zero
// results for that unit; sibling units continue.
type Orchestrator struct {
	Source  Source
	Replies *ReplyFetcher
	Store   DocumentStore
	Log     *slog.Logger
}

// NewOrchestrator wires the ingestion pipeline.
func NewOrchestrator(source Source, replies *ReplyFetcher, store DocumentStore, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		Source:  source,
		Replies: replies,
		Store:   store,
		Log:     log,
	}
}

// Ingest processes every task reachable from the space, both under
// folders and in folderless lists, and upserts the produced documents
// into namespace. It returns the number of documents handed to the
// store; the store's own error is the only one that propagates.
func (o *Orchestrator) Ingest(ctx context.Context, teamID, spaceID, namespace string) (int, error) {
	var docs []models.Document

	folders, err := o.Source.Folders(ctx, spaceID)
	if err != nil {
		o.Log.Warn("failed to list folders", "space_id", spaceID, "error", err)
		folders = nil
	}
	o.Log.Info("found folders", "space_id", spaceID, "count", len(folders))

	for _, folder := range folders {
		lists, err := o.Source.Lists(ctx, folder.ID)
		if err != nil {
			o.Log.Warn("failed to list lists", "folder_id", folder.ID, "error", err)
			continue
		}

		for _, list := range lists {
			docs = append(docs, o.ingestList(ctx, list, folder, teamID, spaceID)...)
		}
	}

	folderless, err := o.Source.FolderlessLists(ctx, spaceID)
	if err != nil {
		o.Log.Warn("failed to list folderless lists", "space_id", spaceID, "error", err)
		folderless = nil
	}

	for _, list := range folderless {
		docs = append(docs, o.ingestList(ctx, list, models.Folder{}, teamID, spaceID)...)
	}

	if len(docs) == 0 {
		o.Log.Info("no documents produced", "namespace", namespace)
		return 0, nil
	}

	o.Log.Info("storing documents", "namespace", namespace, "count", len(docs))
	if err := o.Store.Upsert(ctx, docs, namespace); err != nil {
		return 0, fmt.Errorf("store documents in %s: %w", namespace, err)
	}
	return len(docs), nil
}

// ingestList builds documents for every task in one list. folder is
// zero-valued for folderless lists.
func (o *Orchestrator) ingestList(ctx context.Context, list models.List, folder models.Folder, teamID, spaceID string) []models.Document {
	tasks, err := o.Source.Tasks(ctx, list.ID)
	if err != nil {
		o.Log.Warn("failed to list tasks", "list_id", list.ID, "error", err)
		return nil
	}
	o.Log.Info("processing list", "list", list.Name, "tasks", len(tasks))

	tc := TaskContext{
		ListID:     list.ID,
		ListName:   list.Name,
		FolderID:   folder.ID,
		FolderName: folder.Name,
		SpaceID:    spaceID,
		TeamID:     teamID,
	}

	var docs []models.Document
	for _, task := range tasks {
		comments, err := o.Source.Comments(ctx, task.ID)
		if err != nil {
			o.Log.Warn("failed to fetch comments", "task_id", task.ID, "error", err)
			comments = nil
		}
		comments = o.Replies.AttachReplies(ctx, comments)

		activity, err := o.Source.Activity(ctx, task.ID)
		if err != nil {
			o.Log.Warn("failed to fetch activity", "task_id", task.ID, "error", err)
			activity = nil
		}

		docs = append(docs, BuildTaskDocuments(task, comments, activity, tc)...)
	}
	return docs
}
