package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew/clickup-rag/pkg/models"
)

// stubSource is a Source whose every method returns empty results.
// Tests embed it and override what they need.
type stubSource struct{}

func (stubSource) Folders(context.Context, string) ([]models.Folder, error)       { return nil, nil }
func (stubSource) Lists(context.Context, string) ([]models.List, error)           { return nil, nil }
func (stubSource) FolderlessLists(context.Context, string) ([]models.List, error) { return nil, nil }
func (stubSource) Tasks(context.Context, string) ([]models.Task, error)           { return nil, nil }
func (stubSource) Comments(context.Context, string) ([]models.Comment, error)     { return nil, nil }
func (stubSource) Replies(context.Context, string) ([]models.Reply, error)        { return nil, nil }
func (stubSource) Activity(context.Context, string) ([]models.ActivityItem, error) {
	return nil, nil
}

// hierarchySource serves a small in-memory hierarchy and can be told to
// fail individual units.
type hierarchySource struct {
	stubSource
	folders       []models.Folder
	listsByFolder map[string][]models.List
	folderless    []models.List
	tasksByList   map[string][]models.Task
	failLists     map[string]error
	failTasks     map[string]error
}

func (s *hierarchySource) Folders(context.Context, string) ([]models.Folder, error) {
	return s.folders, nil
}

func (s *hierarchySource) Lists(_ context.Context, folderID string) ([]models.List, error) {
	if err := s.failLists[folderID]; err != nil {
		return nil, err
	}
	return s.listsByFolder[folderID], nil
}

func (s *hierarchySource) FolderlessLists(context.Context, string) ([]models.List, error) {
	return s.folderless, nil
}

func (s *hierarchySource) Tasks(_ context.Context, listID string) ([]models.Task, error) {
	if err := s.failTasks[listID]; err != nil {
		return nil, err
	}
	return s.tasksByList[listID], nil
}

// recordingStore captures Upsert calls.
type recordingStore struct {
	docs      []models.Document
	namespace string
	calls     int
	err       error
}

func (s *recordingStore) Upsert(_ context.Context, docs []models.Document, namespace string) error {
	s.calls++
	s.docs = docs
	s.namespace = namespace
	return s.err
}

func newTestOrchestrator(source Source, store DocumentStore) *Orchestrator {
	fetcher := NewReplyFetcher(source, RetryPolicy{MaxAttempts: 1}, nil)
	return NewOrchestrator(source, fetcher, store, nil)
}

func TestIngestSurvivesOneFailingFolder(t *testing.T) {
	source := &hierarchySource{
		folders: []models.Folder{{ID: "f1", Name: "A"}, {ID: "f2", Name: "B"}, {ID: "f3", Name: "C"}},
		listsByFolder: map[string][]models.List{
			"f1": {{ID: "l1", Name: "List 1"}},
			"f3": {{ID: "l3", Name: "List 3"}},
		},
		failLists: map[string]error{"f2": errors.New("502 bad gateway")},
		tasksByList: map[string][]models.Task{
			"l1": {{ID: "t1", Name: "Task one"}},
			"l3": {{ID: "t3", Name: "Task three"}},
		},
	}
	store := &recordingStore{}

	stored, err := newTestOrchestrator(source, store).Ingest(context.Background(), "9001", "s1", "team-9001-space-s1")

	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, "team-9001-space-s1", store.namespace)
	require.Len(t, store.docs, 2)
}

func TestIngestWalksFolderlessLists(t *testing.T) {
	source := &hierarchySource{
		folderless: []models.List{{ID: "l9", Name: "Inbox"}},
		tasksByList: map[string][]models.Task{
			"l9": {{ID: "t9", Name: "Folderless task"}},
		},
	}
	store := &recordingStore{}

	stored, err := newTestOrchestrator(source, store).Ingest(context.Background(), "9001", "s1", "ns")

	require.NoError(t, err)
	assert.Equal(t, 1, stored)
	require.Len(t, store.docs, 1)
	assert.Equal(t, "inbox", store.docs[0].Metadata["project"])
}

func TestIngestSkipsStoreWhenNoDocuments(t *testing.T) {
	store := &recordingStore{}

	stored, err := newTestOrchestrator(&hierarchySource{}, store).Ingest(context.Background(), "9001", "s1", "ns")

	require.NoError(t, err)
	assert.Zero(t, stored)
	assert.Zero(t, store.calls)
}

func TestIngestPropagatesStoreError(t *testing.T) {
	source := &hierarchySource{
		folderless: []models.List{{ID: "l1", Name: "Inbox"}},
		tasksByList: map[string][]models.Task{
			"l1": {{ID: "t1", Name: "Task"}},
		},
	}
	store := &recordingStore{err: errors.New("embedding quota exceeded")}

	_, err := newTestOrchestrator(source, store).Ingest(context.Background(), "9001", "s1", "ns")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding quota exceeded")
}

func TestIngestSurvivesFailingTaskList(t *testing.T) {
	source := &hierarchySource{
		folderless: []models.List{{ID: "l1", Name: "Good"}, {ID: "l2", Name: "Bad"}},
		tasksByList: map[string][]models.Task{
			"l1": {{ID: "t1", Name: "Task"}},
		},
		failTasks: map[string]error{"l2": errors.New("timeout")},
	}
	store := &recordingStore{}

	stored, err := newTestOrchestrator(source, store).Ingest(context.Background(), "9001", "s1", "ns")

	require.NoError(t, err)
	assert.Equal(t, 1, stored)
}
