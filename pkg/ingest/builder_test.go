package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew/clickup-rag/pkg/models"
)

var testContext = TaskContext{
	ListID:     "l1",
	ListName:   "Sprint 12",
	FolderID:   "f1",
	FolderName: "Website",
	SpaceID:    "s1",
	TeamID:     "9001",
}

func priorityOf(v string) *models.Priority {
	return &models.Priority{Value: v}
}

func docsByType(docs []models.Document) map[models.DocumentType][]models.Document {
	byType := make(map[models.DocumentType][]models.Document)
	for _, d := range docs {
		byType[d.Type] = append(byType[d.Type], d)
	}
	return byType
}

func TestBuildTaskDocumentsScenario(t *testing.T) {
	// A task with one empty and one real comment yields exactly one
	// task document, one comment document, one discussion document,
	// and no reply documents.
	task := models.Task{
		ID:          "t1",
		Name:        "Fix login bug",
		Status:      models.Status{Status: "Open"},
		DateCreated: "1687522800000",
	}
	comments := []models.Comment{
		{ID: "c0", Text: "   ", User: "Ali", Date: "1687522900000"},
		{ID: "c1", Text: "Looks good", User: "Ali", Date: "1687523000000"},
	}

	docs := BuildTaskDocuments(task, comments, nil, testContext)
	byType := docsByType(docs)

	assert.Len(t, byType[models.DocumentTypeTask], 1)
	assert.Len(t, byType[models.DocumentTypeComment], 1)
	assert.Len(t, byType[models.DocumentTypeDiscussion], 1)
	assert.Empty(t, byType[models.DocumentTypeReply])
	assert.Len(t, docs, 3)

	comment := byType[models.DocumentTypeComment][0]
	assert.Contains(t, comment.Content, "Looks good")
	assert.Equal(t, "t1", comment.ParentTaskID)
	assert.Equal(t, "c1", comment.Metadata["comment_id"])

	// The empty comment contributes nothing to the discussion.
	discussion := byType[models.DocumentTypeDiscussion][0]
	assert.Contains(t, discussion.Content, "Looks good")
	assert.NotContains(t, discussion.Content, "c0")
}

func TestBuildTaskDocumentsNamelessTask(t *testing.T) {
	task := models.Task{ID: "t1", Name: "  ", Description: ""}

	docs := BuildTaskDocuments(task, nil, nil, testContext)
	assert.Empty(t, docs)
}

func TestBuildTaskDocumentsDescriptionOnly(t *testing.T) {
	task := models.Task{ID: "t1", Description: "Investigate flaky deploys"}

	docs := BuildTaskDocuments(task, nil, nil, testContext)
	require.Len(t, docs, 1)
	assert.Equal(t, models.DocumentTypeTask, docs[0].Type)
}

func TestBuildTaskDocumentsReplies(t *testing.T) {
	task := models.Task{ID: "t1", Name: "Fix login bug"}
	comments := []models.Comment{
		{
			ID: "c1", Text: "Root cause found", User: "Ali", Date: "1687523000000",
			Replies: []models.Reply{
				{Text: "Nice work", User: "Sam", Date: "1687523100000"},
				{Text: "  ", User: "Kim", Date: "1687523200000"},
			},
		},
	}

	docs := BuildTaskDocuments(task, comments, nil, testContext)
	byType := docsByType(docs)

	require.Len(t, byType[models.DocumentTypeReply], 1)
	reply := byType[models.DocumentTypeReply][0]
	assert.Contains(t, reply.Content, "Nice work")
	assert.Contains(t, reply.Content, "c1")
	assert.Equal(t, "c1", reply.Metadata["comment_id"])
	assert.Equal(t, "t1", reply.Metadata["parent_task_id"])

	// Reply text also lands in the discussion aggregate.
	require.Len(t, byType[models.DocumentTypeDiscussion], 1)
	assert.Contains(t, byType[models.DocumentTypeDiscussion][0].Content, "Nice work")
}

func TestBuildTaskDocumentsActivity(t *testing.T) {
	task := models.Task{ID: "t1", Name: "Fix login bug"}
	activity := []models.ActivityItem{
		{Type: "status_change", Text: "moved to in progress", User: "Ali", Date: "1687523000000"},
		{Type: "status_change", Text: "", User: "Sam", Date: "1687523100000"},
	}

	docs := BuildTaskDocuments(task, nil, activity, testContext)
	byType := docsByType(docs)

	require.Len(t, byType[models.DocumentTypeActivity], 1)
	doc := byType[models.DocumentTypeActivity][0]
	assert.Contains(t, doc.Content, "moved to in progress")
	assert.Equal(t, "status_change", doc.Metadata["activity_type"])

	// Activity does not create a discussion document.
	assert.Empty(t, byType[models.DocumentTypeDiscussion])
}

func TestBuildTaskDocumentsMetadataCasing(t *testing.T) {
	task := models.Task{
		ID:          "t1",
		Name:        "Fix Login Bug",
		Description: "Users Cannot Sign In",
		Status:      models.Status{Status: "In Progress"},
		Priority:    priorityOf("High"),
		Assignees:   []models.Assignee{{Username: "Ali"}, {Username: "Sam"}},
		Tags:        []models.Tag{{Name: "Backend"}},
		DateCreated: "1687522800000",
	}

	docs := BuildTaskDocuments(task, nil, nil, testContext)
	require.Len(t, docs, 1)
	meta := docs[0].Metadata

	// Exact-match filter keys are lowercased.
	assert.Equal(t, "in progress", meta["status"])
	assert.Equal(t, "high", meta["priority"])
	assert.Equal(t, []string{"ali", "sam"}, meta["assignees"])
	assert.Equal(t, []string{"backend"}, meta["tags"])
	assert.Equal(t, "website", meta["project"])
	assert.Equal(t, "website", meta["folder"])

	// Free-text fields keep their casing.
	assert.Equal(t, "Fix Login Bug", meta["task_name"])
	assert.Equal(t, "Users Cannot Sign In", meta["description"])
	assert.Contains(t, docs[0].Content, "Fix Login Bug")

	// Timestamps carry their millisecond twins.
	assert.Equal(t, int64(1687522800000), meta["created_at_ms"])
	assert.NotEmpty(t, meta["created_at"])

	// Rendered content is duplicated into metadata.
	assert.Equal(t, docs[0].Content, meta["content"])
	assert.Equal(t, "task", meta["document_type"])
}

func TestBuildTaskDocumentsInvalidTimestampsOmitted(t *testing.T) {
	task := models.Task{ID: "t1", Name: "No dates", DateCreated: "not-a-date"}

	docs := BuildTaskDocuments(task, nil, nil, testContext)
	require.Len(t, docs, 1)

	_, ok := docs[0].Metadata["created_at_ms"]
	assert.False(t, ok)
	assert.Contains(t, docs[0].Content, "Created: None")
}

func TestBuildTaskDocumentsFolderless(t *testing.T) {
	tc := TaskContext{
		ListID:   "l9",
		ListName: "Inbox",
		SpaceID:  "s1",
		TeamID:   "9001",
	}
	task := models.Task{ID: "t1", Name: "Triage"}

	docs := BuildTaskDocuments(task, nil, nil, tc)
	require.Len(t, docs, 1)

	// Folderless lists take the list name as project label.
	assert.Equal(t, "inbox", docs[0].Metadata["project"])
	assert.Contains(t, docs[0].Content, "Folder: None")
	_, ok := docs[0].Metadata["folder_id"]
	assert.False(t, ok)
}

func TestBuildTaskDocumentsCommentTimestampOverride(t *testing.T) {
	task := models.Task{ID: "t1", Name: "Fix login bug", DateCreated: "1687522800000"}
	comments := []models.Comment{
		{ID: "c1", Text: "done", User: "Ali", Date: "1690000000000"},
	}

	docs := BuildTaskDocuments(task, comments, nil, testContext)
	byType := docsByType(docs)

	// A comment document's created_at reflects when the comment was
	// made, so date-range filters match the comment's own moment.
	comment := byType[models.DocumentTypeComment][0]
	assert.Equal(t, int64(1690000000000), comment.Metadata["created_at_ms"])

	taskDoc := byType[models.DocumentTypeTask][0]
	assert.Equal(t, int64(1687522800000), taskDoc.Metadata["created_at_ms"])
}

func TestBuildTaskDocumentsCustomFields(t *testing.T) {
	task := models.Task{
		ID:   "t1",
		Name: "Estimate",
		CustomFields: []models.CustomField{
			{Name: "Story Points", Value: []byte(`"5"`)},
			{Name: "Billable", Value: []byte(`true`)},
		},
	}

	docs := BuildTaskDocuments(task, nil, nil, testContext)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Content, "Story Points: 5")
	assert.Contains(t, docs[0].Content, "Billable: true")
}
