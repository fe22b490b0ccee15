package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andrew/clickup-rag/pkg/clickup"
	"github.com/andrew/clickup-rag/pkg/models"
)

// discussionSeparator divides individual comment and reply renderings
// inside the aggregated discussion document.
const discussionSeparator = "\n----------------------------------------\n"

// TaskContext carries the hierarchy labels a task's documents embed.
// FolderID and FolderName are empty for folderless lists.
type TaskContext struct {
	ListID     string
	ListName   string
	FolderID   string
	FolderName string
	SpaceID    string
	TeamID     string
}

// project returns the exact-match project label: the folder name when
// present, otherwise the list name, lowercased.
func (tc TaskContext) project() string {
	if tc.FolderName != "" {
		return strings.ToLower(tc.FolderName)
	}
	return strings.ToLower(tc.ListName)
}

// folderLabel returns the folder name for rendering, or "None" for
// folderless lists.
func (tc TaskContext) folderLabel() string {
	if tc.FolderName == "" {
		return "None"
	}
	return tc.FolderName
}

// BuildTaskDocuments produces the full document set for one task: one
// task document (when it has a name or description), one document per
// non-empty comment, reply, and activity item, and at most one
// discussion document aggregating all comment and reply text.
func BuildTaskDocuments(task models.Task, comments []models.Comment, activity []models.ActivityItem, tc TaskContext) []models.Document {
	created := clickup.NormalizeTimestamp(task.DateCreated)
	updated := clickup.NormalizeTimestamp(task.DateUpdated)
	due := clickup.NormalizeTimestamp(task.DueDate)

	assignees := assigneeNames(task.Assignees)
	tags := tagNames(task.Tags)
	priority := priorityLabel(task.Priority)
	status := strings.ToLower(task.Status.Status)

	base := models.Metadata{
		"task_id":       task.ID,
		"task_name":     task.Name,
		"description":   task.Description,
		"status":        status,
		"priority":      priority,
		"assignees":     lowerAll(assignees),
		"tags":          lowerAll(tags),
		"list":          tc.ListName,
		"list_id":       tc.ListID,
		"folder":        strings.ToLower(tc.folderLabel()),
		"project":       tc.project(),
		"space_id":      tc.SpaceID,
		"team_id":       tc.TeamID,
		"comment_count": len(comments),
	}
	if tc.FolderID != "" {
		base["folder_id"] = tc.FolderID
	}
	addTimestamp(base, "created_at", created)
	addTimestamp(base, "updated_at", updated)
	addTimestamp(base, "due_date", due)

	labels := fmt.Sprintf("List: %s, Folder: %s, Project: %s", tc.ListName, tc.folderLabel(), tc.project())

	var docs []models.Document

	if strings.TrimSpace(task.Name) != "" || strings.TrimSpace(task.Description) != "" {
		content := renderTaskContent(task, tc, created, updated, due, assignees, tags, priority)
		docs = append(docs, newDocument(models.DocumentTypeTask, task.ID, content, base, models.Metadata{}))
	}

	var discussion strings.Builder
	for _, comment := range comments {
		if strings.TrimSpace(comment.Text) == "" {
			continue
		}

		ts := clickup.NormalizeTimestamp(comment.Date)
		content := fmt.Sprintf("Comment on task %q (%s)\nBy: %s on %s\n%s",
			task.Name, labels, userLabel(comment.User), dateLabel(ts), comment.Text)
		extra := models.Metadata{
			"comment_id": comment.ID,
			"user":       comment.User,
		}
		overrideTimestamp(extra, ts)
		docs = append(docs, newDocument(models.DocumentTypeComment, task.ID, content, base, extra))
		appendDiscussion(&discussion, content)

		for _, reply := range comment.Replies {
			if strings.TrimSpace(reply.Text) == "" {
				continue
			}

			rts := clickup.NormalizeTimestamp(reply.Date)
			replyContent := fmt.Sprintf("Reply to comment %s on task %q (%s)\nBy: %s on %s\n%s",
				comment.ID, task.Name, labels, userLabel(reply.User), dateLabel(rts), reply.Text)
			replyExtra := models.Metadata{
				"comment_id": comment.ID,
				"user":       reply.User,
			}
			overrideTimestamp(replyExtra, rts)
			docs = append(docs, newDocument(models.DocumentTypeReply, task.ID, replyContent, base, replyExtra))
			appendDiscussion(&discussion, replyContent)
		}
	}

	for _, item := range activity {
		if strings.TrimSpace(item.Text) == "" {
			continue
		}

		ts := clickup.NormalizeTimestamp(item.Date)
		content := fmt.Sprintf("Activity on task %q (%s)\n%s by %s on %s\n%s",
			task.Name, labels, activityLabel(item.Type), userLabel(item.User), dateLabel(ts), item.Text)
		extra := models.Metadata{
			"activity_type": item.Type,
			"user":          item.User,
		}
		overrideTimestamp(extra, ts)
		docs = append(docs, newDocument(models.DocumentTypeActivity, task.ID, content, base, extra))
	}

	if discussion.Len() > 0 {
		content := fmt.Sprintf("Discussion for task %q (%s)\n\n%s", task.Name, labels, discussion.String())
		docs = append(docs, newDocument(models.DocumentTypeDiscussion, task.ID, content, base, models.Metadata{}))
	}

	return docs
}

// renderTaskContent renders the fixed-order task document body.
func renderTaskContent(task models.Task, tc TaskContext, created, updated, due clickup.Timestamp, assignees, tags []string, priority string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", task.Name)
	fmt.Fprintf(&b, "Description: %s\n", task.Description)
	fmt.Fprintf(&b, "Status: %s\n", task.Status.Status)
	fmt.Fprintf(&b, "Priority: %s\n", priority)
	fmt.Fprintf(&b, "Due Date: %s\n", dateLabel(due))
	fmt.Fprintf(&b, "Created: %s\n", dateLabel(created))
	fmt.Fprintf(&b, "Updated: %s\n", dateLabel(updated))
	fmt.Fprintf(&b, "Assignees: %s\n", joinOr(assignees, "Unassigned"))
	fmt.Fprintf(&b, "Tags: %s\n", joinOr(tags, "None"))
	if line := customFieldsLine(task.CustomFields); line != "" {
		fmt.Fprintf(&b, "Custom Fields: %s\n", line)
	}
	fmt.Fprintf(&b, "List: %s\n", tc.ListName)
	fmt.Fprintf(&b, "Folder: %s\n", tc.folderLabel())
	fmt.Fprintf(&b, "Project: %s\n", tc.project())
	fmt.Fprintf(&b, "Team: %s", tc.TeamID)
	return b.String()
}

// newDocument merges base metadata with type-specific fields, stamps
// the discriminator and back-reference, duplicates the rendered content
// into metadata for retrieval-time access, and flattens everything.
func newDocument(docType models.DocumentType, taskID, content string, base, extra models.Metadata) models.Document {
	meta := make(models.Metadata, len(base)+len(extra)+3)
	for k, v := range base {
		meta[k] = v
	}
	for k, v := range extra {
		meta[k] = v
	}
	meta["document_type"] = string(docType)
	meta["parent_task_id"] = taskID
	meta["content"] = content

	return models.Document{
		Type:         docType,
		ParentTaskID: taskID,
		Content:      content,
		Metadata:     meta.Flatten(),
	}
}

// addTimestamp writes the ISO rendering under key and the millisecond
// twin under key+"_ms". Invalid timestamps are omitted entirely.
func addTimestamp(meta models.Metadata, key string, ts clickup.Timestamp) {
	if !ts.Valid {
		return
	}
	meta[key] = ts.ISO
	meta[key+"_ms"] = ts.Millis
}

// overrideTimestamp points created_at at the entity's own timestamp so
// date-range filters match the moment a comment, reply, or activity
// item happened rather than when its parent task was created.
func overrideTimestamp(extra models.Metadata, ts clickup.Timestamp) {
	addTimestamp(extra, "created_at", ts)
}

func appendDiscussion(b *strings.Builder, rendered string) {
	if b.Len() > 0 {
		b.WriteString(discussionSeparator)
	}
	b.WriteString(rendered)
}

// assigneeNames extracts display names, skipping blanks.
func assigneeNames(assignees []models.Assignee) []string {
	var names []string
	for _, a := range assignees {
		if strings.TrimSpace(a.Username) != "" {
			names = append(names, a.Username)
		}
	}
	return names
}

func tagNames(tags []models.Tag) []string {
	var names []string
	for _, t := range tags {
		if strings.TrimSpace(t.Name) != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

// priorityLabel coerces the priority union to a lowercase string or
// "none" when absent.
func priorityLabel(p *models.Priority) string {
	if p == nil {
		return "none"
	}
	return p.String()
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return lowered
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func dateLabel(ts clickup.Timestamp) string {
	if !ts.Valid {
		return "None"
	}
	return ts.ISO
}

func userLabel(user string) string {
	if strings.TrimSpace(user) == "" {
		return "Unknown"
	}
	return user
}

func activityLabel(activityType string) string {
	if strings.TrimSpace(activityType) == "" {
		return "update"
	}
	return activityType
}

// customFieldsLine renders name/value pairs as "name: value; ...".
// Values arrive as raw JSON of arbitrary shape and are stringified.
func customFieldsLine(fields []models.CustomField) string {
	var parts []string
	for _, f := range fields {
		if f.Name == "" || len(f.Value) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Name, rawValueString(f.Value)))
	}
	return strings.Join(parts, "; ")
}

func rawValueString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
