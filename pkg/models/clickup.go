package models

import (
	"encoding/json"
	"strings"
)

// Team is a ClickUp workspace.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Space belongs to a team.
type Space struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Folder groups lists inside a space. Lists may also live directly in a
// space ("folderless").
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List holds tasks.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Status is the task status taxonomy value as ClickUp serializes it.
type Status struct {
	Status string `json:"status"`
}

// Priority is the task priority. ClickUp serializes it either as a bare
// string or as an object with a nested "priority" field, so it is
// decoded once here and downstream code only ever sees the normalized
// value.
type Priority struct {
	Value string
}

// UnmarshalJSON accepts "high", {"priority": "high"}, or null.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Value = s
		return nil
	}

	var obj struct {
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		p.Value = obj.Priority
		return nil
	}

	// Unknown shape is treated as no priority, not an error.
	p.Value = ""
	return nil
}

// String returns the lowercase priority value, or "none" when absent.
func (p Priority) String() string {
	v := strings.ToLower(strings.TrimSpace(p.Value))
	if v == "" {
		return "none"
	}
	return v
}

// Assignee is a user assigned to a task.
type Assignee struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
}

// Tag is a task label.
type Tag struct {
	Name string `json:"name"`
}

// CustomField is a name/value pair attached to a task. Values can be
// arbitrarily shaped, so they are kept raw and stringified when
// rendered.
type CustomField struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// Task is a single ClickUp task as returned by the list-tasks endpoint.
// Timestamps are ClickUp-native millisecond strings.
type Task struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Status       Status        `json:"status"`
	Priority     *Priority     `json:"priority"`
	DueDate      string        `json:"due_date"`
	DateCreated  string        `json:"date_created"`
	DateUpdated  string        `json:"date_updated"`
	Assignees    []Assignee    `json:"assignees"`
	Tags         []Tag         `json:"tags"`
	CustomFields []CustomField `json:"custom_fields"`
}

// Reply is a threaded response under a comment. Replies carry no
// identifier of their own.
type Reply struct {
	Text string `json:"comment_text"`
	User string `json:"-"`
	Date string `json:"date"`
}

// UnmarshalJSON pulls the author username out of the nested user object.
func (r *Reply) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text string `json:"comment_text"`
		Date string `json:"date"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Text = raw.Text
	r.Date = raw.Date
	r.User = raw.User.Username
	return nil
}

// Comment belongs to exactly one task.
type Comment struct {
	ID      string  `json:"id"`
	Text    string  `json:"comment_text"`
	User    string  `json:"-"`
	Date    string  `json:"date"`
	Replies []Reply `json:"-"`
}

// UnmarshalJSON pulls the author username out of the nested user object.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   string `json:"id"`
		Text string `json:"comment_text"`
		Date string `json:"date"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.Text = raw.Text
	c.Date = raw.Date
	c.User = raw.User.Username
	return nil
}

// ActivityItem is one entry of a task's activity feed, e.g. a status
// change.
type ActivityItem struct {
	Type string `json:"type"`
	Text string `json:"text_content"`
	User string `json:"-"`
	Date string `json:"date"`
}

// UnmarshalJSON pulls the actor username out of the nested user object.
func (a *ActivityItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type string `json:"type"`
		Text string `json:"text_content"`
		Date string `json:"date"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Type = raw.Type
	a.Text = raw.Text
	a.Date = raw.Date
	a.User = raw.User.Username
	return nil
}

// NamespaceInfo describes one team+space pair and the vector index
// partition that stores its documents.
type NamespaceInfo struct {
	TeamID    string
	TeamName  string
	SpaceID   string
	SpaceName string
	Namespace string
}
