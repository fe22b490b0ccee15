package rag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew/clickup-rag/pkg/llm"
	"github.com/andrew/clickup-rag/pkg/models"
)

// scriptedClient replies with a fixed message and records what was sent.
type scriptedClient struct {
	reply    string
	err      error
	messages []models.Message
	config   llm.ModelConfig
}

func (c *scriptedClient) Chat(_ context.Context, messages []models.Message, cfg llm.ModelConfig) (models.Message, error) {
	c.messages = messages
	c.config = cfg
	if c.err != nil {
		return models.Message{}, c.err
	}
	return models.Message{Role: models.RoleAssistant, Content: c.reply}, nil
}

func (c *scriptedClient) EmbedText(context.Context, string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (c *scriptedClient) Close() error { return nil }

func TestParseFilterResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.QueryFilter
	}{
		{
			name: "plain JSON",
			raw:  `{"assignees": ["Ali"], "project": "Marketing"}`,
			want: models.QueryFilter{Assignees: []string{"Ali"}, Project: "Marketing"},
		},
		{
			name: "fenced JSON",
			raw:  "```json\n{\"status\": \"open\"}\n```",
			want: models.QueryFilter{Status: "open"},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"task_name\": \"Fix login\"}\n```",
			want: models.QueryFilter{TaskName: "Fix login"},
		},
		{
			name: "empty object",
			raw:  "{}",
			want: models.QueryFilter{},
		},
		{
			name: "garbage degrades to empty",
			raw:  "I could not find any filters in that question.",
			want: models.QueryFilter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilterResponse(tt.raw))
		})
	}
}

func TestExtractFiltersYesterday(t *testing.T) {
	client := &scriptedClient{
		reply: `{"assignees": ["Ali"], "date_range": {"start": "2025-07-24T00:00:00", "end": "2025-07-24T23:59:59"}}`,
	}
	now := time.Date(2025, 7, 25, 10, 30, 0, 0, time.Local)

	filter := ExtractFilters(context.Background(), client, "What did Ali do yesterday?", now)

	assert.Equal(t, []string{"Ali"}, filter.Assignees)
	require.NotNil(t, filter.DateRange)
	assert.Equal(t, "2025-07-24T00:00:00", filter.DateRange.Start)
	assert.Equal(t, "2025-07-24T23:59:59", filter.DateRange.End)
}

func TestExtractFiltersPrompt(t *testing.T) {
	client := &scriptedClient{reply: "{}"}
	now := time.Date(2025, 7, 25, 10, 30, 0, 0, time.Local)

	ExtractFilters(context.Background(), client, "anything open?", now)

	require.Len(t, client.messages, 2)
	assert.Equal(t, models.RoleSystem, client.messages[0].Role)
	assert.Contains(t, client.messages[1].Content, "Today's date: 2025-07-25")
	assert.Contains(t, client.messages[1].Content, "Question: anything open?")
	assert.Zero(t, client.config.Temperature)
}

func TestExtractFiltersClientError(t *testing.T) {
	client := &scriptedClient{err: errors.New("model unavailable")}

	filter := ExtractFilters(context.Background(), client, "what's up?", time.Now())

	assert.True(t, filter.IsEmpty())
}
