// Package rag implements the query path: extracting a structured
// filter from a natural-language question, retrieving matching
// documents from the vector index, and synthesizing a grounded answer.
package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/andrew/clickup-rag/pkg/llm"
	"github.com/andrew/clickup-rag/pkg/models"
)

const extractPromptTemplate = `Extract search filters from the user's question about tasks.

Today's date: %s
The user's local week starts on Monday.

Return ONLY a JSON object. Allowed keys, all optional:
- "assignees": list of person names mentioned
- "project": project or folder name mentioned
- "task_name": specific task name mentioned
- "status": task status mentioned (e.g. "open", "complete")
- "date_range": object with "start" and "end" in YYYY-MM-DDTHH:MM:SS local time

Rules:
- Resolve relative dates against today's date in local time.
- "yesterday" means the full previous day: start at 00:00:00, end at 23:59:59.
- "this week" means Monday 00:00:00 through Sunday 23:59:59 of the current week.
- Omit every key the question does not mention. Return {} if nothing applies.
- Do not add keys that are not listed above.

Question: %s`

// ExtractFilters asks the language model to turn a question into a
// structured filter. Output the model produces that is not valid JSON
// degrades to an empty filter; extraction never fails the query.
func ExtractFilters(ctx context.Context, client llm.Client, question string, now time.Time) models.QueryFilter {
	prompt := fmt.Sprintf(extractPromptTemplate, now.Format("2006-01-02"), question)

	response, err := client.Chat(ctx, []models.Message{
		{Role: models.RoleSystem, Content: "You extract structured search filters from questions. You respond with JSON only."},
		{Role: models.RoleUser, Content: prompt},
	}, llm.ModelConfig{Temperature: 0})
	if err != nil {
		return models.QueryFilter{}
	}

	return ParseFilterResponse(response.Content)
}

// ParseFilterResponse decodes the model's reply into a filter. Markdown
// code fences are tolerated; anything that still fails to parse yields
// an empty filter.
func ParseFilterResponse(raw string) models.QueryFilter {
	cleaned := stripCodeFences(raw)

	var filter models.QueryFilter
	if err := json.Unmarshal([]byte(cleaned), &filter); err != nil {
		return models.QueryFilter{}
	}
	return filter
}

// stripCodeFences removes a surrounding ```json ... ``` block if present.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
