package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew/clickup-rag/pkg/models"
)

func TestCompileFilterEmpty(t *testing.T) {
	assert.Nil(t, CompileFilter(models.QueryFilter{}))
}

func TestCompileFilterAssignees(t *testing.T) {
	filter := CompileFilter(models.QueryFilter{Assignees: []string{"Ali", "Bob"}})

	require.NotNil(t, filter)
	require.Len(t, filter.Must, 1)

	field := filter.Must[0].GetField()
	require.NotNil(t, field)
	assert.Equal(t, "assignees", field.Key)

	keywords := field.Match.GetKeywords()
	require.NotNil(t, keywords)
	assert.Equal(t, []string{"ali", "bob"}, keywords.Strings)
}

func TestCompileFilterProjectAndStatus(t *testing.T) {
	filter := CompileFilter(models.QueryFilter{Project: "Marketing", Status: "In Progress"})

	require.NotNil(t, filter)
	require.Len(t, filter.Must, 2)

	byKey := map[string]string{}
	for _, cond := range filter.Must {
		field := cond.GetField()
		require.NotNil(t, field)
		byKey[field.Key] = field.Match.GetKeyword()
	}
	assert.Equal(t, "marketing", byKey["project"])
	assert.Equal(t, "in progress", byKey["status"])
}

func TestCompileFilterDateRange(t *testing.T) {
	filter := CompileFilter(models.QueryFilter{
		DateRange: &models.DateRange{
			Start: "2025-07-24T00:00:00",
			End:   "2025-07-24T23:59:59",
		},
	})

	require.NotNil(t, filter)
	require.Len(t, filter.Must, 1)

	field := filter.Must[0].GetField()
	require.NotNil(t, field)
	assert.Equal(t, "created_at_ms", field.Key)
	require.NotNil(t, field.Range)
	require.NotNil(t, field.Range.Gte)
	require.NotNil(t, field.Range.Lte)
	assert.Less(t, *field.Range.Gte, *field.Range.Lte)
}

func TestCompileFilterOneSidedDateRange(t *testing.T) {
	filter := CompileFilter(models.QueryFilter{
		DateRange: &models.DateRange{Start: "2025-07-24T00:00:00"},
	})

	require.NotNil(t, filter)
	field := filter.Must[0].GetField()
	require.NotNil(t, field.Range)
	assert.NotNil(t, field.Range.Gte)
	assert.Nil(t, field.Range.Lte)
}

func TestCompileFilterUnparseableDateRangeDropped(t *testing.T) {
	filter := CompileFilter(models.QueryFilter{
		DateRange: &models.DateRange{Start: "yesterday", End: "tomorrow"},
	})

	assert.Nil(t, filter)
}

func TestCompileFilterConjunction(t *testing.T) {
	filter := CompileFilter(models.QueryFilter{
		Assignees: []string{"ali"},
		Project:   "ops",
		Status:    "open",
		DateRange: &models.DateRange{Start: "2025-07-01T00:00:00"},
	})

	require.NotNil(t, filter)
	assert.Len(t, filter.Must, 4)
	assert.Empty(t, filter.Should)
	assert.Empty(t, filter.MustNot)
}

func TestPayloadRoundTrip(t *testing.T) {
	meta := models.Metadata{
		"task_id":       "t1",
		"priority":      "high",
		"assignees":     []string{"ali", "bob"},
		"comment_count": 3,
		"created_at_ms": 1753315200000.0,
		"archived":      false,
	}

	payload := toPayload(meta)
	back := fromPayload(payload)

	assert.Equal(t, "t1", back["task_id"])
	assert.Equal(t, "high", back["priority"])
	assert.Equal(t, false, back["archived"])
	assert.Equal(t, 1753315200000.0, back["created_at_ms"])
	assert.Equal(t, int64(3), back["comment_count"])
	assert.Equal(t, []string{"ali", "bob"}, back["assignees"])
}
