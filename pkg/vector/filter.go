package vector

import (
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/andrew/clickup-rag/pkg/clickup"
	"github.com/andrew/clickup-rag/pkg/models"
)

// dateRangeField is the canonical metadata key date-range predicates
// test against. Documents store each entity's own creation moment
// there, so "yesterday" questions match comments made yesterday.
const dateRangeField = "created_at_ms"

// CompileFilter converts a structured query filter into Qdrant's native
// predicate syntax. One condition per present key, combined
// conjunctively. An empty filter compiles to nil, which Qdrant treats
// as match-all.
func CompileFilter(f models.QueryFilter) *qdrant.Filter {
	var must []*qdrant.Condition

	if len(f.Assignees) > 0 {
		must = append(must, matchAnyCondition("assignees", lowerAll(f.Assignees)))
	}
	if f.Project != "" {
		must = append(must, matchCondition("project", strings.ToLower(f.Project)))
	}
	if f.Status != "" {
		must = append(must, matchCondition("status", strings.ToLower(f.Status)))
	}
	if cond := dateRangeCondition(f.DateRange); cond != nil {
		must = append(must, cond)
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

// matchCondition builds a keyword equality test.
func matchCondition(key, value string) *qdrant.Condition {
	return fieldCondition(&qdrant.FieldCondition{
		Key: key,
		Match: &qdrant.Match{
			MatchValue: &qdrant.Match_Keyword{Keyword: value},
		},
	})
}

// matchAnyCondition builds a set-membership test: the stored list field
// must contain at least one of the values.
func matchAnyCondition(key string, values []string) *qdrant.Condition {
	return fieldCondition(&qdrant.FieldCondition{
		Key: key,
		Match: &qdrant.Match{
			MatchValue: &qdrant.Match_Keywords{
				Keywords: &qdrant.RepeatedStrings{Strings: values},
			},
		},
	})
}

// dateRangeCondition builds a millisecond range test, one-sided when
// only one bound parses.
func dateRangeCondition(dr *models.DateRange) *qdrant.Condition {
	if dr == nil {
		return nil
	}

	r := &qdrant.Range{}
	bounded := false
	if ms, ok := clickup.ParseISO(dr.Start); ok {
		gte := float64(ms)
		r.Gte = &gte
		bounded = true
	}
	if ms, ok := clickup.ParseISO(dr.End); ok {
		lte := float64(ms)
		r.Lte = &lte
		bounded = true
	}
	if !bounded {
		return nil
	}

	return fieldCondition(&qdrant.FieldCondition{
		Key:   dateRangeField,
		Range: r,
	})
}

func fieldCondition(fc *qdrant.FieldCondition) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{Field: fc},
	}
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return lowered
}
