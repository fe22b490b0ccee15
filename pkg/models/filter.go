package models

// DateRange bounds a query by creation time. Start and End are local
// timestamps formatted as 2006-01-02T15:04:05; either may be empty for
// a one-sided range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// QueryFilter is the structured filter extracted from a natural-language
// question. Zero-valued fields mean "no constraint"; an entirely empty
// filter compiles to match-all.
type QueryFilter struct {
	Assignees []string   `json:"assignees,omitempty"`
	Project   string     `json:"project,omitempty"`
	TaskName  string     `json:"task_name,omitempty"`
	Status    string     `json:"status,omitempty"`
	DateRange *DateRange `json:"date_range,omitempty"`
}

// IsEmpty reports whether no constraint is present.
func (f QueryFilter) IsEmpty() bool {
	return len(f.Assignees) == 0 &&
		f.Project == "" &&
		f.TaskName == "" &&
		f.Status == "" &&
		(f.DateRange == nil || (f.DateRange.Start == "" && f.DateRange.End == ""))
}
