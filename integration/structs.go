package integration

import (
	"bytes"
	"encoding/json"
	"time"
)

// Status values understood by the tracking API.
const (
	StatusRunning = "running"
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// TimeLayout is ISO-8601 in UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ID is an identifier issued by the tracking API. The API is not consistent
// about its type, so both JSON strings and numbers are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type PipelineRunPayload struct {
	Name        string `json:"name"`
	RepoName    string `json:"repo_name"`
	Environment string `json:"environment"`
	Org         string `json:"org"`
	CreatedBy   string `json:"created_by"`
	BuildNumber int    `json:"build_number"`
	Status      string `json:"status"`
	Branch      string `json:"branch"`
	TriggeredBy string `json:"triggered_by"`
	StartTime   string `json:"start_time"`
	TotalTests  int    `json:"total_tests"`
	Passed      int    `json:"passed"`
	Failed      int    `json:"failed"`
	Aborted     int    `json:"aborted"`
	Framework   string `json:"framework"`
	Browser     string `json:"browser"`
}

// PipelineRunResponse is the creation answer. The identifier lives either in
// pipeline_run.run_id or at the top level as id.
type PipelineRunResponse struct {
	PipelineRun *struct {
		RunID ID `json:"run_id"`
	} `json:"pipeline_run,omitempty"`
	ID ID `json:"id,omitempty"`
}

// RunID returns the nested identifier when present, the top-level one otherwise.
func (r *PipelineRunResponse) RunID() ID {
	if r == nil {
		return ""
	}
	if r.PipelineRun != nil && r.PipelineRun.RunID != "" {
		return r.PipelineRun.RunID
	}
	return r.ID
}

type TestCasePayload struct {
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	Run          ID      `json:"run"`
	Duration     float64 `json:"duration"`
	CreatedAt    string  `json:"created_at"`
	StartTime    string  `json:"start_time"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

type TestCaseResponse struct {
	TestID ID `json:"test_id"`
}

type PipelineRunUpdatePayload struct {
	Status     string `json:"status"`
	EndTime    string `json:"end_time"`
	Duration   int    `json:"duration"`
	TotalTests int    `json:"total_tests"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	Aborted    int    `json:"aborted"`
}

// TestCaseRecord is one scenario outcome kept in the local buffer.
type TestCaseRecord struct {
	TestID   ID      `json:"test_id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Duration float64 `json:"duration"`
}

// RunSummary holds the final counts sent when a suite ends.
type RunSummary struct {
	RunID    ID
	Status   string
	Duration int
	Total    int
	Passed   int
	Failed   int
	Skipped  int
}

// Summarize recounts outcomes from buffered records.
func Summarize(records []TestCaseRecord) RunSummary {
	s := RunSummary{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusSkipped:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	s.Status = StatusPassed
	if s.Failed != 0 {
		s.Status = StatusFailed
	}
	return s
}
