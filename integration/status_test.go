package integration

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{ScenarioPassed, StatusPassed},
		{ScenarioFailed, StatusFailed},
		{ScenarioSkipped, StatusSkipped},
		{ScenarioPending, StatusSkipped},
		{ScenarioUndefined, StatusFailed},
		{ScenarioAmbiguous, StatusFailed},
		{"passed", StatusPassed},
		{"", StatusFailed},
		{"BROKEN", StatusFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapStatus(tt.in), tt.in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 500))
	assert.Len(t, Truncate(strings.Repeat("x", 501), 500), 500)
	assert.Equal(t, "héé", Truncate("héééé", 3))
}

func TestID_UnmarshalJSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"run-1","b":42,"c":null}`), &v))
	assert.Equal(t, ID("run-1"), v.A)
	assert.Equal(t, ID("42"), v.B)
	assert.Equal(t, ID(""), v.C)
}

func TestPipelineRunResponse_RunID(t *testing.T) {
	var nested PipelineRunResponse
	require.NoError(t, json.Unmarshal([]byte(`{"pipeline_run":{"run_id":"abc"},"id":"top"}`), &nested))
	assert.Equal(t, ID("abc"), nested.RunID())

	var top PipelineRunResponse
	require.NoError(t, json.Unmarshal([]byte(`{"id":"top"}`), &top))
	assert.Equal(t, ID("top"), top.RunID())

	var nilResp *PipelineRunResponse
	assert.Equal(t, ID(""), nilResp.RunID())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]TestCaseRecord{
		{Status: StatusPassed},
		{Status: StatusPassed},
		{Status: StatusSkipped},
	})
	assert.Equal(t, RunSummary{Status: StatusPassed, Total: 3, Passed: 2, Skipped: 1}, s)

	s = Summarize(nil)
	assert.Equal(t, RunSummary{Status: StatusPassed}, s)
}
