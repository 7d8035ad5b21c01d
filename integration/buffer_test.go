package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBuffer_ClearCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results", ".test-cases.json")
	b := NewFileBuffer(path)

	require.NoError(t, b.Clear())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestFileBuffer_AppendAndReadAll(t *testing.T) {
	b := NewFileBuffer(filepath.Join(t.TempDir(), ".test-cases.json"))

	require.NoError(t, b.Append(TestCaseRecord{TestID: "1", Name: "a", Status: StatusPassed, Duration: 1.5}))
	require.NoError(t, b.Append(TestCaseRecord{TestID: "2", Name: "b", Status: StatusFailed, Duration: 0.25}))

	records, err := b.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []TestCaseRecord{
		{TestID: "1", Name: "a", Status: StatusPassed, Duration: 1.5},
		{TestID: "2", Name: "b", Status: StatusFailed, Duration: 0.25},
	}, records)
}

func TestFileBuffer_SharedBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".test-cases.json")
	first := NewFileBuffer(path)
	second := NewFileBuffer(path)

	require.NoError(t, first.Clear())
	require.NoError(t, first.Append(TestCaseRecord{Name: "a", Status: StatusPassed}))
	require.NoError(t, second.Append(TestCaseRecord{Name: "b", Status: StatusSkipped}))

	records, err := first.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFileBuffer_ClearEmptiesExisting(t *testing.T) {
	b := NewFileBuffer(filepath.Join(t.TempDir(), ".test-cases.json"))
	require.NoError(t, b.Append(TestCaseRecord{Name: "a", Status: StatusPassed}))

	require.NoError(t, b.Clear())

	records, err := b.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileBuffer_ReadAllMissing(t *testing.T) {
	b := NewFileBuffer(filepath.Join(t.TempDir(), "absent.json"))

	records, err := b.ReadAll()
	assert.Error(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFileBuffer_ReadAllCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".test-cases.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	b := NewFileBuffer(path)

	records, err := b.ReadAll()
	assert.Error(t, err)
	assert.Empty(t, records)

	assert.Error(t, b.Append(TestCaseRecord{Name: "a"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestMemoryBuffer(t *testing.T) {
	b := NewMemoryBuffer()
	require.NoError(t, b.Append(TestCaseRecord{Name: "a"}))

	records, err := b.ReadAll()
	require.NoError(t, err)
	records[0].Name = "mutated"

	again, err := b.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Name)

	require.NoError(t, b.Clear())
	again, err = b.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, again)
}
