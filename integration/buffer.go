package integration

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
)

// Buffer is the local, ordered store of scenario outcomes for one run.
// Final counts are recomputed from it, not from in-memory tallies.
type Buffer interface {
	Clear() error
	Append(rec TestCaseRecord) error
	ReadAll() ([]TestCaseRecord, error)
}

// FileBuffer keeps records as a JSON array on disk so that several
// processes of one suite run can share it. Append is read-modify-write
// without file locking: concurrent writers may lose records.
type FileBuffer struct {
	Path string
}

func NewFileBuffer(path string) *FileBuffer {
	return &FileBuffer{Path: path}
}

func (b *FileBuffer) Clear() error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return errors.Wrapf(err, "create results dir for %s", b.Path)
	}
	return b.write([]TestCaseRecord{})
}

func (b *FileBuffer) Append(rec TestCaseRecord) error {
	records, err := b.ReadAll()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	records = append(records, rec)
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return errors.Wrapf(err, "create results dir for %s", b.Path)
	}
	return b.write(records)
}

// ReadAll returns an empty slice together with the error when the file is
// missing or cannot be decoded.
func (b *FileBuffer) ReadAll() ([]TestCaseRecord, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		return []TestCaseRecord{}, errors.Wrapf(err, "read %s", b.Path)
	}
	var records []TestCaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return []TestCaseRecord{}, errors.Wrapf(err, "decode %s", b.Path)
	}
	if records == nil {
		records = []TestCaseRecord{}
	}
	return records, nil
}

func (b *FileBuffer) write(records []TestCaseRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode test cases")
	}
	if err := os.WriteFile(b.Path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", b.Path)
	}
	return nil
}

// MemoryBuffer is a process-local Buffer.
type MemoryBuffer struct {
	mu      sync.Mutex
	records []TestCaseRecord
}

func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{}
}

func (b *MemoryBuffer) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
	return nil
}

func (b *MemoryBuffer) Append(rec TestCaseRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, rec)
	return nil
}

func (b *MemoryBuffer) ReadAll() ([]TestCaseRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]TestCaseRecord, len(b.records))
	copy(out, b.records)
	return out, nil
}
