package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"compscraper/pkg/logger"
)

// Repository abstracts progress persistence so tests can substitute an
// in-memory implementation.
type Repository interface {
	Load() (*Record, error)
	Save(*Record) error
}

// FileRepository persists the progress record as a JSON document
type FileRepository struct {
	path   string
	logger logger.Logger
}

// NewFileRepository creates a file-backed progress repository
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path:   path,
		logger: logger.GetLogger(),
	}
}

// Load reads the progress document. A missing or unreadable file yields a
// fresh empty record rather than an error.
func (r *FileRepository) Load() (*Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.WarnWithFields("progress unreadable, starting fresh", map[string]interface{}{
				"path":  r.path,
				"error": err.Error(),
			})
		}
		return New(), nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		r.logger.WarnWithFields("progress malformed, starting fresh", map[string]interface{}{
			"path":  r.path,
			"error": err.Error(),
		})
		return New(), nil
	}

	if record.Completed == nil {
		record.Completed = []string{}
	}
	if record.Failed == nil {
		record.Failed = []string{}
	}

	return &record, nil
}

// Save persists the record atomically, stamping LastUpdated with the
// current time before writing.
func (r *FileRepository) Save(record *Record) error {
	record.LastUpdated = time.Now()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create progress directory: %w", err)
		}
	}

	tempPath := r.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary progress file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync progress file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close progress file: %w", err)
	}

	if err := os.Rename(tempPath, r.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace progress file: %w", err)
	}

	r.logger.DebugWithFields("progress saved", map[string]interface{}{
		"path":      r.path,
		"completed": len(record.Completed),
		"failed":    len(record.Failed),
	})

	return nil
}

// MemoryRepository is an in-memory Repository for tests
type MemoryRepository struct {
	record *Record
}

// NewMemoryRepository creates an in-memory progress repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Load returns the stored record, or a fresh one if nothing was saved
func (r *MemoryRepository) Load() (*Record, error) {
	if r.record == nil {
		return New(), nil
	}
	return r.record, nil
}

// Save stores the record and stamps LastUpdated
func (r *MemoryRepository) Save(record *Record) error {
	record.LastUpdated = time.Now()
	r.record = record
	return nil
}
