package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"compscraper/pkg/logger"
)

// Repository abstracts catalog persistence so tests can substitute an
// in-memory implementation.
type Repository interface {
	Load() (*Catalog, error)
	Save(*Catalog) error
}

// FileRepository persists the catalog as a JSON document
type FileRepository struct {
	path   string
	logger logger.Logger
}

// NewFileRepository creates a file-backed catalog repository
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path:   path,
		logger: logger.GetLogger(),
	}
}

// Load reads the catalog document. A missing or unreadable file yields a
// fresh empty catalog rather than an error; discovery is expected to
// overwrite it.
func (r *FileRepository) Load() (*Catalog, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.WarnWithFields("catalog unreadable, starting fresh", map[string]interface{}{
				"path":  r.path,
				"error": err.Error(),
			})
		}
		return New(), nil
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		r.logger.WarnWithFields("catalog malformed, starting fresh", map[string]interface{}{
			"path":  r.path,
			"error": err.Error(),
		})
		return New(), nil
	}

	if cat.Components == nil {
		cat.Components = []Component{}
	}

	return &cat, nil
}

// Save persists the catalog atomically, recomputing TotalComponents from
// the entry count before writing.
func (r *FileRepository) Save(cat *Catalog) error {
	cat.TotalComponents = len(cat.Components)

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	tempPath := r.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary catalog file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cat); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync catalog file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close catalog file: %w", err)
	}

	if err := os.Rename(tempPath, r.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}

	r.logger.DebugWithFields("catalog saved", map[string]interface{}{
		"path":       r.path,
		"components": cat.TotalComponents,
	})

	return nil
}

// MemoryRepository is an in-memory Repository for tests
type MemoryRepository struct {
	catalog *Catalog
}

// NewMemoryRepository creates an in-memory catalog repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Load returns the stored catalog, or a fresh one if nothing was saved
func (r *MemoryRepository) Load() (*Catalog, error) {
	if r.catalog == nil {
		return New(), nil
	}
	return r.catalog, nil
}

// Save stores the catalog, recomputing TotalComponents
func (r *MemoryRepository) Save(cat *Catalog) error {
	cat.TotalComponents = len(cat.Components)
	r.catalog = cat
	return nil
}
