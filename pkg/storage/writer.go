// Package storage writes the per-component output artifacts: the annotated
// source file and the preview image.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"compscraper/pkg/errors"
	"compscraper/pkg/naming"
)

// SourceInfo carries everything rendered into a component's file header.
// Empty metadata fields render as "Unknown".
type SourceInfo struct {
	Name            string
	URL             string
	Category        string
	Subcategory     string
	ReactVersion    string
	TailwindVersion string
	LastUpdated     string
}

// Writer persists component artifacts under a base output directory
type Writer struct {
	baseDir string
}

// NewWriter creates a writer rooted at baseDir, creating it if needed
func NewWriter(baseDir string) (*Writer, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Filesystem("failed to create output directory", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// BaseDir returns the output base directory
func (w *Writer) BaseDir() string {
	return w.baseDir
}

// ComponentDir returns the destination directory for a category and
// subcategory, creating it if needed. Both segments are sanitized and
// lowercased so they are always safe path elements.
func (w *Writer) ComponentDir(category, subcategory string) (string, error) {
	dir := filepath.Join(
		w.baseDir,
		"components",
		strings.ToLower(naming.SanitizePathSegment(category)),
		strings.ToLower(naming.SanitizePathSegment(subcategory)),
	)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Filesystem("failed to create component directory", err)
	}
	return dir, nil
}

// WriteSource writes the component's source file: a fixed header comment
// followed by the extracted code, in a single write.
func (w *Writer) WriteSource(dir, baseName string, info SourceInfo, code string) (string, error) {
	path := filepath.Join(dir, baseName+".tsx")
	content := renderHeader(info) + code

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.Filesystem("failed to write source file", err)
	}
	return path, nil
}

// CopyPreview copies the screenshot from its temporary path to the
// destination image path.
func (w *Writer) CopyPreview(srcPath, dir, baseName string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", errors.Filesystem("failed to open screenshot", err)
	}
	defer src.Close()

	destPath := filepath.Join(dir, baseName+".png")
	dest, err := os.Create(destPath)
	if err != nil {
		return "", errors.Filesystem("failed to create preview file", err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(destPath)
		return "", errors.Filesystem("failed to copy preview", err)
	}

	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		return "", errors.Filesystem("failed to close preview file", err)
	}

	return destPath, nil
}

func renderHeader(info SourceInfo) string {
	return fmt.Sprintf(`/*
 * %s
 *
 * @source %s
 * @category %s
 * @subcategory %s
 * @react %s
 * @tailwind %s
 * @updated %s
 */

`,
		info.Name,
		info.URL,
		info.Category,
		info.Subcategory,
		orUnknown(info.ReactVersion),
		orUnknown(info.TailwindVersion),
		orUnknown(info.LastUpdated),
	)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
