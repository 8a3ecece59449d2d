package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentDir(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	dir, err := w.ComponentDir("Marketing", "Navbars")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.BaseDir(), "components", "marketing", "navbars"), dir)
	assert.DirExists(t, dir)

	// Idempotent
	again, err := w.ComponentDir("Marketing", "Navbars")
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestComponentDirSanitizesSegments(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	dir, err := w.ComponentDir("../Marketing!", "CTA Sections")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.BaseDir(), "components", "marketing", "ctasections"), dir)
}

func TestWriteSource(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	dir, err := w.ComponentDir("Marketing", "Navbars")
	require.NoError(t, err)

	info := SourceInfo{
		Name:            "Navbar 1",
		URL:             "https://example.com/components/navbar-1",
		Category:        "Marketing",
		Subcategory:     "Navbars",
		ReactVersion:    "18",
		TailwindVersion: "3",
		LastUpdated:     "2024-01-01",
	}
	code := "export default function Navbar1(){}"

	path, err := w.WriteSource(dir, "Navbar1", info, code)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Navbar1.tsx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "@source https://example.com/components/navbar-1")
	assert.Contains(t, content, "@category Marketing")
	assert.Contains(t, content, "@subcategory Navbars")
	assert.Contains(t, content, "@react 18")
	assert.Contains(t, content, "@tailwind 3")
	assert.Contains(t, content, "@updated 2024-01-01")
	assert.True(t, len(content) > len(code))
	assert.Contains(t, content, code)
}

func TestWriteSourceMissingMetadataRendersUnknown(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	dir, err := w.ComponentDir("Unknown", "Widget")
	require.NoError(t, err)

	path, err := w.WriteSource(dir, "Widget5", SourceInfo{Name: "Widget 5"}, "code")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@react Unknown")
	assert.Contains(t, string(data), "@tailwind Unknown")
	assert.Contains(t, string(data), "@updated Unknown")
}

func TestCopyPreview(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	dir, err := w.ComponentDir("Marketing", "Navbars")
	require.NoError(t, err)

	tmp := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(tmp, []byte("png-bytes"), 0644))

	path, err := w.CopyPreview(tmp, dir, "Navbar1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Navbar1.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestCopyPreviewMissingSource(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	dir, err := w.ComponentDir("Marketing", "Navbars")
	require.NoError(t, err)

	_, err = w.CopyPreview(filepath.Join(t.TempDir(), "missing.png"), dir, "Navbar1")
	assert.Error(t, err)
}
