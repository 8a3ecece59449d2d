package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compscraper/pkg/catalog"
	"compscraper/pkg/config"
	"compscraper/pkg/logger"
	"compscraper/pkg/progress"
	"compscraper/pkg/storage"
)

// mockAutomation scripts the collaborator: listing pages are slices of
// component names, detail pages serve code and metadata keyed by slug.
type mockAutomation struct {
	t *testing.T

	pages       [][]string
	failPages   map[int]bool
	failCodeFor map[string]bool
	codeFor     map[string]string
	metadataFor map[string]string
	shotDir     string

	page        int
	currentSlug string

	navigations []string
	acts        []string
	extracts    []string
	screenshots int
	closed      bool
}

func newMockAutomation(t *testing.T) *mockAutomation {
	return &mockAutomation{
		t:           t,
		failPages:   map[int]bool{},
		failCodeFor: map[string]bool{},
		codeFor:     map[string]string{},
		metadataFor: map[string]string{},
		shotDir:     t.TempDir(),
	}
}

func (m *mockAutomation) Navigate(ctx context.Context, url string) error {
	m.navigations = append(m.navigations, url)
	m.currentSlug = url[strings.LastIndex(url, "/")+1:]
	return nil
}

func (m *mockAutomation) Act(ctx context.Context, instruction string) error {
	m.acts = append(m.acts, instruction)
	if strings.Contains(instruction, "next page") {
		m.page++
	}
	return nil
}

func (m *mockAutomation) Extract(ctx context.Context, instruction string, schema map[string]interface{}) (string, error) {
	m.extracts = append(m.extracts, instruction)

	switch {
	case strings.Contains(instruction, "sidebar"):
		return `{"categories": [{"name": "Marketing", "subcategories": ["Navbars"]}]}`, nil

	case strings.Contains(instruction, "component card"):
		if m.failPages[m.page+1] {
			return "", fmt.Errorf("extraction timed out")
		}
		if m.page >= len(m.pages) {
			return `{"components": []}`, nil
		}
		names := make([]string, len(m.pages[m.page]))
		for i, n := range m.pages[m.page] {
			names[i] = fmt.Sprintf(`{"name": %q}`, n)
		}
		return fmt.Sprintf(`Here are the components: {"components": [%s]}`, strings.Join(names, ", ")), nil

	case strings.Contains(instruction, "source code"):
		if m.failCodeFor[m.currentSlug] {
			return "", fmt.Errorf("code panel never rendered")
		}
		code := m.codeFor[m.currentSlug]
		if code == "" {
			code = "export default function Component() { return null }\n"
		}
		return fmt.Sprintf(`{"code": %q}`, code), nil

	case strings.Contains(instruction, "details panel"):
		if meta := m.metadataFor[m.currentSlug]; meta != "" {
			return meta, nil
		}
		return `{"category": "", "lastUpdated": "", "reactVersion": "", "tailwindVersion": ""}`, nil

	default:
		m.t.Fatalf("unexpected extract instruction: %s", instruction)
		return "", nil
	}
}

func (m *mockAutomation) Screenshot(ctx context.Context) (string, error) {
	m.screenshots++
	path := filepath.Join(m.shotDir, fmt.Sprintf("shot-%d.png", m.screenshots))
	if err := os.WriteFile(path, []byte("png-bytes"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (m *mockAutomation) Close(ctx context.Context) error {
	m.closed = true
	return nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Gallery.ListingURL = "https://gallery.test/components"
	cfg.Gallery.ComponentURLTemplate = "https://gallery.test/components/{slug}"
	cfg.Output.BaseDirectory = t.TempDir()
	cfg.Pacing.SettleDelay = 0
	cfg.Pacing.CodeSettleDelay = 0
	cfg.Pacing.PreviewSettleDelay = 0
	cfg.Pacing.RateLimitDelay = 0
	return cfg
}

func seedCatalog(t *testing.T, repo catalog.Repository, names ...string) *catalog.Catalog {
	t.Helper()
	cat := catalog.New()
	for _, name := range names {
		slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))
		cat.Append(catalog.Component{
			Name: name,
			Slug: slug,
			URL:  "https://gallery.test/components/" + slug,
		})
	}
	require.NoError(t, repo.Save(cat))
	return cat
}

func TestDiscovererBuildsCatalog(t *testing.T) {
	cfg := testConfig(t)
	auto := newMockAutomation(t)
	auto.pages = [][]string{
		{"Navbar 1", "Pricing Table 2"},
		{"Sidebar 3"},
	}
	repo := catalog.NewMemoryRepository()

	disc := NewDiscoverer(cfg, auto, repo, logger.NewTestLogger())
	cat, err := disc.Run(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())

	assert.Equal(t, "Navbar 1", cat.Components[0].Name)
	assert.Equal(t, "navbar-1", cat.Components[0].Slug)
	assert.Equal(t, "Marketing", cat.Components[0].Category)
	assert.Equal(t, "Navbars", cat.Components[0].Subcategory)
	assert.Equal(t, "https://gallery.test/components/navbar-1", cat.Components[0].URL)

	assert.Equal(t, "pricing-table-2", cat.Components[1].Slug)
	assert.Equal(t, "Pricing", cat.Components[1].Subcategory)
	assert.Equal(t, "sidebar-3", cat.Components[2].Slug)
	assert.Equal(t, "Application", cat.Components[2].Category)

	saved, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, saved.TotalComponents)

	// One initial navigation, one page advance between the two pages.
	assert.Equal(t, []string{"https://gallery.test/components"}, auto.navigations)
	require.Len(t, auto.acts, 1)
	assert.Contains(t, auto.acts[0], "next page")
}

func TestDiscovererSkipsFailedPage(t *testing.T) {
	cfg := testConfig(t)
	auto := newMockAutomation(t)
	auto.pages = [][]string{{"Navbar 1"}, {"Hero 2"}, {"Footer 3"}}
	auto.failPages[2] = true
	repo := catalog.NewMemoryRepository()

	disc := NewDiscoverer(cfg, auto, repo, logger.NewTestLogger())
	cat, err := disc.Run(context.Background(), 3)
	require.NoError(t, err)

	slugs := make([]string, 0, cat.Len())
	for _, c := range cat.Components {
		slugs = append(slugs, c.Slug)
	}
	assert.Equal(t, []string{"navbar-1", "footer-3"}, slugs)

	saved, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, saved.TotalComponents)
}

func TestDiscovererUnparseablePage(t *testing.T) {
	cfg := testConfig(t)
	auto := newMockAutomation(t)
	auto.pages = [][]string{{}}
	repo := catalog.NewMemoryRepository()

	disc := NewDiscoverer(cfg, auto, repo, logger.NewTestLogger())
	cat, err := disc.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

func newTestDownloader(t *testing.T, cfg *config.Config, auto Automation, cats catalog.Repository, recs progress.Repository) *Downloader {
	t.Helper()
	writer, err := storage.NewWriter(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	return NewDownloader(cfg, auto, cats, recs, writer, logger.NewTestLogger())
}

func TestDownloaderEmptyCatalog(t *testing.T) {
	cfg := testConfig(t)
	dl := newTestDownloader(t, cfg, newMockAutomation(t), catalog.NewMemoryRepository(), progress.NewMemoryRepository())

	_, err := dl.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no components in catalog")
}

func TestDownloaderWritesArtifacts(t *testing.T) {
	cfg := testConfig(t)
	auto := newMockAutomation(t)
	auto.codeFor["navbar-1"] = "export default function Navbar() { return <nav /> }\n"
	auto.metadataFor["navbar-1"] = `{"category": "Marketing", "lastUpdated": "2024-01-01", "reactVersion": "18", "tailwindVersion": "3"}`

	cats := catalog.NewMemoryRepository()
	cat := catalog.New()
	cat.Append(catalog.Component{
		Name:        "Navbar 1",
		Slug:        "navbar-1",
		Category:    "Marketing",
		Subcategory: "Navbars",
		URL:         "https://gallery.test/components/navbar-1",
	})
	require.NoError(t, cats.Save(cat))
	recs := progress.NewMemoryRepository()

	dl := newTestDownloader(t, cfg, auto, cats, recs)
	summary, err := dl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Completed: 1}, summary)

	dir := filepath.Join(cfg.Output.BaseDirectory, "components", "marketing", "navbars")
	source, err := os.ReadFile(filepath.Join(dir, "Navbar1.tsx"))
	require.NoError(t, err)

	expected := `/*
 * Navbar 1
 *
 * @source https://gallery.test/components/navbar-1
 * @category Marketing
 * @subcategory Navbars
 * @react 18
 * @tailwind 3
 * @updated 2024-01-01
 */

export default function Navbar() { return <nav /> }
`
	assert.Equal(t, expected, string(source))

	preview, err := os.ReadFile(filepath.Join(dir, "Navbar1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(preview))

	record, err := recs.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"navbar-1"}, record.Completed)
	assert.Empty(t, record.Failed)
}

func TestDownloaderFaultIsolation(t *testing.T) {
	cfg := testConfig(t)
	auto := newMockAutomation(t)
	auto.failCodeFor["card-2"] = true

	cats := catalog.NewMemoryRepository()
	cat := catalog.New()
	for _, name := range []string{"Card 1", "Card 2", "Card 3"} {
		slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		cat.Append(catalog.Component{
			Name:        name,
			Slug:        slug,
			Category:    "Application",
			Subcategory: "Cards",
			URL:         "https://gallery.test/components/" + slug,
		})
	}
	require.NoError(t, cats.Save(cat))
	recs := progress.NewMemoryRepository()

	dl := newTestDownloader(t, cfg, auto, cats, recs)
	summary, err := dl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 1, summary.Failed)

	record, err := recs.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"card-1", "card-3"}, record.Completed)
	assert.Equal(t, []string{"card-2"}, record.Failed)

	dir := filepath.Join(cfg.Output.BaseDirectory, "components", "application", "cards")
	for _, base := range []string{"Card1", "Card3"} {
		assert.FileExists(t, filepath.Join(dir, base+".tsx"))
		assert.FileExists(t, filepath.Join(dir, base+".png"))
	}
	assert.NoFileExists(t, filepath.Join(dir, "Card2.tsx"))
	assert.NoFileExists(t, filepath.Join(dir, "Card2.png"))
}

func TestDownloaderResumeIdempotence(t *testing.T) {
	cfg := testConfig(t)
	cats := catalog.NewMemoryRepository()
	cat := catalog.New()
	for _, slug := range []string{"navbar-1", "hero-2", "footer-3"} {
		cat.Append(catalog.Component{
			Name:        slug,
			Slug:        slug,
			Category:    "Marketing",
			Subcategory: "Misc",
			URL:         "https://gallery.test/components/" + slug,
		})
	}
	require.NoError(t, cats.Save(cat))
	recs := progress.NewMemoryRepository()

	first := newMockAutomation(t)
	summary, err := newTestDownloader(t, cfg, first, cats, recs).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, summary.Completed)

	// Second run against the same progress record touches nothing.
	second := newMockAutomation(t)
	summary, err = newTestDownloader(t, cfg, second, cats, recs).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 3}, summary)
	assert.Empty(t, second.navigations)
	assert.Empty(t, second.extracts)
	assert.Zero(t, second.screenshots)

	record, err := recs.Load()
	require.NoError(t, err)
	assert.Len(t, record.Completed, 3)
}

func TestDownloaderRetryFailed(t *testing.T) {
	cfg := testConfig(t)
	cats := catalog.NewMemoryRepository()
	cat := catalog.New()
	cat.Append(catalog.Component{
		Name: "Navbar 1", Slug: "navbar-1",
		Category: "Marketing", Subcategory: "Navbars",
		URL: "https://gallery.test/components/navbar-1",
	})
	require.NoError(t, cats.Save(cat))

	recs := progress.NewMemoryRepository()
	record := progress.New()
	record.MarkFailed("navbar-1")
	require.NoError(t, recs.Save(record))

	// Without the retry flag the failed slug stays skipped.
	auto := newMockAutomation(t)
	summary, err := newTestDownloader(t, cfg, auto, cats, recs).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 1}, summary)
	assert.Empty(t, auto.navigations)

	// With it, the slug is requeued and downloads.
	auto = newMockAutomation(t)
	dl := newTestDownloader(t, cfg, auto, cats, recs)
	dl.SetRetryFailed(true)
	summary, err = dl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Completed)

	record, err = recs.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"navbar-1"}, record.Completed)
	assert.Empty(t, record.Failed)
}

func TestDownloaderCancelledContext(t *testing.T) {
	cfg := testConfig(t)
	cats := catalog.NewMemoryRepository()
	seedCatalog(t, cats, "Navbar 1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dl := newTestDownloader(t, cfg, newMockAutomation(t), cats, progress.NewMemoryRepository())
	_, err := dl.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
