package scraper

import (
	"context"
	"fmt"
	"time"

	"compscraper/pkg/catalog"
	"compscraper/pkg/classify"
	"compscraper/pkg/config"
	"compscraper/pkg/extract"
	"compscraper/pkg/logger"
	"compscraper/pkg/naming"
	"compscraper/pkg/ratelimit"
	"compscraper/pkg/ui"
)

// Discoverer walks the gallery listing page by page and builds the catalog.
// Page-level failures are logged and skipped; the catalog keeps whatever the
// good pages yielded.
type Discoverer struct {
	auto     Automation
	catalogs catalog.Repository
	cfg      *config.Config
	limiter  ratelimit.Limiter
	sleep    func(time.Duration)
	logger   logger.Logger
}

// NewDiscoverer creates a discoverer that persists through the given
// catalog repository.
func NewDiscoverer(cfg *config.Config, auto Automation, catalogs catalog.Repository, log logger.Logger) *Discoverer {
	return &Discoverer{
		auto:     auto,
		catalogs: catalogs,
		cfg:      cfg,
		limiter:  ratelimit.NewFixedInterval(cfg.Pacing.RateLimitDelay),
		sleep:    time.Sleep,
		logger:   log,
	}
}

// Run paginates through up to maxPages listing pages, extracts component
// names from each, and saves the resulting catalog. A page that fails to
// extract or parse is skipped; only the initial navigation is fatal.
func (d *Discoverer) Run(ctx context.Context, maxPages int) (*catalog.Catalog, error) {
	if maxPages <= 0 {
		maxPages = d.cfg.Discovery.MaxPages
	}

	d.logger.WithFields(map[string]interface{}{
		"url":       d.cfg.Gallery.ListingURL,
		"max_pages": maxPages,
	}).Info("Starting discovery")

	if err := d.auto.Navigate(ctx, d.cfg.Gallery.ListingURL); err != nil {
		return nil, fmt.Errorf("navigating to listing page: %w", err)
	}
	d.sleep(d.cfg.Pacing.SettleDelay)

	d.logCategories(ctx)

	cat := catalog.New()
	for page := 1; page <= maxPages; page++ {
		names, err := d.extractPage(ctx)
		if err != nil {
			d.logger.WithError(err).WithField("page", page).Warn("Skipping page")
		} else {
			for _, name := range names {
				slug := naming.ToSlug(name)
				category, subcategory := classify.Classify(name)
				cat.Append(catalog.Component{
					Name:        name,
					Slug:        slug,
					Category:    category,
					Subcategory: subcategory,
					URL:         d.cfg.ComponentURL(slug),
				})
			}
			ui.PrintInfo(fmt.Sprintf("Page %d", page), fmt.Sprintf("%d components", len(names)))
		}

		if page == maxPages {
			break
		}
		if err := d.auto.Act(ctx, "click the next page button in the pagination controls"); err != nil {
			d.logger.WithError(err).WithField("page", page).Warn("Could not advance to next page")
		}
		d.limiter.Wait()
		d.sleep(d.cfg.Pacing.SettleDelay)
	}

	if err := d.catalogs.Save(cat); err != nil {
		return nil, fmt.Errorf("saving catalog: %w", err)
	}

	d.logger.WithField("total", cat.Len()).Info("Discovery complete")
	ui.PrintSuccess(fmt.Sprintf("Discovered %d components", cat.Len()))
	return cat, nil
}

// logCategories records the sidebar taxonomy for operator visibility. The
// result is informational only; classification uses the rule table.
func (d *Discoverer) logCategories(ctx context.Context) {
	schema := map[string]interface{}{
		"categories": []interface{}{
			map[string]interface{}{"name": "", "subcategories": []string{}},
		},
	}
	msg, err := d.auto.Extract(ctx, "list the category and subcategory names shown in the sidebar", schema)
	if err != nil {
		d.logger.WithError(err).Warn("Sidebar category extraction failed")
		return
	}
	d.logger.WithField("categories", msg).Debug("Sidebar categories")
}

func (d *Discoverer) extractPage(ctx context.Context) ([]string, error) {
	schema := map[string]interface{}{
		"components": []interface{}{
			map[string]interface{}{"name": ""},
		},
	}
	msg, err := d.auto.Extract(ctx, "list the name of every component card visible on this page", schema)
	if err != nil {
		return nil, err
	}

	result := extract.ComponentList(msg)
	if result.Source == extract.Unparseable {
		return nil, fmt.Errorf("no component names found in extraction output")
	}
	d.logger.WithFields(map[string]interface{}{
		"source": result.Source.String(),
		"count":  len(result.Names),
	}).Debug("Parsed component list")
	return result.Names, nil
}
