package scraper

import (
	"context"
	"fmt"
	"time"

	"compscraper/pkg/catalog"
	"compscraper/pkg/config"
	"compscraper/pkg/extract"
	"compscraper/pkg/logger"
	"compscraper/pkg/naming"
	"compscraper/pkg/progress"
	"compscraper/pkg/ratelimit"
	"compscraper/pkg/storage"
	"compscraper/pkg/ui"
)

// Summary reports how the items attempted in one download run resolved.
// Items skipped by resume are not counted.
type Summary struct {
	Completed int
	Failed    int
	Skipped   int
}

// Downloader visits each undownloaded catalog entry and persists its source
// file and preview image. Every item is attempted exactly once per lifetime:
// a slug in the completed or failed set is never revisited unless the failed
// set is explicitly cleared.
type Downloader struct {
	auto        Automation
	catalogs    catalog.Repository
	records     progress.Repository
	writer      *storage.Writer
	cfg         *config.Config
	limiter     ratelimit.Limiter
	sleep       func(time.Duration)
	logger      logger.Logger
	retryFailed bool
}

// NewDownloader creates a downloader writing artifacts through the given writer.
func NewDownloader(cfg *config.Config, auto Automation, catalogs catalog.Repository, records progress.Repository, writer *storage.Writer, log logger.Logger) *Downloader {
	return &Downloader{
		auto:     auto,
		catalogs: catalogs,
		records:  records,
		writer:   writer,
		cfg:      cfg,
		limiter:  ratelimit.NewFixedInterval(cfg.Pacing.RateLimitDelay),
		sleep:    time.Sleep,
		logger:   log,
	}
}

// SetRetryFailed makes the next Run clear the failed set before computing
// the remaining items, requeueing previously failed slugs.
func (d *Downloader) SetRetryFailed(retry bool) {
	d.retryFailed = retry
}

// Run downloads every catalog entry not already recorded as completed or
// failed. An item failure marks the slug failed and moves on; only an empty
// catalog or context cancellation aborts the run.
func (d *Downloader) Run(ctx context.Context) (Summary, error) {
	cat, err := d.catalogs.Load()
	if err != nil {
		return Summary{}, fmt.Errorf("loading catalog: %w", err)
	}
	if cat.Len() == 0 {
		return Summary{}, fmt.Errorf("no components in catalog; run discovery first")
	}

	record, err := d.records.Load()
	if err != nil {
		return Summary{}, fmt.Errorf("loading progress: %w", err)
	}
	if d.retryFailed && len(record.Failed) > 0 {
		d.logger.WithField("requeued", len(record.Failed)).Info("Clearing failed set")
		record.ClearFailed()
	}

	remaining := cat.Remaining(record.Seen)
	summary := Summary{Skipped: cat.Len() - len(remaining)}

	d.logger.WithFields(map[string]interface{}{
		"total":     cat.Len(),
		"remaining": len(remaining),
		"skipped":   summary.Skipped,
	}).Info("Starting download")

	for i, component := range remaining {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if i > 0 {
			d.limiter.Wait()
		}

		if err := d.downloadOne(ctx, component); err != nil {
			d.logger.WithError(err).WithField("slug", component.Slug).Error("Download failed")
			record.MarkFailed(component.Slug)
			summary.Failed++
			ui.PrintItemStatus(i+1, len(remaining), component.Slug, "failed")
		} else {
			record.MarkCompleted(component.Slug)
			summary.Completed++
			ui.PrintItemStatus(i+1, len(remaining), component.Slug, "ok")
		}

		if err := d.records.Save(record); err != nil {
			d.logger.WithError(err).Warn("Failed to save progress")
		}
	}

	d.logger.WithFields(map[string]interface{}{
		"completed": summary.Completed,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	}).Info("Download complete")
	return summary, nil
}

// downloadOne runs the full per-item sequence. Any error at any step fails
// the whole item; there are no partial artifacts recorded as success and no
// in-place retries.
func (d *Downloader) downloadOne(ctx context.Context, component catalog.Component) error {
	d.logger.WithFields(map[string]interface{}{
		"slug": component.Slug,
		"url":  component.URL,
	}).Debug("Downloading component")

	if err := d.auto.Navigate(ctx, component.URL); err != nil {
		return err
	}
	d.sleep(d.cfg.Pacing.SettleDelay)

	if err := d.auto.Act(ctx, "click the code tab or toggle to show the component source code"); err != nil {
		return err
	}
	d.sleep(d.cfg.Pacing.CodeSettleDelay)

	codeMsg, err := d.auto.Extract(ctx, "extract the complete source code shown in the code view", map[string]interface{}{"code": ""})
	if err != nil {
		return err
	}
	code, err := extract.SourceCode(codeMsg)
	if err != nil {
		return err
	}

	meta, err := d.extractMetadata(ctx)
	if err != nil {
		return err
	}

	if err := d.auto.Act(ctx, "click the preview tab to show the rendered component"); err != nil {
		return err
	}
	d.sleep(d.cfg.Pacing.PreviewSettleDelay)

	shotPath, err := d.auto.Screenshot(ctx)
	if err != nil {
		return err
	}

	dir, err := d.writer.ComponentDir(component.Category, component.Subcategory)
	if err != nil {
		return err
	}

	baseName := naming.ToDisplayForm(component.Slug)
	info := storage.SourceInfo{
		Name:            component.Name,
		URL:             component.URL,
		Category:        component.Category,
		Subcategory:     component.Subcategory,
		ReactVersion:    meta.ReactVersion,
		TailwindVersion: meta.TailwindVersion,
		LastUpdated:     meta.LastUpdated,
	}
	if _, err := d.writer.WriteSource(dir, baseName, info, code); err != nil {
		return err
	}
	if _, err := d.writer.CopyPreview(shotPath, dir, baseName); err != nil {
		return err
	}
	return nil
}

// extractMetadata reads the detail-panel fields. Individual fields may come
// back empty and render "Unknown" in the header; a failed extraction or
// parse fails the item like any other step.
func (d *Downloader) extractMetadata(ctx context.Context) (extract.Metadata, error) {
	schema := map[string]interface{}{
		"category":        "",
		"lastUpdated":     "",
		"reactVersion":    "",
		"tailwindVersion": "",
	}
	msg, err := d.auto.Extract(ctx, "extract the category, last updated date, React version and Tailwind version from the component details panel", schema)
	if err != nil {
		return extract.Metadata{}, err
	}
	return extract.DetailMetadata(msg)
}
