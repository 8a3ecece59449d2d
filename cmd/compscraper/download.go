package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"compscraper/pkg/catalog"
	"compscraper/pkg/config"
	"compscraper/pkg/logger"
	"compscraper/pkg/progress"
	"compscraper/pkg/scraper"
	"compscraper/pkg/storage"
	"compscraper/pkg/ui"
)

var retryFailed bool

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download every catalogued component not yet downloaded",
	Long: `Visit each component in the catalog and write its annotated source
file and preview screenshot under the output directory.

Progress is saved after every component, so an interrupted run picks up
where it left off. Components recorded as completed or failed are skipped;
pass --retry-failed to requeue the failed ones.

Requires a non-empty catalog; run discover first.`,
	Example: `  # Download everything still missing
  compscraper download

  # Requeue components that failed in earlier runs
  compscraper download --retry-failed`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "clear the failed set and retry those components")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session := newSession(cfg)
	defer closeSession(cmd, session)

	return download(cmd, cfg, session)
}

func download(cmd *cobra.Command, cfg *config.Config, session scraper.Automation) error {
	writer, err := storage.NewWriter(cfg.Output.BaseDirectory)
	if err != nil {
		return err
	}

	dl := scraper.NewDownloader(
		cfg,
		session,
		catalog.NewFileRepository(cfg.CatalogPath()),
		progress.NewFileRepository(cfg.ProgressPath()),
		writer,
		logger.GetLogger(),
	)
	dl.SetRetryFailed(retryFailed)

	summary, err := dl.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	ui.PrintSuccess(fmt.Sprintf("Done: %d completed, %d failed, %d skipped",
		summary.Completed, summary.Failed, summary.Skipped))
	return nil
}
