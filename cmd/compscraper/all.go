package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"compscraper/pkg/catalog"
	"compscraper/pkg/logger"
	"compscraper/pkg/scraper"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run discovery followed by download in one session",
	Long: `Run the discovery phase and then the download phase against the
freshly built catalog, reusing one automation session for both.`,
	Args: cobra.NoArgs,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(allCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session := newSession(cfg)
	defer closeSession(cmd, session)

	disc := scraper.NewDiscoverer(cfg, session, catalog.NewFileRepository(cfg.CatalogPath()), logger.GetLogger())
	if _, err := disc.Run(cmd.Context(), 0); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	return download(cmd, cfg, session)
}
