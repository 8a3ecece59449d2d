package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"compscraper/pkg/catalog"
	"compscraper/pkg/logger"
	"compscraper/pkg/scraper"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [maxPages]",
	Short: "Paginate the gallery listing and build the component catalog",
	Long: `Walk the gallery listing page by page, extract the component names
from each page, and write the resulting catalog to the catalog file.

Pages that fail to load or parse are logged and skipped; the catalog keeps
whatever the remaining pages yielded.`,
	Example: `  # Discover with the default page limit
  compscraper discover

  # Scan at most 5 listing pages
  compscraper discover 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	maxPages := 0
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			return fmt.Errorf("maxPages must be a positive integer, got %q", args[0])
		}
		maxPages = parsed
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session := newSession(cfg)
	defer closeSession(cmd, session)

	disc := scraper.NewDiscoverer(cfg, session, catalog.NewFileRepository(cfg.CatalogPath()), logger.GetLogger())
	if _, err := disc.Run(cmd.Context(), maxPages); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	return nil
}
