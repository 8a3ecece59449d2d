package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"compscraper/pkg/auth"
	"compscraper/pkg/automation"
	"compscraper/pkg/config"
	"compscraper/pkg/logger"
	"compscraper/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	outputDir  string
	noColor    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compscraper",
	Short: "Download a Tailwind component gallery as annotated source files",
	Long: `compscraper walks a component gallery through a browser-automation
collaborator and saves every component as an annotated .tsx source file plus
a preview screenshot.

It runs in two phases:
  - discover paginates the gallery listing and builds a catalog of components
  - download visits each catalogued component and writes its artifacts

Both phases persist their state to JSON files, so an interrupted run resumes
where it left off: a component already downloaded (or already failed) is
never visited again.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}
		if noColor {
			ui.SetNoColor(true)
		}
	},
	// A bare invocation is an error, not a help page with a zero exit.
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Usage()
		return fmt.Errorf("a command is required: discover, download, all, or auth")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .compscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`compscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig resolves configuration with the global flags applied and
// initializes the logger.
func loadConfig() (*config.Config, error) {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

// newSession builds the automation session and hands it any stored gallery
// session token. A missing token is fine; public galleries need none.
func newSession(cfg *config.Config) *automation.Session {
	session := automation.NewSession(&cfg.Automation, logger.GetLogger())

	manager, err := auth.NewManager()
	if err != nil {
		logger.WithError(err).Debug("Credential manager unavailable")
		return session
	}
	account, err := manager.RetrieveDefault()
	if err != nil || account == nil {
		return session
	}
	session.SetSessionToken(account.SessionToken)
	logger.WithField("account", account.Name).Debug("Using stored session token")
	return session
}

// closeSession closes the automation session on the way out. Closure is
// best-effort on every exit path; a failure is logged and swallowed.
func closeSession(cmd *cobra.Command, session *automation.Session) {
	if err := session.Close(cmd.Context()); err != nil {
		logger.WithError(err).Debug("Failed to close automation session")
	}
}
