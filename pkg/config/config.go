package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SlugPlaceholder is the token replaced by a component slug when building
// item-page URLs from Gallery.ComponentURLTemplate.
const SlugPlaceholder = "{slug}"

// Config holds all configuration options for the gallery scraper
type Config struct {
	// Target gallery URLs
	Gallery GalleryConfig `yaml:"gallery" json:"gallery"`

	// External browser-automation collaborator
	Automation AutomationConfig `yaml:"automation" json:"automation"`

	// Discovery phase settings
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery"`

	// Output and state file locations
	Output OutputConfig `yaml:"output" json:"output"`

	// Settle and rate-limit delays
	Pacing PacingConfig `yaml:"pacing" json:"pacing"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GalleryConfig holds the target gallery's URL surface
type GalleryConfig struct {
	ListingURL           string `yaml:"listing_url" json:"listing_url"`
	ComponentURLTemplate string `yaml:"component_url_template" json:"component_url_template"`
}

// AutomationConfig holds settings for the automation subprocess
type AutomationConfig struct {
	Binary  string        `yaml:"binary" json:"binary"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DiscoveryConfig holds discovery phase settings
type DiscoveryConfig struct {
	MaxPages int `yaml:"max_pages" json:"max_pages"`
}

// OutputConfig holds output directory and state file configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	CatalogFile   string `yaml:"catalog_file" json:"catalog_file"`
	ProgressFile  string `yaml:"progress_file" json:"progress_file"`
}

// PacingConfig holds the fixed waits inserted around automation calls
type PacingConfig struct {
	SettleDelay        time.Duration `yaml:"settle_delay" json:"settle_delay"`
	CodeSettleDelay    time.Duration `yaml:"code_settle_delay" json:"code_settle_delay"`
	PreviewSettleDelay time.Duration `yaml:"preview_settle_delay" json:"preview_settle_delay"`
	RateLimitDelay     time.Duration `yaml:"rate_limit_delay" json:"rate_limit_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Gallery: GalleryConfig{
			ListingURL:           "https://tailgallery.dev/components",
			ComponentURLTemplate: "https://tailgallery.dev/components/{slug}",
		},
		Automation: AutomationConfig{
			Binary:  "stagehand",
			Timeout: 2 * time.Minute,
		},
		Discovery: DiscoveryConfig{
			MaxPages: 32,
		},
		Output: OutputConfig{
			BaseDirectory: ".",
			CatalogFile:   "catalog.json",
			ProgressFile:  "progress.json",
		},
		Pacing: PacingConfig{
			SettleDelay:        3 * time.Second,
			CodeSettleDelay:    5 * time.Second,
			PreviewSettleDelay: 2 * time.Second,
			RateLimitDelay:     2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if url := os.Getenv("COMPSCRAPER_LISTING_URL"); url != "" {
		c.Gallery.ListingURL = url
	}
	if tmpl := os.Getenv("COMPSCRAPER_COMPONENT_URL_TEMPLATE"); tmpl != "" {
		c.Gallery.ComponentURLTemplate = tmpl
	}
	if bin := os.Getenv("COMPSCRAPER_AUTOMATION_BIN"); bin != "" {
		c.Automation.Binary = bin
	}
	if outputDir := os.Getenv("COMPSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if pages := os.Getenv("COMPSCRAPER_MAX_PAGES"); pages != "" {
		var val int
		fmt.Sscanf(pages, "%d", &val)
		if val > 0 {
			c.Discovery.MaxPages = val
		}
	}

	if delay := os.Getenv("COMPSCRAPER_RATE_LIMIT_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.Pacing.RateLimitDelay = d
		}
	}

	if logLevel := os.Getenv("COMPSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".compscraper.yaml",
		".compscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "compscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "compscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".compscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// ComponentURL builds the item-page URL for a slug from the configured template
func (c *Config) ComponentURL(slug string) string {
	return strings.ReplaceAll(c.Gallery.ComponentURLTemplate, SlugPlaceholder, slug)
}

// CatalogPath returns the catalog file path resolved against the base directory
func (c *Config) CatalogPath() string {
	return c.resolve(c.Output.CatalogFile)
}

// ProgressPath returns the progress file path resolved against the base directory
func (c *Config) ProgressPath() string {
	return c.resolve(c.Output.ProgressFile)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Output.BaseDirectory, path)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Gallery.ListingURL == "" {
		errs = append(errs, errors.New("gallery listing URL is required"))
	}
	if !strings.Contains(c.Gallery.ComponentURLTemplate, SlugPlaceholder) {
		errs = append(errs, fmt.Errorf("component URL template must contain %s", SlugPlaceholder))
	}

	if c.Automation.Binary == "" {
		errs = append(errs, errors.New("automation binary is required"))
	}
	if c.Automation.Timeout <= 0 {
		errs = append(errs, errors.New("automation timeout must be positive"))
	}

	if c.Discovery.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.CatalogFile == "" {
		errs = append(errs, errors.New("catalog file is required"))
	}
	if c.Output.ProgressFile == "" {
		errs = append(errs, errors.New("progress file is required"))
	}

	if c.Pacing.SettleDelay < 0 || c.Pacing.CodeSettleDelay < 0 ||
		c.Pacing.PreviewSettleDelay < 0 || c.Pacing.RateLimitDelay < 0 {
		errs = append(errs, errors.New("delays cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if binary, ok := flags["automation-bin"].(string); ok && binary != "" {
		c.Automation.Binary = binary
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if maxPages, ok := flags["max-pages"].(int); ok && maxPages > 0 {
		c.Discovery.MaxPages = maxPages
	}
	if delay, ok := flags["rate-limit-delay"].(time.Duration); ok && delay >= 0 {
		c.Pacing.RateLimitDelay = delay
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".compscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
