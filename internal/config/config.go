package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to be conservative toward the crawled sites:
// a denied or rate-limited crawler collects nothing.
const (
	// DefaultTimeout is the per-request timeout. University directory
	// servers are ordinary clearnet hosts; 20 seconds is generous.
	DefaultTimeout = 20 * time.Second

	// DefaultCrawlDelay is the minimum spacing between requests to one
	// host when robots.txt declares no Crawl-delay. 1.5 seconds keeps
	// the crawler well under anything a directory server would notice.
	DefaultCrawlDelay = 1500 * time.Millisecond

	// DefaultMaxPages is the listing-page ceiling per seed. Directory
	// listings rarely exceed a few dozen pages; this stops runaway
	// pagination on sites that generate pages forever.
	DefaultMaxPages = 40

	// DefaultMaxTasks is the total task ceiling per seed, listing and
	// profile pages combined. It guarantees termination even when a
	// site variant misbehaves.
	DefaultMaxTasks = 500

	// DefaultConcurrency is the number of seeds crawled at once.
	// Per-host spacing is enforced separately, so this only matters
	// when seeds span several hosts.
	DefaultConcurrency = 4

	// DefaultRetries is the attempt budget per page fetch.
	DefaultRetries = 3

	// DefaultRetryBackoff is the fixed pause between fetch attempts.
	DefaultRetryBackoff = 2 * time.Second

	// DefaultUserAgent identifies FacultyScan in HTTP requests.
	// A descriptive User-Agent lets directory operators identify and,
	// if they wish, block the crawler in robots.txt.
	DefaultUserAgent = "facultyscan/1.0 (+https://github.com/facultyscan/facultyscan)"

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is far beyond any real directory page while preventing memory
	// exhaustion from unexpected responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "facultyscan"
)

// Config holds all configuration options for FacultyScan.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Site is the site-variant key selecting the parser for this run.
	Site string

	// Seeds is the list of directory URLs to crawl.
	Seeds []string

	// Affiliation is recorded on every contact found this run.
	Affiliation string

	// Subject is an optional tag recorded on every contact, used by
	// downstream mail-merge tooling to pick a template.
	Subject string

	// OutputPath is the sink file path. Empty means the default
	// contacts file in the XDG data directory.
	OutputPath string

	// Format selects the sink: "csv" or "sqlite".
	Format string

	// Append keeps existing sink rows and dedups against them instead
	// of truncating.
	Append bool

	// Timeout is the per-request timeout for page fetches.
	Timeout time.Duration

	// CrawlDelay is the minimum spacing between requests to one host.
	// A robots.txt Crawl-delay longer than this wins.
	CrawlDelay time.Duration

	// MaxPages is the listing-page ceiling per seed.
	MaxPages int

	// MaxTasks is the total task ceiling per seed.
	MaxTasks int

	// Concurrency is the number of seeds crawled at once.
	Concurrency int

	// Retries is the attempt budget per page fetch.
	Retries int

	// RetryBackoff is the fixed pause between fetch attempts.
	RetryBackoff time.Duration

	// UserAgent is the User-Agent header sent with every request,
	// including the robots.txt fetch.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// JSONReport enables JSON summary output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown summary output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the run summary.
	// When set, the summary is written there instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .facultyscan in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host overrides loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, delay).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Format:       "csv",
		Timeout:      DefaultTimeout,
		CrawlDelay:   DefaultCrawlDelay,
		MaxPages:     DefaultMaxPages,
		MaxTasks:     DefaultMaxTasks,
		Concurrency:  DefaultConcurrency,
		Retries:      DefaultRetries,
		RetryBackoff: DefaultRetryBackoff,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for FacultyScan.
// On Linux: ~/.local/share/facultyscan
// On macOS: ~/Library/Application Support/facultyscan
// On Windows: %LOCALAPPDATA%\facultyscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for FacultyScan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultOutputPath returns the sink path used when none is given:
// contacts.csv (or contacts.db) in the XDG data directory.
func (c *Config) DefaultOutputPath() string {
	name := "contacts.csv"
	if c.Format == "sqlite" {
		name = "contacts.db"
	}
	return filepath.Join(XDGDataDir(), name)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Site == "" {
		return ErrNoSite
	}
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
