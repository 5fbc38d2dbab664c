package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/facultyscan/facultyscan/internal/config"
	"github.com/facultyscan/facultyscan/internal/crawler"
	"github.com/facultyscan/facultyscan/internal/log"
	"github.com/facultyscan/facultyscan/internal/model"
	"github.com/facultyscan/facultyscan/internal/politeness"
	"github.com/facultyscan/facultyscan/internal/report"
	"github.com/facultyscan/facultyscan/internal/sites"
	"github.com/facultyscan/facultyscan/internal/store"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [directory-url]...",
		Short: "Crawl directory pages and collect contact records",
		Long: `Scrape crawls one or more institutional directory URLs and collects
the publicly listed contact records into a deduplicated sink.

The --site flag selects the site variant, which knows how a particular
directory lays out its listings (inline entries vs. per-person profile
pages) and how it paginates.

Examples:
  # Crawl a paginated listing into the default CSV sink
  facultyscan scrape --site columbia --affiliation "Columbia Law" \
    https://www.law.columbia.edu/faculty

  # Collect into SQLite, keeping records from earlier runs
  facultyscan scrape --site yale -f sqlite --append \
    --out contacts.db https://law.yale.edu/faculty

  # Tag every record for a downstream mail-merge template
  facultyscan scrape --site nyu --subject "torts" \
    https://its.law.nyu.edu/facultyprofiles

Configuration file (.facultyscan) example:
  sites:
    www.law.columbia.edu:
      cookie: "consent=yes"
      maxPages: 10
    its.law.nyu.edu:
      delay: 3s`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScrapeCmd,
	}

	// Extraction flags
	cmd.Flags().StringP("site", "s", "",
		fmt.Sprintf("Site variant to use (one of: %v)", sites.Names()))
	cmd.Flags().StringP("affiliation", "a", "",
		"Affiliation recorded on every contact")
	cmd.Flags().String("subject", "",
		"Subject tag recorded on every contact")

	// Sink flags
	cmd.Flags().StringP("out", "o", "",
		"Sink file path (default: contacts file in the XDG data directory)")
	cmd.Flags().StringP("format", "f", "csv",
		"Sink format: csv or sqlite")
	cmd.Flags().Bool("append", false,
		"Keep existing sink rows and dedup against them")

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum listing pages to crawl per seed")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Minimum delay between requests to one host")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of seeds crawled at once")
	cmd.Flags().Int("retries", config.DefaultRetries,
		"Attempts per page fetch")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .facultyscan in current or home directory)")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run summary (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the run summary to the specified file instead of stdout")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScrapeConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewMaskingLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger)
}

// buildScrapeConfig creates a Config from cobra command flags.
func buildScrapeConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Seeds = args

	var err error
	if cfg.Site, err = cmd.Flags().GetString("site"); err != nil {
		return nil, err
	}
	if cfg.Affiliation, err = cmd.Flags().GetString("affiliation"); err != nil {
		return nil, err
	}
	if cfg.Subject, err = cmd.Flags().GetString("subject"); err != nil {
		return nil, err
	}
	if cfg.OutputPath, err = cmd.Flags().GetString("out"); err != nil {
		return nil, err
	}
	if cfg.Format, err = cmd.Flags().GetString("format"); err != nil {
		return nil, err
	}
	if cfg.Append, err = cmd.Flags().GetBool("append"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.Retries, err = cmd.Flags().GetInt("retries"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	// Load per-host overrides from the config file.
	// If the user explicitly specified a config file path, error if not
	// found. Otherwise an absent file just means no overrides.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	return cfg, nil
}

// siteConfigFor returns the per-host overrides for a seed URL.
func siteConfigFor(cfg *config.Config, seed string) config.SiteConfig {
	u, err := url.Parse(seed)
	if err != nil || cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}
	return cfg.SiteConfigs.GetSiteConfig(u.Hostname())
}

// runScrape executes the crawl.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Fail on an unknown site variant before any network traffic.
	if _, err := sites.New(cfg.Site); err != nil {
		return err
	}
	format, err := store.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	// Per-host overrides come from the first seed's host; one scrape run
	// targets one directory site.
	siteConfig := siteConfigFor(cfg, cfg.Seeds[0])
	delay := cfg.CrawlDelay
	if override, err := siteConfig.DelayDuration(); err == nil && override > delay {
		delay = override
	}
	maxPages := cfg.MaxPages
	if siteConfig.MaxPages > 0 {
		maxPages = siteConfig.MaxPages
	}

	gate := politeness.NewGate(cfg.UserAgent,
		politeness.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		politeness.WithDefaultDelay(delay),
		politeness.WithLogger(logger),
	)

	// Preflight every seed against robots.txt before the sink is opened:
	// a denied seed must abort the run with nothing written.
	for _, seed := range cfg.Seeds {
		if err := gate.Allowed(ctx, seed); err != nil {
			return fmt.Errorf("seed not crawlable: %w", err)
		}
	}

	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = cfg.DefaultOutputPath()
	}
	sink, err := store.Open(format, outPath, store.Options{
		Append:  cfg.Append,
		Subject: cfg.Subject != "",
	})
	if err != nil {
		return fmt.Errorf("failed to open sink: %w", err)
	}

	fetcherOpts := []crawler.FetcherOption{
		crawler.WithFetchClient(&http.Client{Timeout: cfg.Timeout}),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithRetry(cfg.Retries, cfg.RetryBackoff),
		crawler.WithFetchLogger(logger),
	}
	if siteConfig.Cookie != "" {
		fetcherOpts = append(fetcherOpts, crawler.WithCookie(siteConfig.Cookie))
	}
	if len(siteConfig.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithHeaders(siteConfig.Headers))
	}
	fetcher := crawler.NewFetcher(cfg.UserAgent, fetcherOpts...)

	fmt.Printf("Crawling %d seed(s) with site variant %q...\n", len(cfg.Seeds), cfg.Site)

	summary, runErr := crawler.RunBatch(ctx, cfg.Seeds, cfg.Concurrency, func() (*crawler.Orchestrator, error) {
		parser, err := sites.New(cfg.Site)
		if err != nil {
			return nil, err
		}
		return crawler.New(gate, fetcher, parser, sink,
			crawler.WithAffiliation(cfg.Affiliation),
			crawler.WithSubject(cfg.Subject),
			crawler.WithMaxPages(maxPages),
			crawler.WithMaxTasks(cfg.MaxTasks),
			crawler.WithLogger(logger),
		), nil
	})

	if closeErr := sink.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("failed to close sink: %w", closeErr)
	}

	if outErr := outputSummary(cfg, &summary); outErr != nil {
		logger.Error("failed to write run summary", "error", outErr)
	}
	return runErr
}

// outputSummary writes the run summary in the requested format.
func outputSummary(cfg *config.Config, summary *model.RunSummary) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(summary)
	return err
}
