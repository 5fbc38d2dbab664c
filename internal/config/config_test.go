package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	c := NewConfig()
	c.Site = "columbia"
	c.Seeds = []string{"https://www.law.columbia.edu/faculty"}
	return c
}

// TestConfigValidate tests the fail-fast validation rules.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("defaults with site and seed are valid", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing site", func(c *Config) { c.Site = "" }, ErrNoSite},
		{"missing seeds", func(c *Config) { c.Seeds = nil }, ErrNoSeed},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative delay", func(c *Config) { c.CrawlDelay = -time.Second }, ErrInvalidCrawlDelay},
		{"zero max pages", func(c *Config) { c.MaxPages = 0 }, ErrInvalidMaxPages},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{
			"conflicting report formats",
			func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := validConfig()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestDefaultOutputPath tests the sink default per format.
func TestDefaultOutputPath(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	if got := c.DefaultOutputPath(); filepath.Base(got) != "contacts.csv" {
		t.Errorf("csv default = %q", got)
	}
	c.Format = "sqlite"
	if got := c.DefaultOutputPath(); filepath.Base(got) != "contacts.db" {
		t.Errorf("sqlite default = %q", got)
	}
}

// TestLoadConfigFile tests YAML parsing and override merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("parses sites and defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
defaults:
  delay: 2s
  headers:
    Accept-Language: en-US
sites:
  www.law.columbia.edu:
    maxPages: 10
    cookie: "consent=yes"
  directory.law.nyu.edu:
    delay: 500ms
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile failed: %v", err)
		}

		columbia := cf.GetSiteConfig("www.law.columbia.edu")
		if columbia.MaxPages != 10 || columbia.Cookie != "consent=yes" {
			t.Errorf("columbia overrides = %+v", columbia)
		}
		if columbia.Delay != "2s" {
			t.Errorf("columbia delay = %q, want the default carried over", columbia.Delay)
		}
		if columbia.Headers["Accept-Language"] != "en-US" {
			t.Errorf("default headers not merged: %+v", columbia.Headers)
		}

		nyu := cf.GetSiteConfig("directory.law.nyu.edu")
		d, err := nyu.DelayDuration()
		if err != nil || d != 500*time.Millisecond {
			t.Errorf("nyu delay = %v, %v", d, err)
		}

		unknown := cf.GetSiteConfig("example.edu")
		if unknown.Delay != "2s" || unknown.Cookie != "" {
			t.Errorf("unknown host must get bare defaults: %+v", unknown)
		}
	})

	t.Run("missing file returns sentinel", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("bad delay rejected at load time", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("defaults:\n  delay: soonish\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for unparseable delay")
		}
	})
}

// TestFindConfigFile tests the config discovery order.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path wins when present", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("sites: {}\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile = %q, want %q", got, path)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})
}
