package config

import (
	"fmt"
	"time"
)

// SiteConfig holds per-host overrides for crawling one directory site.
// Some directories sit behind consent cookies or want custom headers;
// others need a gentler pace than the global default.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when crawling this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global listing-page ceiling for this host.
	// If zero, the global ceiling is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Delay overrides the global request spacing for this host, as a Go
	// duration string ("2s", "1500ms"). Empty means the global spacing.
	Delay string `yaml:"delay,omitempty"`
}

// DelayDuration parses the Delay override. Zero with a nil error means
// no override is set.
func (sc SiteConfig) DelayDuration() (time.Duration, error) {
	if sc.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(sc.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", sc.Delay, err)
	}
	return d, nil
}

// File represents the structure of the .facultyscan configuration file.
type File struct {
	// Sites maps hostnames to their overrides.
	// Keys are bare hostnames (e.g., "www.law.columbia.edu").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains overrides applied to every host unless a
	// site-specific entry replaces them.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific hostname,
// merging the host entry over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.Delay != "" {
			result.Delay = siteConfig.Delay
		}
		if len(siteConfig.Headers) > 0 {
			// Copy rather than mutate: result.Headers may alias Defaults.
			merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
	}

	return result
}
