// Package config provides configuration structures and utilities for
// FacultyScan. It defines the main options for crawling directory
// sites, sink selection, and report generation preferences.
package config
