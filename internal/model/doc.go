// Package model defines the core data types shared across facultyscan:
// contact candidates and records, crawl tasks, and run summaries.
//
// Design decision: Types live in a leaf package with no internal
// dependencies so that the crawler, site parsers, and storage layers can
// all share them without import cycles.
package model
