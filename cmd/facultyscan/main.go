// Package main provides the entry point for the FacultyScan CLI.
//
// FacultyScan discovers public contact information on institutional
// directory websites and collects it into a deduplicated sink.
//
// Usage:
//
//	facultyscan scrape --site <variant> <directory-url>
//	facultyscan import <line-list-file>
//
// See --help for all available options.
package main

// main is the entry point for FacultyScan.
func main() {
	Execute()
}
