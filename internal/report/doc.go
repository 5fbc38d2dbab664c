// Package report renders run summaries for terminal display, tool
// integration, and documentation.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for sharing and documentation
//
// Design decision: We separate report writing from the summary data
// structure (which lives in the model package) so new output formats
// can be added without touching the crawl code.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
