package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/facultyscan/facultyscan/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	if w.verbose {
		w.writeSeeds(&sb, summary)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run identification block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       FACULTYSCAN RUN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if summary.Site != "" {
		sb.WriteString(fmt.Sprintf("Site:     %s\n", summary.Site))
	}
	sb.WriteString(fmt.Sprintf("Seeds:    %d\n", len(summary.Seeds)))
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", summary.Pages))
	sb.WriteString(fmt.Sprintf("Elapsed:  %s\n", summary.Elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")
}

// writeCounts writes the per-outcome candidate counts.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CONTACTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  NEW:        %d\n", summary.Accepted))
	sb.WriteString(fmt.Sprintf("  DUPLICATE:  %d\n", summary.Duplicates))
	sb.WriteString(fmt.Sprintf("  REJECTED:   %d\n", summary.Rejected))
	sb.WriteString("\n")

	if summary.FailedTasks > 0 || summary.SkippedTasks > 0 {
		sb.WriteString(fmt.Sprintf("  FAILED PAGES:   %d\n", summary.FailedTasks))
		sb.WriteString(fmt.Sprintf("  SKIPPED (robots): %d\n", summary.SkippedTasks))
		sb.WriteString("\n")
	}
}

// writeSeeds lists the seed URLs the run started from.
func (w *SimpleWriter) writeSeeds(sb *strings.Builder, summary *model.RunSummary) {
	if len(summary.Seeds) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEEDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, seed := range summary.Seeds {
		sb.WriteString(fmt.Sprintf("  [+] %s\n", seed))
	}
	sb.WriteString("\n")
}

// writeFooter writes the summary footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
