package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/facultyscan/facultyscan/internal/model"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeSeeds(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the run identification table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("FacultyScan Run Summary")
	md.PlainText("")

	site := summary.Site
	if site == "" {
		site = "-"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + site + "`"},
			{"Seeds", strconv.Itoa(len(summary.Seeds))},
			{"Pages", strconv.Itoa(summary.Pages)},
			{"Elapsed", summary.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")
}

// writeCounts writes the candidate outcome section.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Contacts")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"New", strconv.Itoa(summary.Accepted)},
			{"Duplicate", strconv.Itoa(summary.Duplicates)},
			{"Rejected", strconv.Itoa(summary.Rejected)},
			{"Failed pages", strconv.Itoa(summary.FailedTasks)},
			{"Skipped (robots)", strconv.Itoa(summary.SkippedTasks)},
		},
	})
	md.PlainText("")

	if summary.Accepted+summary.Duplicates+summary.Rejected > 0 {
		w.writePieChart(md, summary)
	}
	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of candidate outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Candidate Outcomes"),
		piechart.WithShowData(true),
	)

	if summary.Accepted > 0 {
		chart.LabelAndIntValue("New", uint64(summary.Accepted))
	}
	if summary.Duplicates > 0 {
		chart.LabelAndIntValue("Duplicate", uint64(summary.Duplicates))
	}
	if summary.Rejected > 0 {
		chart.LabelAndIntValue("Rejected", uint64(summary.Rejected))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.RunSummary) {
	switch {
	case summary.Accepted > 0:
		md.Tip(fmt.Sprintf("%d new contact(s) recorded.", summary.Accepted))
	case summary.Duplicates > 0:
		md.Note("No new contacts; every candidate was already recorded.")
	case summary.FailedTasks > 0 || summary.SkippedTasks > 0:
		md.Warningf(
			"No contacts found. %d page(s) failed and %d were skipped by robots rules.",
			summary.FailedTasks, summary.SkippedTasks,
		)
	default:
		md.Note("No contacts found on the crawled pages.")
	}
	md.PlainText("")
}

// writeSeeds writes the seed URL list.
func (w *MarkdownWriter) writeSeeds(md *markdown.Markdown, summary *model.RunSummary) {
	if len(summary.Seeds) == 0 {
		return
	}

	md.H2("Seeds")
	md.PlainText("")
	md.BulletList(summary.Seeds...)
	md.PlainText("")
}
