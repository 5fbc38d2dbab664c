package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/facultyscan/facultyscan/internal/config"
	"github.com/facultyscan/facultyscan/internal/importer"
	"github.com/facultyscan/facultyscan/internal/log"
	"github.com/facultyscan/facultyscan/internal/model"
	"github.com/facultyscan/facultyscan/internal/report"
	"github.com/facultyscan/facultyscan/internal/store"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import contacts from a freeform line list",
		Long: `Import reads a hand-maintained contact list and feeds it into the
same deduplicated sink the crawler uses. Use "-" (or no argument) to
read from standard input.

Each line holds one contact in any of these shapes:

  bare@example.edu
  Jane Doe <jane@example.edu>
  Jane Doe - jane@example.edu
  Jane Doe, jane@example.edu

Blank lines and lines starting with '#' are skipped, as is any line
without a valid address.

Examples:
  # Import a list into the default CSV sink
  facultyscan import --affiliation "Yale Law" contacts.txt

  # Pipe into an existing SQLite sink
  cat extra.txt | facultyscan import -f sqlite --append --out contacts.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImportCmd,
	}

	cmd.Flags().StringP("affiliation", "a", "",
		"Affiliation recorded on every contact")
	cmd.Flags().String("subject", "",
		"Subject tag recorded on every contact")
	cmd.Flags().String("source", "manual_list",
		"Source label recorded on every contact")
	cmd.Flags().StringP("out", "o", "",
		"Sink file path (default: contacts file in the XDG data directory)")
	cmd.Flags().StringP("format", "f", "csv",
		"Sink format: csv or sqlite")
	cmd.Flags().Bool("append", false,
		"Keep existing sink rows and dedup against them")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run summary")

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) error {
	logger := log.NewMaskingLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	affiliation, err := cmd.Flags().GetString("affiliation")
	if err != nil {
		return err
	}
	subject, err := cmd.Flags().GetString("subject")
	if err != nil {
		return err
	}
	source, err := cmd.Flags().GetString("source")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	appendMode, err := cmd.Flags().GetBool("append")
	if err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	format, err := store.ParseFormat(formatName)
	if err != nil {
		return err
	}

	input, closeInput, err := openImportInput(args)
	if err != nil {
		return err
	}
	defer closeInput()

	contacts, err := importer.ParseReader(input, affiliation, source, subject)
	if err != nil {
		return err
	}

	if outPath == "" {
		cfg := config.NewConfig()
		cfg.Format = formatName
		outPath = cfg.DefaultOutputPath()
	}
	sink, err := store.Open(format, outPath, store.Options{
		Append:  appendMode,
		Subject: subject != "",
	})
	if err != nil {
		return fmt.Errorf("failed to open sink: %w", err)
	}

	start := time.Now()
	summary := model.RunSummary{}
	ctx := cmd.Context()
	for _, contact := range contacts {
		status, err := sink.Submit(ctx, contact)
		if err != nil {
			_ = sink.Close()
			return fmt.Errorf("aborting import, sink unusable: %w", err)
		}
		switch status {
		case store.Accepted:
			summary.Accepted++
		case store.Duplicate:
			summary.Duplicates++
		case store.Rejected:
			summary.Rejected++
		}
	}
	summary.Elapsed = time.Since(start)

	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to close sink: %w", err)
	}

	return writeImportSummary(cmd.OutOrStdout(), &summary, jsonOut)
}

// openImportInput opens the line-list source: a file path, or stdin for
// "-" or no argument.
func openImportInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(args[0]) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open list file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// writeImportSummary prints the import outcome.
func writeImportSummary(w io.Writer, summary *model.RunSummary, jsonOut bool) error {
	if jsonOut {
		_, err := report.NewJSONWriter(w, report.WithPrettyPrint()).Write(summary)
		return err
	}
	_, err := fmt.Fprintf(w, "Imported %d new contact(s), %d duplicate(s), %d rejected line(s) in %s\n",
		summary.Accepted, summary.Duplicates, summary.Rejected,
		summary.Elapsed.Round(time.Millisecond))
	return err
}
