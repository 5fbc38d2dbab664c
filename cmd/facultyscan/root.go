// Package main provides the entry point for the FacultyScan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for FacultyScan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facultyscan",
		Short: "Collect public contact records from institutional directories",
		Long: `FacultyScan crawls institutional directory websites and collects the
publicly listed contact records (name, email, affiliation) into a
deduplicated CSV or SQLite sink.

The crawler honors robots.txt and enforces a minimum delay between
requests to the same host. A seed URL denied by robots.txt fails the
run before anything is written.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
