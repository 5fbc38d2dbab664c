package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd tests the command tree wiring.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("help lists subcommands", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs([]string{"--help"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("help failed: %v", err)
		}

		help := out.String()
		for _, sub := range []string{"scrape", "import", "version"} {
			if !strings.Contains(help, sub) {
				t.Errorf("help missing subcommand %q:\n%s", sub, help)
			}
		}
	})

	t.Run("unknown subcommand fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(bytes.NewBuffer(nil))
		cmd.SetErr(bytes.NewBuffer(nil))
		cmd.SetArgs([]string{"explode"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for unknown subcommand")
		}
	})
}
