package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at release time via ldflags. Development builds fall
// back to the module version or the VCS revision from the build info.
var version = ""

// getVersion returns the version string reported by the root command
// and the version subcommand.
func getVersion() string {
	if version != "" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	if rev := buildSetting(info, "vcs.revision"); rev != "" {
		if len(rev) > 12 {
			rev = rev[:12]
		}
		return "devel-" + rev
	}
	return "(devel)"
}

// buildSetting returns the named build-info setting, or "".
func buildSetting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the facultyscan version and, when available, the commit time it was built from.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "facultyscan version %s\n", getVersion())
			if info, ok := debug.ReadBuildInfo(); ok {
				if t := buildSetting(info, "vcs.time"); t != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  built from commit dated %s\n", t)
				}
			}
		},
	}
}
