// Package cmd implements the falcon2jira command-line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// Version carries build metadata injected at link time.
type Version struct {
	Version string
	Commit  string
	Date    string
}

// rootFlags are the persistent flags shared by all subcommands.
type rootFlags struct {
	logLevel  string
	logFormat string
	verbose   bool
	quiet     bool
}

// NewRootCommand creates the falcon2jira root command.
func NewRootCommand(version Version) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "falcon2jira",
		Short: "Reconcile closed CrowdStrike Falcon alerts with their Jira issues",
		Long: `falcon2jira reconciles closed CrowdStrike Falcon alerts with the Jira
issues an upstream integration created for them. For each closed alert it
finds the matching open issue, transitions it to the configured done status,
carries the assignee over, and replicates alert comments exactly once.

The command is designed to run on a schedule: every update is idempotent, so
overlapping or repeated runs never produce duplicate side effects.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.SetDefault(logging.NewFromConfig(&logging.Config{
				Level:  flags.level(),
				Format: flags.logFormat,
			}))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "auto", "log format (auto, console, json)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "shortcut for --log-level debug")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "shortcut for --log-level warn")

	root.AddCommand(newSyncCommand())

	return root
}

// level resolves the effective log level. An explicit --log-level always
// wins over the boolean shortcuts.
func (f *rootFlags) level() string {
	switch {
	case f.logLevel != "":
		return f.logLevel
	case f.quiet:
		return "warn"
	case f.verbose:
		return "debug"
	}
	return "info"
}
