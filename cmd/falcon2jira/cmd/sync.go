package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/Jarhead00/falcon2jira"
	"github.com/Jarhead00/falcon2jira/internal/config"
	"github.com/Jarhead00/falcon2jira/internal/sources/falcon"
	"github.com/Jarhead00/falcon2jira/internal/sources/jira"
)

// syncFlags are the sync subcommand's flags.
type syncFlags struct {
	configFile string
	dryRun     bool
	maxAlerts  int
	output     string
}

func newSyncCommand() *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one reconciliation pass",
		Long: `Sync fetches the most recently closed Falcon alerts (up to the batch cap)
and reconciles each with its Jira issue: status transition, assignee, and
comment replication. Credentials and policy come from the environment, a
.env file, or --config; see the repository README for the variable names.`,
		Example: `  falcon2jira sync                 # one reconciliation pass
  falcon2jira sync --dry-run       # log intended writes without applying
  falcon2jira sync --max-alerts 20 # raise the batch cap for this run
  falcon2jira sync --output json   # machine-readable run summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "log intended writes without applying them")
	cmd.Flags().IntVar(&flags.maxAlerts, "max-alerts", 0, "override the per-run alert cap")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "text", "summary output format (text, json, yaml)")

	return cmd
}

func runSync(cmd *cobra.Command, flags *syncFlags) error {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return err
	}
	if flags.maxAlerts > 0 {
		cfg.MaxAlerts = flags.maxAlerts
	}

	jiraClient := jira.New(cfg.JiraDomain, cfg.JiraUser, cfg.JiraToken)
	client, err := falcon2jira.New(
		falcon2jira.WithSource(falcon.New(cfg.FalconBaseURL, cfg.FalconClientID, cfg.FalconClientSecret)),
		falcon2jira.WithTracker(jiraClient),
		falcon2jira.WithDirectory(jiraClient),
		falcon2jira.WithProjectKey(cfg.ProjectKey),
		falcon2jira.WithOpenStatuses(cfg.OpenStatuses...),
		falcon2jira.WithTransition(cfg.TransitionID, cfg.DoneStatus),
		falcon2jira.WithMaxAlerts(cfg.MaxAlerts),
		falcon2jira.WithDryRun(flags.dryRun),
	)
	if err != nil {
		return err
	}

	summary, err := client.Sync(cmd.Context())
	if err != nil {
		return err
	}

	if err := renderSummary(cmd.OutOrStdout(), summary, flags.output); err != nil {
		return err
	}
	if !summary.Clean() {
		// Non-zero exit so the scheduled runner's monitoring notices
		// field-level failures even though the batch completed.
		return fmt.Errorf("%d of %d alerts had failures", failedAlerts(summary), summary.AlertsFetched)
	}
	return nil
}

func failedAlerts(summary *falcon2jira.Summary) int {
	n := 0
	for i := range summary.Outcomes {
		if len(summary.Outcomes[i].Failures()) > 0 {
			n++
		}
	}
	return n
}

// summaryView is the marshal-friendly shape of a run summary; errors are
// flattened to strings.
type summaryView struct {
	RunID          string        `json:"run_id" yaml:"run_id"`
	DryRun         bool          `json:"dry_run" yaml:"dry_run"`
	AlertsFetched  int           `json:"alerts_fetched" yaml:"alerts_fetched"`
	IssuesMatched  int           `json:"issues_matched" yaml:"issues_matched"`
	ActionsApplied int           `json:"actions_applied" yaml:"actions_applied"`
	Failures       int           `json:"failures" yaml:"failures"`
	Warnings       int           `json:"warnings" yaml:"warnings"`
	Outcomes       []outcomeView `json:"outcomes" yaml:"outcomes"`
}

type outcomeView struct {
	AlertID  string   `json:"alert_id" yaml:"alert_id"`
	IssueKey string   `json:"issue_key,omitempty" yaml:"issue_key,omitempty"`
	Status   string   `json:"status,omitempty" yaml:"status,omitempty"`
	Assignee string   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Comments string   `json:"comments,omitempty" yaml:"comments,omitempty"`
	Added    int      `json:"comments_added,omitempty" yaml:"comments_added,omitempty"`
	Warning  string   `json:"warning,omitempty" yaml:"warning,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newSummaryView(summary *falcon2jira.Summary) summaryView {
	view := summaryView{
		RunID:          summary.RunID,
		DryRun:         summary.DryRun,
		AlertsFetched:  summary.AlertsFetched,
		IssuesMatched:  summary.IssuesMatched,
		ActionsApplied: summary.ActionsApplied,
		Failures:       summary.Failures,
		Warnings:       summary.Warnings,
	}
	for i := range summary.Outcomes {
		o := &summary.Outcomes[i]
		ov := outcomeView{
			AlertID:  o.AlertID,
			IssueKey: o.IssueKey,
			Added:    o.Comments.Count,
		}
		if o.Matched() {
			ov.Status = string(o.Status.State)
			ov.Assignee = string(o.Assignee.State)
			ov.Comments = string(o.Comments.State)
		}
		if o.Warning != nil {
			ov.Warning = o.Warning.Error()
		}
		for _, err := range o.Failures() {
			ov.Errors = append(ov.Errors, err.Error())
		}
		view.Outcomes = append(view.Outcomes, ov)
	}
	return view
}

func renderSummary(w io.Writer, summary *falcon2jira.Summary, format string) error {
	switch format {
	case "text":
		fmt.Fprintln(w, summary.String())
		for i := range summary.Outcomes {
			fmt.Fprintln(w, "  "+summary.Outcomes[i].Summary())
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newSummaryView(summary))
	case "yaml":
		out, err := yaml.Marshal(newSummaryView(summary))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}
	return fmt.Errorf("unknown output format %q (expected text, json, or yaml)", format)
}
