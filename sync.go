package falcon2jira

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Jarhead00/falcon2jira/pkg/logging"
	"github.com/Jarhead00/falcon2jira/pkg/reconcile"
)

// Sync runs one reconciliation pass: fetch the closed-alert batch, then
// process every alert sequentially. Failures are scoped to a single field of
// a single alert and never abort the batch; only a failed alert fetch aborts
// the run, because without a batch there is nothing to reconcile.
//
// The run keeps no state of its own. Rerunning Sync against an unchanged
// batch applies zero additional actions.
func (c *Client) Sync(ctx context.Context) (*Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	summary := &Summary{
		RunID:  uuid.NewString(),
		DryRun: c.config.DryRun,
	}
	logger := logging.With().Str("run_id", summary.RunID).Logger()
	logger.Info().
		Int("max_alerts", c.maxAlerts).
		Bool("dry_run", c.config.DryRun).
		Msg("Starting reconciliation run")

	batch, err := c.source.FetchClosed(ctx, c.maxAlerts)
	if err != nil {
		return nil, fmt.Errorf("fetching closed alerts: %w", err)
	}
	summary.AlertsFetched = len(batch)
	if len(batch) == 0 {
		logger.Info().Msg("No closed alerts to process")
		return summary, nil
	}

	reconciler := reconcile.New(c.tracker, c.directory, c.config)

	// Strictly sequential: alert N+1 does not start until all three
	// synchronizers for alert N finished. A context cancellation is only
	// honored between alerts, so no issue is left half-updated mid-write.
	for i := range batch {
		alert := &batch[i]
		if err := ctx.Err(); err != nil {
			logger.Warn().
				Err(err).
				Int("processed", i).
				Int("remaining", len(batch)-i).
				Msg("Run canceled; remaining alerts deferred to next run")
			break
		}

		// The source contract promises closed alerts only; anything else in
		// the batch is skipped, never reconciled.
		if !alert.Closed() {
			logger.Warn().
				Str("alert_id", alert.ID).
				Str("status", string(alert.Status)).
				Msg("Skipping alert not in closed status")
			continue
		}

		outcome := reconciler.Reconcile(ctx, alert)
		summary.add(outcome)
		logger.Info().Str("outcome", outcome.Summary()).Msg("Alert processed")
	}

	logger.Info().
		Int("alerts", summary.AlertsFetched).
		Int("matched", summary.IssuesMatched).
		Int("actions", summary.ActionsApplied).
		Int("failures", summary.Failures).
		Int("warnings", summary.Warnings).
		Msg("Reconciliation run finished")
	return summary, nil
}
