// Package reconcile implements the core reconciliation logic between closed
// security alerts and their tracker issues: resolving each alert to at most
// one eligible issue, then applying three independent, idempotent
// field-level updates (status transition, assignee, comment replication).
//
// Every update is guarded by a skip check against the issue's current state,
// so a run is safe to repeat: a second pass over an unchanged batch applies
// zero actions. Failures are scoped to a single field of a single alert and
// never abort the batch.
package reconcile

import (
	"context"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
)

// Config carries the reconciliation policy.
type Config struct {
	// ProjectKey scopes the issue search.
	ProjectKey string

	// OpenStatuses are the issue statuses still eligible for updates.
	OpenStatuses []string

	// TransitionID is the workflow transition that closes an issue.
	TransitionID string

	// DoneStatus is the status name TransitionID lands on; issues already
	// there are skipped.
	DoneStatus string

	// DryRun logs intended writes without performing them.
	DryRun bool
}

// Reconciler drives the per-alert reconciliation: resolve, then run the
// three synchronizers. All three are attempted even when one fails.
type Reconciler struct {
	resolver *Resolver
	status   *StatusSynchronizer
	assignee *AssigneeSynchronizer
	comments *CommentReplicator
}

// New creates a reconciler operating on the given tracker and directory.
func New(tracker issues.Tracker, directory issues.Directory, cfg Config) *Reconciler {
	return &Reconciler{
		resolver: NewResolver(tracker, cfg.ProjectKey, cfg.OpenStatuses),
		status:   NewStatusSynchronizer(tracker, cfg.TransitionID, cfg.DoneStatus, cfg.DryRun),
		assignee: NewAssigneeSynchronizer(tracker, directory, cfg.DryRun),
		comments: NewCommentReplicator(tracker, cfg.DryRun),
	}
}

// Reconcile processes one closed alert and returns its outcome. The three
// synchronizers run sequentially against the resolved issue; each failure is
// recorded on the outcome and the remaining synchronizers still run.
func (r *Reconciler) Reconcile(ctx context.Context, alert *alerts.Alert) Outcome {
	outcome := Outcome{AlertID: alert.ID}

	match, err := r.resolver.Resolve(ctx, alert)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if match == nil {
		return outcome
	}

	issue := match.Issue
	outcome.IssueKey = issue.Key
	outcome.Warning = match.Warning

	outcome.Status = r.status.Apply(ctx, issue, alert)
	outcome.Assignee = r.assignee.Apply(ctx, issue, alert)
	outcome.Comments = r.comments.Apply(ctx, issue, alert)

	return outcome
}
