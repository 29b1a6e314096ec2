package reconcile

import (
	"context"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/errors"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// CommentReplicator copies alert comments onto the matched issue exactly
// once, keyed by the provenance marker each replicated comment embeds.
type CommentReplicator struct {
	tracker issues.Tracker
	dryRun  bool
}

// NewCommentReplicator creates a comment replicator writing through the
// given tracker.
func NewCommentReplicator(tracker issues.Tracker, dryRun bool) *CommentReplicator {
	return &CommentReplicator{tracker: tracker, dryRun: dryRun}
}

// Apply appends the alert comments not yet represented on the issue, in
// chronological order. A mid-batch failure returns a
// PartialReplicationError carrying how many comments were written; those
// comments already embed their markers, so the next run resumes from the
// first unreplicated comment without any state kept here.
func (r *CommentReplicator) Apply(ctx context.Context, issue *issues.Issue, alert *alerts.Alert) Result {
	pending := pendingComments(alert, issue)
	if len(pending) == 0 {
		logging.Debug().
			Str("issue_key", issue.Key).
			Str("alert_id", alert.ID).
			Msg("No pending comments to replicate")
		return skipped()
	}

	if r.dryRun {
		logging.Info().
			Str("issue_key", issue.Key).
			Int("pending", len(pending)).
			Msg("Dry run: would replicate comments")
		return applied(len(pending))
	}

	written := 0
	for _, c := range pending {
		if err := r.tracker.AddComment(ctx, issue.Key, FormatComment(alert.ID, c)); err != nil {
			return failed(written, &errors.PartialReplicationError{
				IssueKey: issue.Key,
				Written:  written,
				Pending:  len(pending) - written,
				Err:      err,
			})
		}
		written++
	}

	logging.Info().
		Str("issue_key", issue.Key).
		Str("alert_id", alert.ID).
		Int("comments", written).
		Msg("Alert comments replicated")
	return applied(written)
}
