package reconcile

import (
	"context"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/errors"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// unassignedPlaceholder is what the alert source reports for alerts that
// were never assigned to an analyst.
const unassignedPlaceholder = "Unassigned"

// AssigneeSynchronizer carries the alert's assignee over to the matched
// issue, resolving the analyst's name to a tracker account.
type AssigneeSynchronizer struct {
	tracker   issues.Tracker
	directory issues.Directory
	dryRun    bool
}

// NewAssigneeSynchronizer creates an assignee synchronizer resolving names
// through the given directory.
func NewAssigneeSynchronizer(tracker issues.Tracker, directory issues.Directory, dryRun bool) *AssigneeSynchronizer {
	return &AssigneeSynchronizer{
		tracker:   tracker,
		directory: directory,
		dryRun:    dryRun,
	}
}

// Apply assigns the issue to the tracker account matching the alert's
// assignee. Unassigned alerts and issues already assigned to the same
// account are skipped. An assignee name with no tracker account fails with
// an UnresolvedAssigneeError; the failure is scoped to this field and never
// blocks the sibling synchronizers.
func (s *AssigneeSynchronizer) Apply(ctx context.Context, issue *issues.Issue, alert *alerts.Alert) Result {
	name := alert.AssigneeName
	if name == "" || name == unassignedPlaceholder {
		return skipped()
	}

	user, err := s.directory.ResolveUser(ctx, name)
	if err != nil {
		return failed(0, err)
	}
	if user == nil {
		return failed(0, &errors.UnresolvedAssigneeError{
			AlertID:      alert.ID,
			AssigneeName: name,
		})
	}

	if issue.Assignee != nil && issue.Assignee.AccountID == user.AccountID {
		logging.Debug().
			Str("issue_key", issue.Key).
			Str("account_id", user.AccountID).
			Msg("Issue already assigned to alert assignee")
		return skipped()
	}

	if s.dryRun {
		logging.Info().
			Str("issue_key", issue.Key).
			Str("assignee", name).
			Msg("Dry run: would set assignee")
		return applied(1)
	}

	if err := s.tracker.SetAssignee(ctx, issue.Key, user.AccountID); err != nil {
		return failed(0, err)
	}
	logging.Info().
		Str("issue_key", issue.Key).
		Str("alert_id", alert.ID).
		Str("assignee", name).
		Msg("Issue assignee updated")
	return applied(1)
}
