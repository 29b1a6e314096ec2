package reconcile

import (
	"context"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/errors"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// StatusSynchronizer transitions a matched issue to the configured done
// status when the alert has closed.
type StatusSynchronizer struct {
	tracker      issues.Tracker
	transitionID string
	doneStatus   string
	dryRun       bool
}

// NewStatusSynchronizer creates a status synchronizer performing the given
// workflow transition. doneStatus is the status name the transition lands
// on; issues already there are skipped without a tracker call.
func NewStatusSynchronizer(tracker issues.Tracker, transitionID, doneStatus string, dryRun bool) *StatusSynchronizer {
	return &StatusSynchronizer{
		tracker:      tracker,
		transitionID: transitionID,
		doneStatus:   doneStatus,
		dryRun:       dryRun,
	}
}

// Apply transitions the issue unless it is already in the done status. The
// configured transition must be a capability of the issue's current status;
// when it is not, Apply fails with an UnsupportedTransitionError instead of
// silently dropping the update.
func (s *StatusSynchronizer) Apply(ctx context.Context, issue *issues.Issue, alert *alerts.Alert) Result {
	if issue.Status == s.doneStatus {
		logging.Debug().
			Str("issue_key", issue.Key).
			Str("status", issue.Status).
			Msg("Issue already in done status")
		return skipped()
	}

	available, err := s.tracker.Transitions(ctx, issue.Key)
	if err != nil {
		return failed(0, err)
	}
	if !transitionAvailable(available, s.transitionID) {
		ids := make([]string, len(available))
		for i, t := range available {
			ids[i] = t.ID
		}
		return failed(0, &errors.UnsupportedTransitionError{
			IssueKey:     issue.Key,
			Status:       issue.Status,
			TransitionID: s.transitionID,
			Available:    ids,
		})
	}

	if s.dryRun {
		logging.Info().
			Str("issue_key", issue.Key).
			Str("transition_id", s.transitionID).
			Msg("Dry run: would transition issue")
		return applied(1)
	}

	if err := s.tracker.Transition(ctx, issue.Key, s.transitionID); err != nil {
		return failed(0, err)
	}
	logging.Info().
		Str("issue_key", issue.Key).
		Str("alert_id", alert.ID).
		Str("old_status", issue.Status).
		Str("new_status", s.doneStatus).
		Msg("Issue transitioned")
	return applied(1)
}

func transitionAvailable(transitions []issues.Transition, id string) bool {
	for _, t := range transitions {
		if t.ID == id {
			return true
		}
	}
	return false
}
