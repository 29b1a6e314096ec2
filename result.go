package falcon2jira

import (
	"fmt"

	"github.com/Jarhead00/falcon2jira/pkg/reconcile"
)

// Summary is the result of one sync run: every alert's outcome in batch
// order plus aggregate counts, suitable for operational alerting.
type Summary struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	// DryRun reports whether writes were suppressed.
	DryRun bool

	// AlertsFetched is how many closed alerts the batch contained.
	AlertsFetched int

	// IssuesMatched is how many alerts resolved to an eligible issue.
	IssuesMatched int

	// ActionsApplied counts every field-level write across the batch,
	// comments counted individually.
	ActionsApplied int

	// Failures counts field-level and per-alert errors across the batch.
	Failures int

	// Warnings counts non-fatal anomalies such as ambiguous matches.
	Warnings int

	// Outcomes are the per-alert results in batch order.
	Outcomes []reconcile.Outcome
}

// add folds one alert's outcome into the summary.
func (s *Summary) add(outcome reconcile.Outcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	if outcome.Matched() {
		s.IssuesMatched++
	}
	if outcome.Warning != nil {
		s.Warnings++
	}
	s.Failures += len(outcome.Failures())
	for _, r := range []reconcile.Result{outcome.Status, outcome.Assignee, outcome.Comments} {
		if r.State != reconcile.Skipped {
			s.ActionsApplied += r.Count
		}
	}
}

// String returns a one-line account of the run.
func (s *Summary) String() string {
	line := fmt.Sprintf("%d alerts, %d matched, %d actions applied, %d failures, %d warnings",
		s.AlertsFetched, s.IssuesMatched, s.ActionsApplied, s.Failures, s.Warnings)
	if s.DryRun {
		line += " (dry run)"
	}
	return line
}

// Clean reports whether the run completed without any failure.
func (s *Summary) Clean() bool {
	return s.Failures == 0
}
