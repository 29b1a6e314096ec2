package reconcile

import "fmt"

// State classifies what one synchronizer did for one field.
type State string

// Synchronizer result states.
const (
	// Applied means the synchronizer performed a write.
	Applied State = "applied"

	// Skipped means the field was already in the desired state (or had
	// nothing to do). Skips are what make reruns free of side effects.
	Skipped State = "skipped"

	// Failed means the synchronizer could not complete its write. Failure
	// is scoped to the field; sibling synchronizers still run.
	Failed State = "failed"
)

// Result is the outcome of one field-level synchronizer for one alert.
type Result struct {
	State State

	// Count is the number of discrete writes performed, used by the comment
	// replicator to report how many comments were appended.
	Count int

	// Err is set when State is Failed. For partial comment replication it
	// is a *errors.PartialReplicationError and Count still reflects the
	// writes that succeeded.
	Err error
}

// applied returns an Applied result covering n writes.
func applied(n int) Result {
	return Result{State: Applied, Count: n}
}

// skipped returns a Skipped result.
func skipped() Result {
	return Result{State: Skipped}
}

// failed returns a Failed result carrying err and n completed writes.
func failed(n int, err error) Result {
	return Result{State: Failed, Count: n, Err: err}
}

// Outcome is the per-alert record a run accumulates: which issue matched,
// what each synchronizer did, and any warnings raised along the way.
type Outcome struct {
	// AlertID identifies the alert this outcome belongs to.
	AlertID string

	// IssueKey is the matched issue, empty when no eligible issue matched.
	IssueKey string

	// Status, Assignee, and Comments carry the three field-level results.
	// They are zero-valued when no issue matched.
	Status   Result
	Assignee Result
	Comments Result

	// Warning records a non-fatal anomaly, currently only an ambiguous
	// match resolved by tie-break.
	Warning error

	// Err is set when the alert could not be processed at all, e.g. the
	// resolver's search failed.
	Err error
}

// Matched reports whether an eligible issue was found for the alert.
func (o *Outcome) Matched() bool {
	return o.IssueKey != ""
}

// Failures returns the field-level errors collected for this alert.
func (o *Outcome) Failures() []error {
	var errs []error
	if o.Err != nil {
		errs = append(errs, o.Err)
	}
	for _, r := range []Result{o.Status, o.Assignee, o.Comments} {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Summary returns a one-line human-readable account of the outcome.
func (o *Outcome) Summary() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: failed (%v)", o.AlertID, o.Err)
	}
	if !o.Matched() {
		return fmt.Sprintf("%s: no eligible issue", o.AlertID)
	}
	return fmt.Sprintf("%s -> %s: status %s, assignee %s, comments %s (%d added)",
		o.AlertID, o.IssueKey, o.Status.State, o.Assignee.State, o.Comments.State, o.Comments.Count)
}
