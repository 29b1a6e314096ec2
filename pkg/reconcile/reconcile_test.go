package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/errors"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
	"github.com/Jarhead00/falcon2jira/pkg/reconcile"
)

func testConfig() reconcile.Config {
	return reconcile.Config{
		ProjectKey:   "SEC",
		OpenStatuses: []string{"To Do", "In Progress"},
		TransitionID: "4",
		DoneStatus:   "Done",
	}
}

func TestReconcileEndToEnd(t *testing.T) {
	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	tracker := newFakeTracker()
	tracker.searchResults = append(tracker.searchResults,
		openIssue("SEC-9", "To Do", "Falcon escalation A9", time.Now()))
	directory := &fakeDirectory{users: map[string]*issues.User{
		"Dana": {AccountID: "acc-dana", DisplayName: "Dana"},
	}}
	r := reconcile.New(tracker, directory, testConfig())

	alert := &alerts.Alert{
		ID:           "A9",
		Status:       alerts.StatusClosed,
		AssigneeName: "Dana",
		Comments:     []alerts.Comment{{Author: "Dana", Body: "fixed", CreatedAt: t1}},
	}

	outcome := r.Reconcile(context.Background(), alert)

	require.True(t, outcome.Matched())
	assert.Equal(t, "SEC-9", outcome.IssueKey)
	assert.Equal(t, reconcile.Applied, outcome.Status.State)
	assert.Equal(t, reconcile.Applied, outcome.Assignee.State)
	assert.Equal(t, reconcile.Applied, outcome.Comments.State)
	assert.Equal(t, 1, outcome.Comments.Count)
	assert.Empty(t, outcome.Failures())

	assert.Equal(t, []string{"SEC-9"}, tracker.transitioned)
	assert.Equal(t, "acc-dana", tracker.assigned["SEC-9"])
	require.Len(t, tracker.addedComments["SEC-9"], 1)
	body := tracker.addedComments["SEC-9"][0]
	assert.Contains(t, body, reconcile.Marker("A9", alert.Comments[0]))
	assert.Contains(t, body, "fixed")
}

func TestReconcileNoMatchIsNotAnError(t *testing.T) {
	tracker := newFakeTracker()
	r := reconcile.New(tracker, &fakeDirectory{}, testConfig())

	outcome := r.Reconcile(context.Background(), &alerts.Alert{ID: "A1", Status: alerts.StatusClosed})

	assert.False(t, outcome.Matched())
	assert.NoError(t, outcome.Err)
	assert.Empty(t, outcome.Failures())
}

func TestReconcileFieldFailureIsolation(t *testing.T) {
	// Assignee resolution fails; status and comments must still be applied
	// and the outcome must report exactly one failure.
	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	tracker := newFakeTracker()
	tracker.searchResults = append(tracker.searchResults,
		openIssue("SEC-9", "To Do", "A9", time.Now()))
	r := reconcile.New(tracker, &fakeDirectory{}, testConfig())

	alert := &alerts.Alert{
		ID:           "A9",
		Status:       alerts.StatusClosed,
		AssigneeName: "Ghost",
		Comments:     []alerts.Comment{{Author: "Ghost", Body: "done", CreatedAt: t1}},
	}

	outcome := r.Reconcile(context.Background(), alert)

	assert.Equal(t, reconcile.Applied, outcome.Status.State)
	assert.Equal(t, reconcile.Failed, outcome.Assignee.State)
	assert.Equal(t, reconcile.Applied, outcome.Comments.State)

	failures := outcome.Failures()
	require.Len(t, failures, 1)
	var unresolved *errors.UnresolvedAssigneeError
	assert.ErrorAs(t, failures[0], &unresolved)
}

func TestReconcileIdempotent(t *testing.T) {
	// After a successful first pass the issue reflects the alert; a second
	// pass over the updated issue state applies zero actions.
	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	alert := &alerts.Alert{
		ID:           "A9",
		Status:       alerts.StatusClosed,
		AssigneeName: "Dana",
		Comments:     []alerts.Comment{{Author: "Dana", Body: "fixed", CreatedAt: t1}},
	}

	synced := openIssue("SEC-9", "Done", "A9", time.Now())
	synced.Assignee = &issues.User{AccountID: "acc-dana", DisplayName: "Dana"}
	synced.Comments = []issues.Comment{{Body: reconcile.FormatComment("A9", alert.Comments[0])}}

	tracker := newFakeTracker()
	// The resolver's open-status filter already excludes a Done issue, so
	// the synced issue is simply no longer found.
	r := reconcile.New(tracker, &fakeDirectory{}, testConfig())

	outcome := r.Reconcile(context.Background(), alert)

	assert.False(t, outcome.Matched())
	assert.Empty(t, tracker.transitioned)
	assert.Empty(t, tracker.assigned)
	assert.Empty(t, tracker.addedComments)
}

func TestReconcileIdempotentWhileStillOpen(t *testing.T) {
	// Status transition not yet executed upstream but assignee and comments
	// already synced: only the status write happens on rerun.
	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	alert := &alerts.Alert{
		ID:           "A9",
		Status:       alerts.StatusClosed,
		AssigneeName: "Dana",
		Comments:     []alerts.Comment{{Author: "Dana", Body: "fixed", CreatedAt: t1}},
	}

	issue := openIssue("SEC-9", "In Progress", "A9", time.Now())
	issue.Assignee = &issues.User{AccountID: "acc-dana", DisplayName: "Dana"}
	issue.Comments = []issues.Comment{{Body: reconcile.FormatComment("A9", alert.Comments[0])}}

	tracker := newFakeTracker()
	tracker.searchResults = append(tracker.searchResults, issue)
	directory := &fakeDirectory{users: map[string]*issues.User{
		"Dana": {AccountID: "acc-dana", DisplayName: "Dana"},
	}}
	r := reconcile.New(tracker, directory, testConfig())

	outcome := r.Reconcile(context.Background(), alert)

	assert.Equal(t, reconcile.Applied, outcome.Status.State)
	assert.Equal(t, reconcile.Skipped, outcome.Assignee.State)
	assert.Equal(t, reconcile.Skipped, outcome.Comments.State)
	assert.Empty(t, tracker.addedComments)
}

func TestReconcileResolverFailure(t *testing.T) {
	tracker := newFakeTracker()
	tracker.searchErr = errors.NewAPIError("jira", 500, "/search", "boom")
	r := reconcile.New(tracker, &fakeDirectory{}, testConfig())

	outcome := r.Reconcile(context.Background(), &alerts.Alert{ID: "A1", Status: alerts.StatusClosed})

	assert.False(t, outcome.Matched())
	assert.True(t, errors.IsTransient(outcome.Err))
	assert.Contains(t, outcome.Summary(), "failed")
}

func TestOutcomeSummary(t *testing.T) {
	outcome := reconcile.Outcome{
		AlertID:  "A9",
		IssueKey: "SEC-9",
		Status:   reconcile.Result{State: reconcile.Applied, Count: 1},
		Assignee: reconcile.Result{State: reconcile.Skipped},
		Comments: reconcile.Result{State: reconcile.Applied, Count: 2},
	}
	assert.Equal(t,
		"A9 -> SEC-9: status applied, assignee skipped, comments applied (2 added)",
		outcome.Summary())
}
