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

func TestAssigneeSynchronizerApplies(t *testing.T) {
	tracker := newFakeTracker()
	directory := &fakeDirectory{users: map[string]*issues.User{
		"Dana": {AccountID: "acc-dana", DisplayName: "Dana"},
	}}
	s := reconcile.NewAssigneeSynchronizer(tracker, directory, false)
	issue := openIssue("SEC-9", "To Do", "A9", time.Now())

	result := s.Apply(context.Background(), &issue, &alerts.Alert{ID: "A9", AssigneeName: "Dana"})

	assert.Equal(t, reconcile.Applied, result.State)
	assert.Equal(t, "acc-dana", tracker.assigned["SEC-9"])
}

func TestAssigneeSynchronizerSkipsUnassigned(t *testing.T) {
	tests := []struct {
		name     string
		assignee string
	}{
		{"empty name", ""},
		{"source placeholder", "Unassigned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newFakeTracker()
			s := reconcile.NewAssigneeSynchronizer(tracker, &fakeDirectory{}, false)
			issue := openIssue("SEC-9", "To Do", "A9", time.Now())

			result := s.Apply(context.Background(), &issue, &alerts.Alert{ID: "A9", AssigneeName: tt.assignee})

			assert.Equal(t, reconcile.Skipped, result.State)
			assert.Empty(t, tracker.assigned)
		})
	}
}

func TestAssigneeSynchronizerSkipsWhenAlreadyAssigned(t *testing.T) {
	tracker := newFakeTracker()
	directory := &fakeDirectory{users: map[string]*issues.User{
		"Dana": {AccountID: "acc-dana", DisplayName: "Dana"},
	}}
	s := reconcile.NewAssigneeSynchronizer(tracker, directory, false)
	issue := openIssue("SEC-9", "To Do", "A9", time.Now())
	issue.Assignee = &issues.User{AccountID: "acc-dana", DisplayName: "Dana"}

	result := s.Apply(context.Background(), &issue, &alerts.Alert{ID: "A9", AssigneeName: "Dana"})

	assert.Equal(t, reconcile.Skipped, result.State)
	assert.Empty(t, tracker.assigned)
}

func TestAssigneeSynchronizerUnresolved(t *testing.T) {
	tracker := newFakeTracker()
	s := reconcile.NewAssigneeSynchronizer(tracker, &fakeDirectory{}, false)
	issue := openIssue("SEC-9", "To Do", "A9", time.Now())

	result := s.Apply(context.Background(), &issue, &alerts.Alert{ID: "A9", AssigneeName: "Ghost"})

	assert.Equal(t, reconcile.Failed, result.State)
	var unresolved *errors.UnresolvedAssigneeError
	require.ErrorAs(t, result.Err, &unresolved)
	assert.Equal(t, "Ghost", unresolved.AssigneeName)
	assert.Empty(t, tracker.assigned)
}

func TestAssigneeSynchronizerDirectoryError(t *testing.T) {
	tracker := newFakeTracker()
	directory := &fakeDirectory{err: errors.NewAPIError("jira", 429, "/user/search", "slow down")}
	s := reconcile.NewAssigneeSynchronizer(tracker, directory, false)
	issue := openIssue("SEC-9", "To Do", "A9", time.Now())

	result := s.Apply(context.Background(), &issue, &alerts.Alert{ID: "A9", AssigneeName: "Dana"})

	assert.Equal(t, reconcile.Failed, result.State)
	assert.True(t, errors.IsRateLimited(result.Err))
}

func TestAssigneeSynchronizerDryRun(t *testing.T) {
	tracker := newFakeTracker()
	directory := &fakeDirectory{users: map[string]*issues.User{
		"Dana": {AccountID: "acc-dana", DisplayName: "Dana"},
	}}
	s := reconcile.NewAssigneeSynchronizer(tracker, directory, true)
	issue := openIssue("SEC-9", "To Do", "A9", time.Now())

	result := s.Apply(context.Background(), &issue, &alerts.Alert{ID: "A9", AssigneeName: "Dana"})

	assert.Equal(t, reconcile.Applied, result.State)
	assert.Empty(t, tracker.assigned, "dry run must not write")
}
