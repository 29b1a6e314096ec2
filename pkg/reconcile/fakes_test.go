package reconcile_test

import (
	"context"
	"time"

	"github.com/Jarhead00/falcon2jira/pkg/issues"
)

// fakeTracker is an in-memory issues.Tracker recording every mutation.
type fakeTracker struct {
	searchResults []issues.Issue
	searchErr     error

	transitions    []issues.Transition
	transitionsErr error

	transitionErr error
	assigneeErr   error

	// commentErrAfter fails AddComment once len(addedComments) reaches it;
	// negative means never fail.
	commentErrAfter int
	commentErr      error

	transitioned  []string // issue keys transitioned
	assigned      map[string]string
	addedComments map[string][]string
	searchQueries []issues.SearchQuery
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		transitions:     []issues.Transition{{ID: "4", To: "Done"}},
		commentErrAfter: -1,
		assigned:        make(map[string]string),
		addedComments:   make(map[string][]string),
	}
}

func (f *fakeTracker) Search(_ context.Context, query issues.SearchQuery) ([]issues.Issue, error) {
	f.searchQueries = append(f.searchQueries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func (f *fakeTracker) Transitions(_ context.Context, _ string) ([]issues.Transition, error) {
	if f.transitionsErr != nil {
		return nil, f.transitionsErr
	}
	return f.transitions, nil
}

func (f *fakeTracker) Transition(_ context.Context, issueKey, _ string) error {
	if f.transitionErr != nil {
		return f.transitionErr
	}
	f.transitioned = append(f.transitioned, issueKey)
	return nil
}

func (f *fakeTracker) SetAssignee(_ context.Context, issueKey, accountID string) error {
	if f.assigneeErr != nil {
		return f.assigneeErr
	}
	f.assigned[issueKey] = accountID
	return nil
}

func (f *fakeTracker) AddComment(_ context.Context, issueKey, body string) error {
	if f.commentErrAfter >= 0 && len(f.addedComments[issueKey]) >= f.commentErrAfter {
		return f.commentErr
	}
	f.addedComments[issueKey] = append(f.addedComments[issueKey], body)
	return nil
}

// fakeDirectory resolves display names from a fixed map.
type fakeDirectory struct {
	users map[string]*issues.User
	err   error
}

func (f *fakeDirectory) ResolveUser(_ context.Context, name string) (*issues.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[name], nil
}

func openIssue(key, status, description string, updatedAt time.Time) issues.Issue {
	return issues.Issue{
		Key:         key,
		Status:      status,
		Description: description,
		UpdatedAt:   updatedAt,
	}
}
