// Package issues defines the tracker-side domain types and the contracts the
// reconciler mutates issues through. Issues are created upstream by the
// native integration; the reconciler only patches existing ones, it never
// creates or deletes them.
package issues

import (
	"context"
	"time"
)

// Issue is a tracked work item in the issue tracker.
type Issue struct {
	// Key is the tracker-assigned identifier, e.g. "SEC-9".
	Key string

	// Status is the issue's workflow status name, e.g. "To Do".
	Status string

	// Assignee is the current assignee, nil when unassigned.
	Assignee *User

	// Description is the issue description flattened to plain text. The
	// upstream integration embeds the originating alert ID in it.
	Description string

	// UpdatedAt is the tracker's last-modified timestamp, used to break
	// ties when more than one issue matches an alert.
	UpdatedAt time.Time

	// Comments are the issue's existing comments, oldest first.
	Comments []Comment
}

// Comment is a single comment on an issue.
type Comment struct {
	Body      string
	Author    *User
	CreatedAt time.Time
}

// User is a tracker user reference.
type User struct {
	// AccountID is the tracker's stable user identifier.
	AccountID string

	// DisplayName is the human-readable name.
	DisplayName string
}

// Transition is a workflow transition available from an issue's current status.
type Transition struct {
	ID string
	To string // target status name
}

// SearchQuery restricts an issue search.
type SearchQuery struct {
	// ProjectKey scopes the search to one project.
	ProjectKey string

	// Statuses are the workflow statuses to include.
	Statuses []string

	// DescriptionContains is the token the issue description must contain.
	// The tracker's text search may be broader than exact-token matching;
	// callers re-verify matches against the plain description.
	DescriptionContains string
}

// Tracker is the issue tracker contract the reconciler mutates issues
// through. Every mutation is safe to repeat; the reconciler's own skip
// checks are the primary idempotence guard.
type Tracker interface {
	// Search returns issues matching the query, most recently updated first.
	// Returned issues include status, assignee, description, and comments.
	Search(ctx context.Context, query SearchQuery) ([]Issue, error)

	// Transitions lists the workflow transitions available from the issue's
	// current status.
	Transitions(ctx context.Context, issueKey string) ([]Transition, error)

	// Transition performs the given workflow transition.
	Transition(ctx context.Context, issueKey, transitionID string) error

	// SetAssignee assigns the issue to the given account.
	SetAssignee(ctx context.Context, issueKey, accountID string) error

	// AddComment appends a plain-text comment body to the issue.
	AddComment(ctx context.Context, issueKey, body string) error
}

// Directory resolves display names to tracker users.
type Directory interface {
	// ResolveUser returns the tracker user for a display name or email, or
	// (nil, nil) when no account matches.
	ResolveUser(ctx context.Context, name string) (*User, error)
}
