// Package alerts defines the alert-side domain types and the contract the
// reconciler consumes alerts through. Alerts are owned by the security
// platform and are strictly read-only here: the reconciler never mutates or
// acknowledges them.
package alerts

import (
	"context"
	"time"
)

// Status is the lifecycle state of an alert in its source system.
type Status string

// Alert statuses. Only closed alerts are eligible for reconciliation.
const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Alert is a security alert as reported by the source platform.
type Alert struct {
	// ID is the stable composite identifier the upstream integration embeds
	// into the Jira issue description. Matching keys off it.
	ID string

	// Status is the alert's lifecycle state.
	Status Status

	// AssigneeName is the display name of the analyst the alert was assigned
	// to, or empty when unassigned.
	AssigneeName string

	// ClosedAt is when the alert reached closed status.
	ClosedAt time.Time

	// Comments are the analyst comments on the alert, oldest first.
	Comments []Comment
}

// Comment is a single analyst comment on an alert.
type Comment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// Closed reports whether the alert has reached its terminal status.
func (a *Alert) Closed() bool {
	return a.Status == StatusClosed
}

// Source fetches alerts from the security platform.
type Source interface {
	// FetchClosed returns up to limit closed alerts, most recently closed
	// first. Ordering ties are broken by alert ID so repeated runs see a
	// deterministic batch.
	FetchClosed(ctx context.Context, limit int) ([]Alert, error)
}
