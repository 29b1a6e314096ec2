// Package falcon2jira reconciles closed CrowdStrike Falcon alerts with the
// Jira issues an upstream integration created for them. Each scheduled run
// fetches a bounded batch of closed alerts, matches every alert to at most
// one open issue, and applies three idempotent updates: a workflow
// transition, the assignee, and exactly-once comment replication.
//
// All state of record lives in Jira itself (issue status, assignee, and the
// provenance markers embedded in replicated comments), so a run can be
// repeated or interrupted at any point without leaving hidden bookkeeping
// behind.
package falcon2jira

import (
	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/errors"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
	"github.com/Jarhead00/falcon2jira/pkg/reconcile"
)

// Client drives reconciliation runs against one alert source and one issue
// tracker.
type Client struct {
	source    alerts.Source
	tracker   issues.Tracker
	directory issues.Directory
	config    reconcile.Config
	maxAlerts int
}

// New creates a Client from the given options. The alert source, tracker,
// and directory are required.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		maxAlerts: 5,
		config: reconcile.Config{
			OpenStatuses: []string{"To Do", "In Progress"},
			TransitionID: "4",
			DoneStatus:   "Done",
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.source == nil {
		return nil, &errors.ValidationError{Field: "Source", Message: "alert source is required"}
	}
	if c.tracker == nil {
		return nil, &errors.ValidationError{Field: "Tracker", Message: "issue tracker is required"}
	}
	if c.directory == nil {
		return nil, &errors.ValidationError{Field: "Directory", Message: "user directory is required"}
	}
	if c.config.ProjectKey == "" {
		return nil, &errors.ValidationError{Field: "ProjectKey", Message: "project key is required"}
	}
	if c.maxAlerts <= 0 {
		return nil, &errors.ValidationError{Field: "MaxAlerts", Value: c.maxAlerts, Message: "must be positive"}
	}
	return c, nil
}
