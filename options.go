package falcon2jira

import (
	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
)

// Option configures a Client.
type Option func(*Client)

// WithSource sets the alert source.
func WithSource(source alerts.Source) Option {
	return func(c *Client) {
		c.source = source
	}
}

// WithTracker sets the issue tracker.
func WithTracker(tracker issues.Tracker) Option {
	return func(c *Client) {
		c.tracker = tracker
	}
}

// WithDirectory sets the tracker user directory.
func WithDirectory(directory issues.Directory) Option {
	return func(c *Client) {
		c.directory = directory
	}
}

// WithProjectKey scopes issue matching to one tracker project.
func WithProjectKey(key string) Option {
	return func(c *Client) {
		c.config.ProjectKey = key
	}
}

// WithOpenStatuses sets the issue statuses still eligible for updates.
func WithOpenStatuses(statuses ...string) Option {
	return func(c *Client) {
		c.config.OpenStatuses = statuses
	}
}

// WithTransition sets the workflow transition that closes an issue and the
// status name it lands on.
func WithTransition(transitionID, doneStatus string) Option {
	return func(c *Client) {
		c.config.TransitionID = transitionID
		c.config.DoneStatus = doneStatus
	}
}

// WithMaxAlerts caps how many closed alerts one run processes.
func WithMaxAlerts(n int) Option {
	return func(c *Client) {
		c.maxAlerts = n
	}
}

// WithDryRun logs intended writes without performing them.
func WithDryRun(dryRun bool) Option {
	return func(c *Client) {
		c.config.DryRun = dryRun
	}
}
