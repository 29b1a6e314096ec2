package reconcile

import (
	"strings"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
)

// pendingComments returns the alert comments not yet represented on the
// issue, preserving the alert's chronological order. A comment counts as
// represented iff some existing issue comment body contains its marker; the
// check is a pure function of the two comment sets, so a rerun after a
// partial write resumes from the first unreplicated comment.
func pendingComments(alert *alerts.Alert, issue *issues.Issue) []alerts.Comment {
	var pending []alerts.Comment
	for _, c := range alert.Comments {
		if c.Body == "" {
			continue
		}
		if !hasMarker(issue, Marker(alert.ID, c)) {
			pending = append(pending, c)
		}
	}
	return pending
}

// hasMarker reports whether any existing issue comment embeds the marker.
func hasMarker(issue *issues.Issue, marker string) bool {
	for _, c := range issue.Comments {
		if strings.Contains(c.Body, marker) {
			return true
		}
	}
	return false
}
