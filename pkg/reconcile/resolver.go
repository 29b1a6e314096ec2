package reconcile

import (
	"context"
	"sort"
	"strings"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/errors"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// Resolver maps one alert to at most one eligible issue. An issue is
// eligible when its status is in the configured open set and its description
// contains the alert ID as an exact token.
type Resolver struct {
	tracker    issues.Tracker
	projectKey string
	statuses   []string
}

// Match is a successful resolution. Warning is non-nil when the match was
// ambiguous and resolved by tie-break.
type Match struct {
	Issue   *issues.Issue
	Warning error
}

// NewResolver creates a resolver searching the given project, restricted to
// the given open statuses.
func NewResolver(tracker issues.Tracker, projectKey string, statuses []string) *Resolver {
	return &Resolver{
		tracker:    tracker,
		projectKey: projectKey,
		statuses:   statuses,
	}
}

// Resolve returns the eligible issue for the alert, or nil when none
// matches. A missing match is a valid outcome, not an error: the native
// integration may not have created the issue yet, or it already left the
// open status set.
//
// When more than one issue matches (a data-integrity anomaly upstream), the
// most recently updated issue wins and Match.Warning records the full match
// set. Updating a single issue bounds the blast radius of an ambiguous
// match; it is a documented trade-off, never a silent success.
func (r *Resolver) Resolve(ctx context.Context, alert *alerts.Alert) (*Match, error) {
	found, err := r.tracker.Search(ctx, issues.SearchQuery{
		ProjectKey:          r.projectKey,
		Statuses:            r.statuses,
		DescriptionContains: alert.ID,
	})
	if err != nil {
		return nil, err
	}

	// The tracker's text search is substring-based; re-verify each hit with
	// exact-token matching so "ALERT-123" never claims "ALERT-123extra".
	var matches []issues.Issue
	for i := range found {
		if containsToken(found[i].Description, alert.ID) {
			matches = append(matches, found[i])
		}
	}

	switch len(matches) {
	case 0:
		logging.Debug().Str("alert_id", alert.ID).Msg("No eligible issue for alert")
		return nil, nil
	case 1:
		return &Match{Issue: &matches[0]}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})

	keys := make([]string, len(matches))
	for i := range matches {
		keys[i] = matches[i].Key
	}
	warning := &errors.AmbiguousMatchError{
		AlertID:   alert.ID,
		IssueKeys: keys,
		ChosenKey: matches[0].Key,
	}
	logging.Warn().
		Str("alert_id", alert.ID).
		Strs("issue_keys", keys).
		Str("chosen", matches[0].Key).
		Msg("Multiple eligible issues matched alert; updating most recently updated only")

	return &Match{Issue: &matches[0], Warning: warning}, nil
}

// containsToken reports whether text contains token delimited by non-token
// characters (or the text boundaries). Token characters are letters, digits,
// and the punctuation alert IDs are built from, so a longer ID sharing a
// prefix never matches.
func containsToken(text, token string) bool {
	if token == "" {
		return false
	}
	for start := 0; start+len(token) <= len(text); {
		idx := strings.Index(text[start:], token)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(token)
		leftOK := idx == 0 || !isTokenChar(rune(text[idx-1]))
		rightOK := end == len(text) || !isTokenChar(rune(text[end]))
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
	return false
}

// isTokenChar reports whether c can be part of an alert ID token.
func isTokenChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == ':':
		return true
	}
	return false
}
