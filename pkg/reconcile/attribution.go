package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
)

// markerPrefix opens every provenance marker embedded in replicated comments.
// The marker is the dedup key: as long as it survives in the issue comment
// body, the original alert comment is considered replicated.
const markerPrefix = "[falcon2jira:"

// Marker returns the deterministic provenance marker for one alert comment.
// The marker is a pure function of (alertID, author, createdAt): the comment
// body is deliberately excluded so that edits to an already-replicated
// comment never cause a duplicate.
//
// Field separators inside the marker are escaped and the timestamp keeps
// its fractional seconds, so distinct inputs can never render the same
// marker, even for comments by one author within the same second.
func Marker(alertID string, c alerts.Comment) string {
	return fmt.Sprintf("%s%s|%s|%s]",
		markerPrefix,
		escapeMarkerField(alertID),
		escapeMarkerField(c.Author),
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
}

// escapeMarkerField escapes the marker delimiters within a field value.
func escapeMarkerField(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `|`, `\|`, `]`, `\]`)
	return r.Replace(s)
}

// FormatComment renders the replicated comment body: the machine-parseable
// marker, a human-readable attribution header, then the original body
// verbatim. Output is byte-identical for identical input; the marker-based
// dedup depends on that stability across runs.
func FormatComment(alertID string, c alerts.Comment) string {
	var b strings.Builder
	b.WriteString(Marker(alertID, c))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Originally posted by %s at %s:",
		c.Author, c.CreatedAt.UTC().Format("2006-01-02 15:04:05 MST")))
	b.WriteString("\n\n")
	b.WriteString(c.Body)
	return b.String()
}
