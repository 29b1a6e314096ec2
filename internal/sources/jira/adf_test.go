package jira

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/reconcile"
)

func TestTextToADFAndBack(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"single line", "fixed in latest agent"},
		{"multi line", "line one\nline two"},
		{"blank line preserved", "header\n\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, adfToText(textToADF(tt.text)))
		})
	}
}

func TestMarkerSurvivesADFRoundTrip(t *testing.T) {
	// The dedup check scans flattened comment text for the marker; the
	// marker must come back byte-identical from the ADF encoding.
	c := alerts.Comment{
		Author:    "dana@example.com",
		Body:      "fixed",
		CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	body := reconcile.FormatComment("A9", c)

	flattened := adfToText(textToADF(body))
	assert.Contains(t, flattened, reconcile.Marker("A9", c))
}

func TestADFToTextDropsFormatting(t *testing.T) {
	doc := adfNode{Type: "doc", Version: 1, Content: []adfNode{
		{Type: "paragraph", Content: []adfNode{
			{Type: "text", Text: "bold "},
			{Type: "text", Text: "and plain"},
		}},
		{Type: "paragraph", Content: []adfNode{
			{Type: "text", Text: "second"},
		}},
	}}

	assert.Equal(t, "bold and plain\nsecond", adfToText(doc))
}
