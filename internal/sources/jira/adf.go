package jira

import "strings"

// adfNode is the subset of the Atlassian Document Format the adapter needs:
// enough to render plain-text comment bodies and to flatten descriptions and
// comments back to text for token matching and marker scanning.
type adfNode struct {
	Type    string    `json:"type"`
	Version int       `json:"version,omitempty"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// textToADF renders a plain-text body as an ADF document, one paragraph per
// line. Blank lines become empty paragraphs so flattening restores the
// original line structure.
func textToADF(text string) adfNode {
	doc := adfNode{Type: "doc", Version: 1}
	for _, line := range strings.Split(text, "\n") {
		p := adfNode{Type: "paragraph"}
		if line != "" {
			p.Content = []adfNode{{Type: "text", Text: line}}
		}
		doc.Content = append(doc.Content, p)
	}
	return doc
}

// adfToText flattens an ADF document to plain text. Block-level nodes
// contribute line breaks; inline formatting is dropped, text is kept.
func adfToText(node adfNode) string {
	var b strings.Builder
	flatten(node, &b)
	return strings.TrimRight(b.String(), "\n")
}

func flatten(node adfNode, b *strings.Builder) {
	if node.Text != "" {
		b.WriteString(node.Text)
	}
	for _, child := range node.Content {
		flatten(child, b)
	}
	switch node.Type {
	case "paragraph", "heading", "blockquote", "codeBlock", "listItem":
		b.WriteString("\n")
	case "hardBreak":
		b.WriteString("\n")
	}
}
