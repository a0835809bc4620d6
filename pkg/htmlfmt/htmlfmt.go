// Package htmlfmt normalizes free-text tool input into the constrained HTML
// subset the backing API stores for report and vulnerability fields.
package htmlfmt

import "strings"

// Kind selects the HTML shape Format produces.
type Kind string

const (
	// KindParagraph wraps the text in a single <p> element.
	KindParagraph Kind = "paragraph"
	// KindList renders delimiter-separated text as a <ul>; with fewer than
	// two segments it falls back to paragraph wrapping.
	KindList Kind = "list"
)

// Format converts free text into an HTML fragment. Empty input is returned
// unchanged, and input that already contains both '<' and '>' is assumed to
// be pre-formatted HTML and passed through untouched, which makes Format
// idempotent.
func Format(content string, kind Kind) string {
	if content == "" {
		return content
	}
	if strings.Contains(content, "<") && strings.Contains(content, ">") {
		return content
	}

	if kind == KindList {
		segments := splitSegments(content)
		if len(segments) > 1 {
			var b strings.Builder
			b.WriteString("<ul>")
			for _, segment := range segments {
				b.WriteString("<li>")
				b.WriteString(segment)
				b.WriteString("</li>")
			}
			b.WriteString("</ul>")
			return b.String()
		}
	}

	return "<p>" + content + "</p>"
}

// splitSegments splits on newline, semicolon, comma or pipe, trims each
// piece and drops empty ones, preserving original order.
func splitSegments(content string) []string {
	parts := strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == ';' || r == ',' || r == '|'
	})
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}
