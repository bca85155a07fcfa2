package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// RenderRichText flattens a rich text sequence into inline markdown. Spans
// are concatenated in order with no separators; each span is wrapped bold,
// then italic, then code, and finally as a link when the span carries one.
func RenderRichText(spans []notionapi.RichText) string {
	if len(spans) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, span := range spans {
		text := span.PlainText
		if a := span.Annotations; a != nil {
			if a.Bold {
				text = "**" + text + "**"
			}
			if a.Italic {
				text = "*" + text + "*"
			}
			if a.Code {
				text = "`" + text + "`"
			}
		}
		if span.Href != "" {
			text = "[" + text + "](" + span.Href + ")"
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// plainText joins span text without any styling. Code blocks carry their
// content raw.
func plainText(spans []notionapi.RichText) string {
	var sb strings.Builder
	for _, span := range spans {
		sb.WriteString(span.PlainText)
	}
	return sb.String()
}
