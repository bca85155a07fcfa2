package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// BlocksToMarkdown converts a page's block list into one markdown document:
// per-block fragments joined by a blank line, plus a trailing blank line.
// Block kinds outside the supported set contribute nothing.
func BlocksToMarkdown(blocks []notionapi.Block) string {
	var parts []string

	for _, block := range blocks {
		switch b := block.(type) {
		case *notionapi.ParagraphBlock:
			parts = append(parts, RenderRichText(b.Paragraph.RichText))
		case *notionapi.Heading1Block:
			parts = append(parts, "# "+RenderRichText(b.Heading1.RichText))
		case *notionapi.Heading2Block:
			parts = append(parts, "## "+RenderRichText(b.Heading2.RichText))
		case *notionapi.Heading3Block:
			parts = append(parts, "### "+RenderRichText(b.Heading3.RichText))
		case *notionapi.BulletedListItemBlock:
			parts = append(parts, "- "+RenderRichText(b.BulletedListItem.RichText))
		case *notionapi.NumberedListItemBlock:
			// Flat marker; ordered-list renumbering is the renderer's job.
			parts = append(parts, "1. "+RenderRichText(b.NumberedListItem.RichText))
		case *notionapi.CodeBlock:
			parts = append(parts, "```"+b.Code.Language+"\n"+plainText(b.Code.RichText)+"\n```")
		case *notionapi.QuoteBlock:
			parts = append(parts, "> "+RenderRichText(b.Quote.RichText))
		case *notionapi.ImageBlock:
			if url := imageURL(b.Image); url != "" {
				parts = append(parts, "![image]("+url+")")
			}
		}
	}

	return strings.Join(parts, "\n\n") + "\n\n"
}

// imageURL picks the hosted-file URL over the external one.
func imageURL(img notionapi.Image) string {
	if img.File != nil && img.File.URL != "" {
		return img.File.URL
	}
	if img.External != nil && img.External.URL != "" {
		return img.External.URL
	}
	return ""
}
