package notion

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

func text(s string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: s}}
}

func TestBlocksToMarkdown_Document(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.Heading1Block{Heading1: notionapi.Heading{RichText: text("Title")}},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: text("Hello world")}},
		&notionapi.BulletedListItemBlock{BulletedListItem: notionapi.ListItem{RichText: text("First")}},
	}

	assert.Equal(t, "# Title\n\nHello world\n\n- First\n\n", BlocksToMarkdown(blocks))
}

func TestBlocksToMarkdown_Fragments(t *testing.T) {
	tests := []struct {
		name  string
		block notionapi.Block
		want  string
	}{
		{
			name:  "heading 2",
			block: &notionapi.Heading2Block{Heading2: notionapi.Heading{RichText: text("Sub")}},
			want:  "## Sub\n\n",
		},
		{
			name:  "heading 3",
			block: &notionapi.Heading3Block{Heading3: notionapi.Heading{RichText: text("Deep")}},
			want:  "### Deep\n\n",
		},
		{
			name:  "numbered item keeps flat marker",
			block: &notionapi.NumberedListItemBlock{NumberedListItem: notionapi.ListItem{RichText: text("step")}},
			want:  "1. step\n\n",
		},
		{
			name:  "quote",
			block: &notionapi.QuoteBlock{Quote: notionapi.Quote{RichText: text("wisdom")}},
			want:  "> wisdom\n\n",
		},
		{
			name: "code fence carries language and raw text",
			block: &notionapi.CodeBlock{Code: notionapi.Code{
				RichText: []notionapi.RichText{{PlainText: "fmt.Println(1)", Annotations: &notionapi.Annotations{Bold: true}}},
				Language: "go",
			}},
			want: "```go\nfmt.Println(1)\n```\n\n",
		},
		{
			name: "image prefers hosted file over external",
			block: &notionapi.ImageBlock{Image: notionapi.Image{
				File:     &notionapi.FileObject{URL: "https://files.example/a.png"},
				External: &notionapi.FileObject{URL: "https://cdn.example/b.png"},
			}},
			want: "![image](https://files.example/a.png)\n\n",
		},
		{
			name: "image falls back to external",
			block: &notionapi.ImageBlock{Image: notionapi.Image{
				External: &notionapi.FileObject{URL: "https://cdn.example/b.png"},
			}},
			want: "![image](https://cdn.example/b.png)\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BlocksToMarkdown([]notionapi.Block{tt.block}))
		})
	}
}

func TestBlocksToMarkdown_SkipsUnsupportedKinds(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: text("kept")}},
		&notionapi.TableBlock{},
		&notionapi.DividerBlock{},
		&notionapi.ImageBlock{}, // no URL at all: contributes nothing
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: text("also kept")}},
	}

	assert.Equal(t, "kept\n\nalso kept\n\n", BlocksToMarkdown(blocks))
}
