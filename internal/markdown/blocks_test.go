package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToBlocksHeadingsAndParagraph(t *testing.T) {
	blocks := ToBlocks([]byte("# Intro\n\nSome text here.\n\n### Deep\n"))

	require.Len(t, blocks, 3)
	require.Equal(t, "heading_1", blocks[0].Type)
	require.Equal(t, "Intro", blocks[0].Heading1.RichText[0].Text.Content)
	require.Equal(t, "paragraph", blocks[1].Type)
	require.Equal(t, "heading_3", blocks[2].Type)
}

func TestToBlocksFencedCode(t *testing.T) {
	blocks := ToBlocks([]byte("```css\na { color: red; }\n```\n"))

	require.Len(t, blocks, 1)
	require.Equal(t, "code", blocks[0].Type)
	require.Equal(t, "css", blocks[0].Code.Language)
	require.Equal(t, "a { color: red; }", blocks[0].Code.RichText[0].Text.Content)
}

func TestToBlocksFencedCodeWithoutLanguage(t *testing.T) {
	blocks := ToBlocks([]byte("```\nx\n```\n"))
	require.Equal(t, "plain text", blocks[0].Code.Language)
}

func TestToBlocksInlineStyles(t *testing.T) {
	blocks := ToBlocks([]byte("Mix **bold** and *italic* and `mono`.\n"))

	require.Len(t, blocks, 1)
	spans := blocks[0].Paragraph.RichText

	var bold, italic, mono bool
	for _, s := range spans {
		if s.Annotations == nil {
			continue
		}
		switch s.Text.Content {
		case "bold":
			bold = s.Annotations.Bold
		case "italic":
			italic = s.Annotations.Italic
		case "mono":
			mono = s.Annotations.Code
		}
	}
	require.True(t, bold, "bold span missing")
	require.True(t, italic, "italic span missing")
	require.True(t, mono, "code span missing")
}

func TestToBlocksImageParagraph(t *testing.T) {
	blocks := ToBlocks([]byte("![diagram](https://example.com/d.png)\n"))

	require.Len(t, blocks, 1)
	require.Equal(t, "image", blocks[0].Type)
	require.Equal(t, "https://example.com/d.png", blocks[0].Image.External.URL)
	require.Equal(t, "diagram", blocks[0].Image.Caption[0].Text.Content)
}

func TestToBlocksBulletList(t *testing.T) {
	blocks := ToBlocks([]byte("- first\n- second\n"))

	require.Len(t, blocks, 2)
	require.Equal(t, "bulleted_list_item", blocks[0].Type)
	require.Equal(t, "first", blocks[0].BulletedListItem.RichText[0].Text.Content)
	require.Equal(t, "second", blocks[1].BulletedListItem.RichText[0].Text.Content)
}

func TestToBlocksLink(t *testing.T) {
	blocks := ToBlocks([]byte("See [docs](https://example.com/docs).\n"))

	spans := blocks[0].Paragraph.RichText
	var linked bool
	for _, s := range spans {
		if s.Text != nil && s.Text.Link != nil {
			require.Equal(t, "https://example.com/docs", s.Text.Link.URL)
			linked = true
		}
	}
	require.True(t, linked, "link span missing")
}

func TestToBlocksDividerAndEmpty(t *testing.T) {
	require.Equal(t, "divider", ToBlocks([]byte("---\n"))[0].Type)
	require.Empty(t, ToBlocks(nil))
	require.Empty(t, ToBlocks([]byte("\n\n")))
}
