// Package markdown converts a Markdown body into content blocks, as an
// alternative to sending pre-built blocks or naming a template.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/notionbridge/internal/notion"
)

// ToBlocks parses a Markdown document and flattens its top-level nodes into a
// block sequence. Headings, paragraphs, fenced code, images, bullet lists and
// thematic breaks are mapped; anything else is rendered as plain paragraphs so
// no content is silently lost.
func ToBlocks(source []byte) []notion.Block {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var blocks []notion.Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, convertNode(n, source)...)
	}
	return blocks
}

func convertNode(n gmast.Node, source []byte) []notion.Block {
	switch node := n.(type) {
	case *gmast.Heading:
		return []notion.Block{notion.Heading(node.Level, inlineSpans(node, source, notion.Annotations{})...)}

	case *gmast.Paragraph, *gmast.TextBlock:
		if img, ok := soleImage(n, source); ok {
			return []notion.Block{img}
		}
		spans := inlineSpans(n, source, notion.Annotations{})
		if len(spans) == 0 {
			return nil
		}
		return []notion.Block{notion.Paragraph(spans...)}

	case *gmast.FencedCodeBlock:
		lang := strings.TrimSpace(string(node.Language(source)))
		if lang == "" {
			lang = "plain text"
		}
		return []notion.Block{notion.CodeBlock(lang, blockLines(node, source))}

	case *gmast.CodeBlock:
		return []notion.Block{notion.CodeBlock("plain text", blockLines(node, source))}

	case *gmast.List:
		var items []notion.Block
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			spans := inlineSpans(item, source, notion.Annotations{})
			if len(spans) == 0 {
				continue
			}
			items = append(items, notion.BulletedItem(spans...))
		}
		return items

	case *gmast.ThematicBreak:
		return []notion.Block{notion.DividerBlock()}

	case *gmast.Blockquote:
		var blocks []notion.Block
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			blocks = append(blocks, convertNode(child, source)...)
		}
		return blocks

	default:
		spans := inlineSpans(n, source, notion.Annotations{})
		if len(spans) == 0 {
			return nil
		}
		return []notion.Block{notion.Paragraph(spans...)}
	}
}

// soleImage detects a paragraph consisting of a single image and lifts it
// into an image block.
func soleImage(n gmast.Node, source []byte) (notion.Block, bool) {
	var img *gmast.Image
	count := 0
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		count++
		if i, ok := child.(*gmast.Image); ok {
			img = i
		}
	}
	if count != 1 || img == nil {
		return notion.Block{}, false
	}
	caption := inlineSpans(img, source, notion.Annotations{})
	return notion.ExternalImage(string(img.Destination), caption...), true
}

// inlineSpans walks inline children and emits rich text spans, accumulating
// style annotations down the tree.
func inlineSpans(n gmast.Node, source []byte, style notion.Annotations) []notion.RichText {
	var spans []notion.RichText
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *gmast.Text:
			content := string(node.Segment.Value(source))
			if node.SoftLineBreak() {
				content += " "
			} else if node.HardLineBreak() {
				content += "\n"
			}
			if content != "" {
				spans = append(spans, notion.NewStyledText(content, style))
			}

		case *gmast.String:
			if len(node.Value) > 0 {
				spans = append(spans, notion.NewStyledText(string(node.Value), style))
			}

		case *gmast.CodeSpan:
			s := style
			s.Code = true
			content := nodeText(node, source)
			if content != "" {
				spans = append(spans, notion.NewStyledText(content, s))
			}

		case *gmast.Emphasis:
			s := style
			if node.Level >= 2 {
				s.Bold = true
			} else {
				s.Italic = true
			}
			spans = append(spans, inlineSpans(node, source, s)...)

		case *gmast.Link:
			inner := inlineSpans(node, source, style)
			url := string(node.Destination)
			for i := range inner {
				if inner[i].Text != nil {
					inner[i].Text.Link = &notion.Link{URL: url}
				}
			}
			spans = append(spans, inner...)

		case *gmast.AutoLink:
			url := string(node.URL(source))
			span := notion.NewStyledText(url, style)
			span.Text.Link = &notion.Link{URL: url}
			spans = append(spans, span)

		case *gmast.Image:
			// Inline images inside mixed paragraphs degrade to their alt text.
			spans = append(spans, inlineSpans(node, source, style)...)

		default:
			spans = append(spans, inlineSpans(child, source, style)...)
		}
	}
	return spans
}

// nodeText concatenates the raw text of a node's inline children.
func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*gmast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}

// blockLines joins the raw lines of a code block.
func blockLines(n gmast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}
