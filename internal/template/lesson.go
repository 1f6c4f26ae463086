// Package template generates page bodies from named templates. Output is
// deterministic for the same inputs: no timestamps, no randomness, no network.
package template

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/notionbridge/internal/codefmt"
	"git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
	"git.home.luguber.info/inful/notionbridge/internal/notion"
)

// LessonV1 is the only template currently defined: a fixed-structure lesson
// body walking the reader through an HTML edit, a CSS edit and a preview.
const LessonV1 = "lesson-v1"

// Known reports whether name identifies a template.
func Known(name string) bool {
	return name == LessonV1
}

// Default snippet bodies used when the caller provides none.
const (
	defaultHTMLSnippet = "<body>\n  <!-- start -->\n  <!-- end -->"
	defaultCSSSnippet  = "/* add code here */"
)

const previewImageURL = "https://static.luguber.info/notionbridge/go-live.png"

// Vars parameterizes a template render.
type Vars struct {
	SampleTitle string
	HTMLCode    string
	CSSCode     string
}

// Renderer renders named templates, formatting embedded code snippets through
// the given formatter.
type Renderer struct {
	formatter *codefmt.Formatter
}

// NewRenderer creates a Renderer.
func NewRenderer(formatter *codefmt.Formatter) *Renderer {
	return &Renderer{formatter: formatter}
}

// Render produces the block sequence for the named template. Unknown names
// are rejected; the HTTP boundary normally filters them first.
func (r *Renderer) Render(ctx context.Context, name string, vars Vars) ([]notion.Block, error) {
	if name != LessonV1 {
		return nil, errors.TemplateError(fmt.Sprintf("unknown template %q", name)).Build()
	}
	return r.renderLesson(ctx, vars), nil
}

func (r *Renderer) renderLesson(ctx context.Context, vars Vars) []notion.Block {
	htmlCode := vars.HTMLCode
	if htmlCode == "" {
		htmlCode = defaultHTMLSnippet
	}
	cssCode := vars.CSSCode
	if cssCode == "" {
		cssCode = defaultCSSSnippet
	}
	htmlCode = r.formatter.Format(ctx, codefmt.KindHTML, htmlCode)
	cssCode = r.formatter.Format(ctx, codefmt.KindCSS, cssCode)

	bracketed := "[" + vars.SampleTitle + "]"
	bold := notion.Annotations{Bold: true}
	code := notion.Annotations{Code: true}
	const headingColor = "orange_background"

	return []notion.Block{
		{Type: "callout", Callout: &notion.CalloutBody{
			RichText: []notion.RichText{
				notion.NewStyledText(bracketed, bold),
				notion.NewStyledText(", let's build it!", bold),
				notion.NewText("\n"),
				notion.NewText("In this lesson you will create "),
				notion.NewText(bracketed),
				notion.NewText(" step by step."),
			},
			Icon:  &notion.Icon{Type: "emoji", Emoji: "ℹ️"},
			Color: "gray_background",
		}},

		headline(headingColor, "Step 1: Edit the HTML"),
		notion.Paragraph(
			notion.NewText("Add the code below (from the start marker to the end marker) to "),
			notion.NewStyledText("index.html", code),
			notion.NewText(" right after the opening "),
			notion.NewStyledText("body", code),
			notion.NewText(" tag."),
		),
		notion.CodeBlock("html", htmlCode),

		headline(headingColor, "Step 2: Add the CSS"),
		notion.Paragraph(
			notion.NewText("Next, append the following rules to your existing "),
			notion.NewStyledText("style.css", code),
			notion.NewText("."),
		),
		notion.CodeBlock("css", cssCode),

		headline(headingColor, "Step 3: Preview with Go Live"),
		notion.Paragraph(
			notion.NewText("Click Go Live in the bottom-right corner and check the preview in your browser."),
		),
		notion.ExternalImage(previewImageURL, notion.NewText("Where to find Go Live")),

		headline(headingColor, "Done!"),
		notion.Paragraph(
			notion.NewText("If your page looks like this, you are finished!"),
		),
	}
}

func headline(color, text string) notion.Block {
	return notion.Block{Type: "heading_2", Heading2: &notion.RichTextBody{
		RichText: []notion.RichText{notion.NewText(text)},
		Color:    color,
	}}
}
