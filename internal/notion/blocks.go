package notion

// Block is the tagged union over content block kinds. As with PropertyValue,
// exactly one kind field matches Type and is populated.
type Block struct {
	Type             string         `json:"type"`
	Paragraph        *RichTextBody  `json:"paragraph,omitempty"`
	Heading1         *RichTextBody  `json:"heading_1,omitempty"`
	Heading2         *RichTextBody  `json:"heading_2,omitempty"`
	Heading3         *RichTextBody  `json:"heading_3,omitempty"`
	BulletedListItem *RichTextBody  `json:"bulleted_list_item,omitempty"`
	Callout          *CalloutBody   `json:"callout,omitempty"`
	Code             *CodeBody      `json:"code,omitempty"`
	Image            *ImageBody     `json:"image,omitempty"`
	Divider          *struct{}      `json:"divider,omitempty"`
}

// RichTextBody is the payload shared by paragraph, heading and list blocks.
type RichTextBody struct {
	RichText []RichText `json:"rich_text"`
	Color    string     `json:"color,omitempty"`
}

// Icon is a block icon; only emoji icons are produced here.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// CalloutBody is the payload of a callout block.
type CalloutBody struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
	Color    string     `json:"color,omitempty"`
}

// CodeBody is the payload of a code block.
type CodeBody struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
	Caption  []RichText `json:"caption,omitempty"`
}

// ImageBody is the payload of an external image block.
type ImageBody struct {
	Type     string        `json:"type"`
	External *ExternalFile `json:"external,omitempty"`
	Caption  []RichText    `json:"caption,omitempty"`
}

// Paragraph builds a paragraph block from spans.
func Paragraph(spans ...RichText) Block {
	return Block{Type: "paragraph", Paragraph: &RichTextBody{RichText: spans}}
}

// Heading builds a heading block of the given level (clamped to 1..3).
func Heading(level int, spans ...RichText) Block {
	body := &RichTextBody{RichText: spans}
	switch {
	case level <= 1:
		return Block{Type: "heading_1", Heading1: body}
	case level == 2:
		return Block{Type: "heading_2", Heading2: body}
	default:
		return Block{Type: "heading_3", Heading3: body}
	}
}

// BulletedItem builds a bulleted list item block.
func BulletedItem(spans ...RichText) Block {
	return Block{Type: "bulleted_list_item", BulletedListItem: &RichTextBody{RichText: spans}}
}

// CodeBlock builds a code block with the given language.
func CodeBlock(language, source string) Block {
	return Block{Type: "code", Code: &CodeBody{
		Language: language,
		RichText: []RichText{NewText(source)},
	}}
}

// ExternalImage builds an image block pointing at an external URL.
func ExternalImage(url string, caption ...RichText) Block {
	return Block{Type: "image", Image: &ImageBody{
		Type:     "external",
		External: &ExternalFile{URL: url},
		Caption:  caption,
	}}
}

// DividerBlock builds a divider.
func DividerBlock() Block {
	return Block{Type: "divider", Divider: &struct{}{}}
}

// BlockList widens typed blocks into the []any shape the gateway sends, which
// also carries caller-supplied pass-through blocks.
func BlockList(blocks []Block) []any {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]any, len(blocks))
	for i, b := range blocks {
		out[i] = b
	}
	return out
}
