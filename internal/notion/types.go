// Package notion holds the wire types and the HTTP client for the remote
// document store. Property values and content blocks are tagged unions: a
// value carries exactly one populated tag, and the JSON encoding omits all
// empty tags.
package notion

import "encoding/json"

// Properties maps property names to values bound for the store. A value is
// either a constructed *PropertyValue or a caller-supplied map passed through
// unchanged.
type Properties map[string]any

// propertyTags lists the recognized property value tags in the order they are
// attempted when deciding whether a raw object is already store-typed.
var propertyTags = [...]string{
	"title",
	"rich_text",
	"number",
	"checkbox",
	"url",
	"date",
	"select",
	"multi_select",
	"email",
	"phone_number",
	"people",
	"files",
	"status",
	"relation",
}

// AsPropertyValue reports whether v is a raw object carrying one of the known
// property value tags. Matching objects are passed through unchanged; anything
// matching no tag is for the caller to drop.
func AsPropertyValue(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, tag := range propertyTags {
		if _, present := m[tag]; present {
			return m, true
		}
	}
	return nil, false
}

// Text is the content payload of a text-typed rich text span.
type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is an inline link attached to a text span.
type Link struct {
	URL string `json:"url"`
}

// Annotations carries the optional style flags of a rich text span.
type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"`
}

// IsZero reports whether no annotation flag is set.
func (a Annotations) IsZero() bool {
	return a == Annotations{}
}

// RichText is a run of text with optional style annotations.
type RichText struct {
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// NewText builds a plain text span.
func NewText(content string) RichText {
	return RichText{Type: "text", Text: &Text{Content: content}}
}

// NewStyledText builds a text span with the given annotations.
func NewStyledText(content string, a Annotations) RichText {
	rt := NewText(content)
	if !a.IsZero() {
		rt.Annotations = &a
	}
	return rt
}

// DateValue is a date property payload. Only the start is ever populated by
// the normalizer.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// SelectOption names a select, multi-select or status option.
type SelectOption struct {
	Name string `json:"name"`
}

// UserRef references a person by ID.
type UserRef struct {
	Object string `json:"object,omitempty"`
	ID     string `json:"id"`
}

// PageRef references a page by ID (relation payloads).
type PageRef struct {
	ID string `json:"id"`
}

// ExternalFile points at an externally hosted file.
type ExternalFile struct {
	URL string `json:"url"`
}

// FileRef is one entry of a files property.
type FileRef struct {
	Type     string        `json:"type,omitempty"`
	Name     string        `json:"name,omitempty"`
	External *ExternalFile `json:"external,omitempty"`
}

// PropertyValue is the tagged union over the store's property kinds. Exactly
// one tag is populated per value; all others stay empty and are omitted from
// the encoding.
type PropertyValue struct {
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Email       *string        `json:"email,omitempty"`
	PhoneNumber *string        `json:"phone_number,omitempty"`
	People      []UserRef      `json:"people,omitempty"`
	Files       []FileRef      `json:"files,omitempty"`
	Status      *SelectOption  `json:"status,omitempty"`
	Relation    []PageRef      `json:"relation,omitempty"`
}

// TitleValue builds a title property from plain text.
func TitleValue(content string) *PropertyValue {
	return &PropertyValue{Title: []RichText{NewText(content)}}
}

// RichTextValue builds a rich_text property from plain text.
func RichTextValue(content string) *PropertyValue {
	return &PropertyValue{RichText: []RichText{NewText(content)}}
}

// NumberValue builds a number property.
func NumberValue(n float64) *PropertyValue {
	return &PropertyValue{Number: &n}
}

// CheckboxValue builds a checkbox property.
func CheckboxValue(b bool) *PropertyValue {
	return &PropertyValue{Checkbox: &b}
}

// URLValue builds a url property.
func URLValue(u string) *PropertyValue {
	return &PropertyValue{URL: &u}
}

// DateStartValue builds a date property with only a start.
func DateStartValue(start string) *PropertyValue {
	return &PropertyValue{Date: &DateValue{Start: start}}
}

// Page is a record in the remote store. The full response payload is retained
// so callers can return it verbatim; only the fields the upsert flow needs are
// decoded out of it.
type Page struct {
	ID  string
	URL string

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw payload alongside the decoded ID and URL.
func (p *Page) UnmarshalJSON(b []byte) error {
	var head struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	p.ID = head.ID
	p.URL = head.URL
	p.raw = append(p.raw[:0], b...)
	return nil
}

// MarshalJSON re-emits the page exactly as the store returned it.
func (p Page) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(struct {
		ID  string `json:"id"`
		URL string `json:"url,omitempty"`
	}{ID: p.ID, URL: p.URL})
}
