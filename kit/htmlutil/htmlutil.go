package htmlutil

import (
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"
)

type Element struct {
	Tag                 string            `json:"tag,omitempty"`
	Attributes          map[string]string `json:"attributes,omitempty"`
	AttributesKnownSafe map[string]string `json:"attributesKnownSafe,omitempty"`
	BooleanAttributes   []string          `json:"booleanAttributes,omitempty"`
	TextContent         string            `json:"textContent,omitempty"`
	DangerousInnerHTML  string            `json:"dangerousInnerHTML,omitempty"`
	SelfClosing         bool              `json:"-"`
}

// see https://html.spec.whatwg.org/multipage/syntax.html#void-elements
var voidTags = []string{
	"area", "base", "br", "col", "embed", "hr", "img",
	"input", "link", "meta", "source", "track", "wbr",
}

func RenderElement(el *Element) (template.HTML, error) {
	var b strings.Builder
	if err := RenderElementToBuilder(el, &b); err != nil {
		return "", fmt.Errorf("could not render element: %w", err)
	}
	return template.HTML(b.String()), nil
}

// RenderElementToBuilder writes el with its attributes sorted by key, so the
// same element always renders to the same bytes. Void elements render as
// `<tag ...>` with no closing tag.
func RenderElementToBuilder(el *Element, b *strings.Builder) error {
	tag := template.HTMLEscapeString(el.Tag)
	if tag == "" {
		return fmt.Errorf("element has no tag")
	}

	b.WriteString("<")
	b.WriteString(tag)

	attrs := escapedAttributes(el)
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(attrs[key])
		b.WriteString(`"`)
	}
	for _, attr := range el.BooleanAttributes {
		b.WriteString(" ")
		b.WriteString(template.HTMLEscapeString(attr))
	}

	if slices.Contains(voidTags, tag) {
		b.WriteString(">")
		return nil
	}
	if el.SelfClosing {
		b.WriteString(" />")
		return nil
	}

	b.WriteString(">")
	b.WriteString(innerHTML(el))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
	return nil
}

// RenderElements renders els back to back.
func RenderElements(els ...*Element) (template.HTML, error) {
	var b strings.Builder
	for _, el := range els {
		if err := RenderElementToBuilder(el, &b); err != nil {
			return "", fmt.Errorf("could not render %s element: %w", el.Tag, err)
		}
	}
	return template.HTML(b.String()), nil
}

func escapedAttributes(el *Element) map[string]string {
	attributes := make(map[string]string, len(el.Attributes)+len(el.AttributesKnownSafe))
	for k, v := range el.Attributes {
		attributes[template.HTMLEscapeString(k)] = template.HTMLEscapeString(v)
	}
	for k, v := range el.AttributesKnownSafe {
		attributes[template.HTMLEscapeString(k)] = v
	}
	return attributes
}

func innerHTML(el *Element) string {
	if el.DangerousInnerHTML != "" {
		return el.DangerousInnerHTML
	}
	return template.HTMLEscapeString(el.TextContent)
}

func StylesheetLink(href string) *Element {
	return &Element{
		Tag:                 "link",
		AttributesKnownSafe: map[string]string{"rel": "stylesheet", "href": href},
	}
}

func InlineScript(js string) *Element {
	return &Element{Tag: "script", DangerousInnerHTML: js}
}

func Title(text string) *Element {
	return &Element{Tag: "title", TextContent: text}
}

func MetaNameContent(name, content string) *Element {
	return &Element{Tag: "meta", Attributes: map[string]string{"name": name, "content": content}}
}
