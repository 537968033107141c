package content

import (
	"bytes"
	"html/template"
	"io"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

var goldmarkInstance = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAttribute(),
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

type pageFrontmatter struct {
	Title    string `yaml:"title"`
	Summary  string `yaml:"summary"`
	Category string `yaml:"category"`
	Order    int    `yaml:"order"`
	Updated  string `yaml:"updated"`
}

func parseFrontmatter(r io.Reader) (pageFrontmatter, []byte, error) {
	var fm pageFrontmatter
	rest, err := frontmatter.Parse(r, &fm)
	return fm, rest, err
}

// renderMarkdown converts source to HTML and collects the second-level
// headings for the "on this page" list.
func renderMarkdown(source []byte) (template.HTML, []Heading, error) {
	doc := goldmarkInstance.Parser().Parse(text.NewReader(source))

	var headings []Heading
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 2 {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		headings = append(headings, Heading{ID: id, Text: plainText(h, source)})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := goldmarkInstance.Renderer().Render(&buf, source, doc); err != nil {
		return "", nil, err
	}
	return template.HTML(buf.String()), headings, nil
}

func plainText(n ast.Node, source []byte) string {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(plainText(c, source))
		}
	}
	return b.String()
}
