// Package site renders the documentation pages for one route at a time.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/betterhelper/docsite/internal/content"
	"github.com/betterhelper/docsite/kit/htmlutil"
)

var ErrNotFound = errors.New("route not found")

// Rendered is the server-side output for one route: body markup, head
// markup and the HTTP status the page stands for.
type Rendered struct {
	HTML   string
	Head   string
	Status int
}

type Renderer interface {
	Render(ctx context.Context, route string) (Rendered, error)
}

const DefaultTitlePrefix = "BetterHelper Docs"

//go:embed templates
var templatesFS embed.FS

var pageTemplates = []string{"chooser", "notfound", "overview", "about", "docs_index", "doc"}

type Site struct {
	catalog     *content.Catalog
	titlePrefix string
	pages       map[string]*template.Template
}

type Options struct {
	// TitlePrefix precedes every page title. Defaults to DefaultTitlePrefix.
	TitlePrefix string
}

func New(catalog *content.Catalog, opts Options) (*Site, error) {
	if opts.TitlePrefix == "" {
		opts.TitlePrefix = DefaultTitlePrefix
	}

	base, err := template.New("layout").Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", "templates/docs_sidebar.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templatesFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Site{catalog: catalog, titlePrefix: opts.TitlePrefix, pages: pages}, nil
}

// Render renders route. Unknown routes fail with an error wrapping
// ErrNotFound; "/404" renders the not-found page with status 404.
func (s *Site) Render(ctx context.Context, route string) (Rendered, error) {
	if err := ctx.Err(); err != nil {
		return Rendered{}, err
	}

	v, tmpl, err := s.resolve(route)
	if err != nil {
		return Rendered{}, err
	}

	var body bytes.Buffer
	if err := s.pages[tmpl].ExecuteTemplate(&body, "layout", v); err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", route, err)
	}

	head, err := s.head(v)
	if err != nil {
		return Rendered{}, fmt.Errorf("render head for %s: %w", route, err)
	}

	return Rendered{HTML: body.String(), Head: head, Status: v.Status}, nil
}

func (s *Site) resolve(route string) (*view, string, error) {
	path := "/" + strings.Trim(route, "/")
	parts := strings.Split(strings.Trim(route, "/"), "/")

	switch path {
	case "/":
		v := s.newView(content.English, path, "Language")
		v.Description = "Choose language / Выберите язык"
		v.Languages = content.Languages
		return v, "chooser", nil
	case "/404":
		v := s.newView(content.English, path, "404")
		v.Status = http.StatusNotFound
		v.Description = v.UI.NotFoundText
		return v, "notfound", nil
	}

	lang, ok := content.ResolveLanguage(parts[0])
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	switch {
	case len(parts) == 1:
		v := s.newView(lang, path, s.catalog.UI(lang).NavOverview)
		v.Description = v.UI.HomeText
		v.Groups = s.catalog.Groups(lang)
		v.DefaultSlug = s.catalog.DefaultSlug(lang)
		v.PageCount = len(s.catalog.Pages(lang))
		v.Alternates = true
		return v, "overview", nil

	case len(parts) == 2 && parts[1] == "about":
		v := s.newView(lang, path, s.catalog.UI(lang).NavAbout)
		v.Description = v.UI.AboutText
		v.Alternates = true
		return v, "about", nil

	case len(parts) == 2 && parts[1] == "docs":
		v := s.newView(lang, path, s.catalog.UI(lang).DocsLabel)
		v.Description = v.UI.DocsHomeText
		v.Groups = s.catalog.Groups(lang)
		v.DefaultSlug = s.catalog.DefaultSlug(lang)
		v.Alternates = true
		return v, "docs_index", nil

	case len(parts) == 3 && parts[1] == "docs":
		page, ok := s.catalog.Page(lang, parts[2])
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		v := s.newView(lang, path, page.Title)
		v.Description = page.Summary
		v.Groups = s.catalog.Groups(lang)
		v.Page = page
		v.Previous, v.Next = s.catalog.Adjacent(lang, page.Slug)
		_, v.Alternates = s.catalog.Page(lang.Other(), page.Slug)
		return v, "doc", nil
	}

	return nil, "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

func (s *Site) head(v *view) (string, error) {
	els := []*htmlutil.Element{
		htmlutil.Title(s.titlePrefix + " | " + v.Title),
		htmlutil.MetaNameContent("description", v.Description),
	}
	if v.Alternates {
		for _, lang := range content.Languages {
			els = append(els, &htmlutil.Element{
				Tag: "link",
				Attributes: map[string]string{
					"rel":      "alternate",
					"hreflang": lang.Tag().String(),
					"href":     SwitchLanguagePath(v.Path, lang),
				},
			})
		}
	}
	h, err := htmlutil.RenderElements(els...)
	return string(h), err
}
