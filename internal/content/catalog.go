// Package content holds the bilingual documentation catalog: interface
// strings, categories and doc pages. The catalog is built once and never
// written afterwards.
package content

import (
	"bytes"
	"cmp"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"
	"sync"
)

//go:embed markdown
var embeddedFS embed.FS

var ErrInvalidPage = errors.New("invalid doc page")

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type Heading struct {
	ID   string
	Text string
}

type Page struct {
	Slug     string
	Title    string
	Summary  string
	Category CategoryID
	Order    int
	Updated  string
	Body     template.HTML
	Headings []Heading
}

type Group struct {
	Category Category
	Pages    []*Page
}

type Catalog struct {
	languages map[Language]*languageCatalog
}

type languageCatalog struct {
	ui         UI
	categories []Category
	pages      []*Page // sorted by Order, then Slug
	bySlug     map[string]*Page
}

// Default returns the catalog built from the embedded markdown.
var Default = sync.OnceValues(func() (*Catalog, error) {
	return Load(embeddedFS)
})

// Load builds a catalog from markdown/<lang>/docs/<slug>.md files in fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{languages: make(map[Language]*languageCatalog, len(Languages))}

	for _, lang := range Languages {
		lc := &languageCatalog{
			ui:         uiByLanguage[lang],
			categories: categoriesByLanguage[lang],
			bySlug:     make(map[string]*Page),
		}

		dir := path.Join("markdown", string(lang), "docs")
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
				continue
			}
			file := path.Join(dir, entry.Name())
			page, err := loadPage(fsys, file, lc.categories)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", file, err)
			}
			lc.pages = append(lc.pages, page)
			lc.bySlug[page.Slug] = page
		}

		slices.SortFunc(lc.pages, func(a, b *Page) int {
			return cmp.Or(cmp.Compare(a.Order, b.Order), strings.Compare(a.Slug, b.Slug))
		})
		c.languages[lang] = lc
	}

	return c, nil
}

func loadPage(fsys fs.FS, file string, categories []Category) (*Page, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSuffix(path.Base(file), ".md")
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug %q must match %s", ErrInvalidPage, slug, slugPattern)
	}

	fm, rest, err := parseFrontmatter(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}
	if fm.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidPage)
	}
	if !slices.ContainsFunc(categories, func(c Category) bool { return string(c.ID) == fm.Category }) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidPage, fm.Category)
	}

	body, headings, err := renderMarkdown(rest)
	if err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}

	return &Page{
		Slug:     slug,
		Title:    fm.Title,
		Summary:  fm.Summary,
		Category: CategoryID(fm.Category),
		Order:    fm.Order,
		Updated:  fm.Updated,
		Body:     body,
		Headings: headings,
	}, nil
}

func (c *Catalog) lang(l Language) *languageCatalog {
	if lc, ok := c.languages[l]; ok {
		return lc
	}
	return c.languages[Languages[0]]
}

func (c *Catalog) UI(l Language) UI { return c.lang(l).ui }

func (c *Catalog) Categories(l Language) []Category {
	return slices.Clone(c.lang(l).categories)
}

// Pages returns every doc page of l ordered by Order.
func (c *Catalog) Pages(l Language) []*Page {
	return slices.Clone(c.lang(l).pages)
}

// Groups returns the categories of l with their pages, in category order.
func (c *Catalog) Groups(l Language) []Group {
	lc := c.lang(l)
	groups := make([]Group, 0, len(lc.categories))
	for _, cat := range lc.categories {
		g := Group{Category: cat}
		for _, p := range lc.pages {
			if p.Category == cat.ID {
				g.Pages = append(g.Pages, p)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

func (c *Catalog) Page(l Language, slug string) (*Page, bool) {
	p, ok := c.lang(l).bySlug[slug]
	return p, ok
}

// DefaultSlug is the first page in reading order.
func (c *Catalog) DefaultSlug(l Language) string {
	if pages := c.lang(l).pages; len(pages) > 0 {
		return pages[0].Slug
	}
	return "introduction"
}

// Adjacent returns the pages before and after slug in reading order. Both
// are nil when slug is unknown.
func (c *Catalog) Adjacent(l Language, slug string) (previous, next *Page) {
	pages := c.lang(l).pages
	i := slices.IndexFunc(pages, func(p *Page) bool { return p.Slug == slug })
	if i < 0 {
		return nil, nil
	}
	if i > 0 {
		previous = pages[i-1]
	}
	if i < len(pages)-1 {
		next = pages[i+1]
	}
	return previous, next
}
