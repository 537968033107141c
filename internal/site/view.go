package site

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/betterhelper/docsite/internal/content"
)

type view struct {
	Lang        content.Language
	UI          content.UI
	Path        string
	Title       string
	Description string
	Status      int
	Alternates  bool

	SwitchHref  string
	SwitchLabel string

	Languages   []content.Language
	Groups      []content.Group
	DefaultSlug string
	PageCount   int

	Page     *content.Page
	Previous *content.Page
	Next     *content.Page
}

func (s *Site) newView(lang content.Language, path, title string) *view {
	other := lang.Other()
	return &view{
		Lang:        lang,
		UI:          s.catalog.UI(lang),
		Path:        path,
		Title:       title,
		Status:      http.StatusOK,
		SwitchHref:  SwitchLanguagePath(path, other),
		SwitchLabel: strings.ToUpper(string(other)),
	}
}

// SwitchLanguagePath maps the current path to the same page in target. Paths
// without a language segment are prefixed with it, except "/404" which goes
// to the target's overview.
func SwitchLanguagePath(currentPath string, target content.Language) string {
	pathPart, query, hasQuery := strings.Cut(currentPath, "?")
	suffix := ""
	if hasQuery && query != "" {
		suffix = "?" + query
	}

	parts := strings.FieldsFunc(pathPart, func(r rune) bool { return r == '/' })
	if len(parts) > 0 {
		if _, ok := content.ResolveLanguage(parts[0]); ok {
			parts[0] = string(target)
			return "/" + strings.Join(parts, "/") + suffix
		}
	}

	if pathPart == "/404" {
		return "/" + string(target)
	}
	if pathPart == "/" {
		pathPart = ""
	}
	return "/" + string(target) + pathPart + suffix
}

func docPath(lang content.Language, slug string) string {
	return "/" + string(lang) + "/docs/" + slug
}

func langPath(lang content.Language, rest ...string) string {
	if len(rest) == 0 {
		return "/" + string(lang)
	}
	return "/" + string(lang) + "/" + strings.Join(rest, "/")
}

func firstPages(n int, pages []*content.Page) []*content.Page {
	if len(pages) > n {
		return pages[:n]
	}
	return pages
}

var funcMap = template.FuncMap{
	"docPath":    docPath,
	"langPath":   langPath,
	"firstPages": firstPages,
}
