package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/betterhelper/docsite/internal/content"
	"github.com/betterhelper/docsite/internal/site"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// CollectDocSlugs returns the slugs of every anchor in markup whose href is
// exactly /<lang>/docs/<slug>, in first-seen order without duplicates.
func CollectDocSlugs(lang content.Language, markup string) []string {
	prefix := string(DocsIndexRoute(lang)) + "/"
	seen := make(map[string]bool)
	var slugs []string

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return slugs
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) != "href" {
					continue
				}
				slug, ok := strings.CutPrefix(string(val), prefix)
				if ok && slugPattern.MatchString(slug) && !seen[slug] {
					seen[slug] = true
					slugs = append(slugs, slug)
				}
			}
		}
	}
}

// Discover builds the route set: the seed routes plus one route per doc slug
// linked from each language's docs index. Only the docs indexes are scanned;
// pages they do not link are not found.
func Discover(ctx context.Context, renderer site.Renderer, languages []content.Language) (*RouteSet, error) {
	found := make([][]string, len(languages))

	g, gctx := errgroup.WithContext(ctx)
	for i, lang := range languages {
		g.Go(func() error {
			route := DocsIndexRoute(lang)
			rendered, err := renderer.Render(gctx, string(route))
			if err != nil {
				return fmt.Errorf("render %s: %w", route, err)
			}
			found[i] = CollectDocSlugs(lang, rendered.HTML)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	routes := SeedRoutes(languages)
	for i, lang := range languages {
		for _, slug := range found[i] {
			routes.Add(DocRoute(lang, slug))
		}
	}
	return routes, nil
}
