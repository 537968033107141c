package export

import (
	"slices"

	"github.com/betterhelper/docsite/internal/content"
)

// Route is a root-relative URL path. It always begins with "/".
type Route string

const (
	RootRoute     Route = "/"
	NotFoundRoute Route = "/404"
)

func LanguageRoute(lang content.Language) Route  { return Route("/" + string(lang)) }
func AboutRoute(lang content.Language) Route     { return LanguageRoute(lang) + "/about" }
func DocsIndexRoute(lang content.Language) Route { return LanguageRoute(lang) + "/docs" }

func DocRoute(lang content.Language, slug string) Route {
	return DocsIndexRoute(lang) + Route("/"+slug)
}

// RouteSet is an add-only set of routes. It is not safe for concurrent
// writes.
type RouteSet struct {
	routes map[Route]struct{}
}

func NewRouteSet(routes ...Route) *RouteSet {
	s := &RouteSet{routes: make(map[Route]struct{}, len(routes))}
	for _, r := range routes {
		s.Add(r)
	}
	return s
}

func (s *RouteSet) Add(r Route) { s.routes[r] = struct{}{} }

func (s *RouteSet) Has(r Route) bool {
	_, ok := s.routes[r]
	return ok
}

func (s *RouteSet) Len() int { return len(s.routes) }

// Sorted returns the routes in lexical order.
func (s *RouteSet) Sorted() []Route {
	out := make([]Route, 0, len(s.routes))
	for r := range s.routes {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// SeedRoutes returns the fixed routes every export contains: the root, the
// not-found page, and each language's overview, about and docs index.
func SeedRoutes(languages []content.Language) *RouteSet {
	s := NewRouteSet(RootRoute, NotFoundRoute)
	for _, lang := range languages {
		s.Add(LanguageRoute(lang))
		s.Add(AboutRoute(lang))
		s.Add(DocsIndexRoute(lang))
	}
	return s
}
