package export

import (
	"slices"
	"strings"
)

const (
	HeadMarker      = "<!--app-head-->"
	HTMLMarker      = "<!--app-html-->"
	StateMarker     = "<!--app-state-->"
	BootstrapMarker = "<!--app-bootstrap-->"
	ScriptsMarker   = "<!--app-scripts-->"
)

// Fragments are the pieces spliced into the page template for one route.
type Fragments struct {
	Head        string
	Stylesheets string
	Body        string
	// Bootstrap is the inline script for the root route, empty elsewhere.
	Bootstrap string
}

// Assemble replaces the first occurrence of each marker in template. A
// missing marker is skipped. Substituted text is never searched for
// markers.
func Assemble(template string, f Fragments) string {
	replacements := []struct{ marker, value string }{
		{HeadMarker, f.Head + "\n" + f.Stylesheets},
		{HTMLMarker, f.Body},
		{StateMarker, "null"},
		{BootstrapMarker, f.Bootstrap},
		{ScriptsMarker, ""},
	}

	type splice struct {
		at          int
		end         int
		replacement string
	}
	var splices []splice
	for _, r := range replacements {
		if i := strings.Index(template, r.marker); i >= 0 {
			splices = append(splices, splice{at: i, end: i + len(r.marker), replacement: r.value})
		}
	}
	slices.SortFunc(splices, func(a, b splice) int { return a.at - b.at })

	var b strings.Builder
	last := 0
	for _, s := range splices {
		b.WriteString(template[last:s.at])
		b.WriteString(s.replacement)
		last = s.end
	}
	b.WriteString(template[last:])
	return b.String()
}
