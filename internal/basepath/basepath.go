// Package basepath resolves the URL prefix a static export is served under
// and rewrites root-relative URLs in exported markup to carry it.
package basepath

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/betterhelper/docsite/kit/fsutil"
	"github.com/spf13/afero"
)

// Path is a normalized base path: "/" or "/<segments>/".
type Path string

const Root Path = "/"

// CustomDomainMarker is the file whose presence means the site is served
// from its own domain root.
const CustomDomainMarker = "CNAME"

// EnvVar holds the configured base path.
const EnvVar = "PAGES_BASE_PATH"

// Normalize turns any string into a valid base path. Surrounding whitespace
// is dropped and runs of leading or trailing slashes collapse to one.
func Normalize(value string) Path {
	trimmed := strings.Trim(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return Root
	}
	return Path("/" + trimmed + "/")
}

// Resolve picks the base path for an export. A custom-domain marker always
// wins over the configured value.
func Resolve(customDomain bool, envValue string) Path {
	if customDomain {
		return Root
	}
	return Normalize(envValue)
}

// HasCustomDomainMarker reports whether dir contains the marker file. Only a
// not-exist error counts as absence.
func HasCustomDomainMarker(fsys afero.Fs, dir string) (bool, error) {
	return fsutil.Exists(fsys, filepath.Join(dir, CustomDomainMarker))
}

func (p Path) IsRoot() bool { return p == Root || p == "" }

func (p Path) String() string { return string(p) }

// With joins a root-relative URL path onto the base path.
func (p Path) With(urlPath string) string {
	if p.IsRoot() {
		return urlPath
	}
	return string(p) + strings.TrimLeft(urlPath, "/")
}

var absoluteURLAttr = regexp.MustCompile(`\b(href|src)=("|')/([^"']*)`)

// RewriteAbsoluteURLs prefixes every quoted href/src value that starts with a
// single slash with the base path. Protocol-relative URLs ("//host") and
// values already under the base path are left alone; quote style is kept.
func RewriteAbsoluteURLs(html string, base Path) string {
	if base.IsRoot() {
		return html
	}

	baseWithoutLeadingSlash := strings.TrimLeft(string(base), "/")

	return absoluteURLAttr.ReplaceAllStringFunc(html, func(match string) string {
		sub := absoluteURLAttr.FindStringSubmatch(match)
		attribute, quote, urlPath := sub[1], sub[2], sub[3]

		if strings.HasPrefix(urlPath, "/") || strings.HasPrefix(urlPath, baseWithoutLeadingSlash) {
			return match
		}
		return attribute + "=" + quote + string(base) + urlPath
	})
}
