package basepath

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"", "/"},
		{"/", "/"},
		{"   ", "/"},
		{" / ", "/"},
		{"///", "/"},
		{"docs", "/docs/"},
		{"/docs", "/docs/"},
		{"docs/", "/docs/"},
		{"/docs/", "/docs/"},
		{"  /my-project  ", "/my-project/"},
		{"//my-project//", "/my-project/"},
		{"a/b", "/a/b/"},
	}

	for _, tt := range tests {
		got := Normalize(tt.in)
		assert.Equal(t, tt.want, got, "Normalize(%q)", tt.in)
		assert.Equal(t, got, Normalize(string(got)), "Normalize is not idempotent for %q", tt.in)
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, Root, Resolve(true, "/docs/"), "marker must force root")
	assert.Equal(t, Root, Resolve(true, ""))
	assert.Equal(t, Path("/docs/"), Resolve(false, "docs"))
	assert.Equal(t, Root, Resolve(false, ""))
}

func TestHasCustomDomainMarker(t *testing.T) {
	fsys := afero.NewMemMapFs()

	ok, err := HasCustomDomainMarker(fsys, "/project")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, afero.WriteFile(fsys, "/project/CNAME", []byte("docs.example.com\n"), 0o644))

	ok, err = HasCustomDomainMarker(fsys, "/project")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWith(t *testing.T) {
	assert.Equal(t, "/en/", Root.With("/en/"))
	assert.Equal(t, "/p/en/", Path("/p/").With("/en/"))
	assert.Equal(t, "/p/assets/a.css", Path("/p/").With("assets/a.css"))
}

func TestRewriteAbsoluteURLs(t *testing.T) {
	tests := []struct {
		name string
		html string
		base Path
		want string
	}{
		{
			name: "root is a no-op",
			html: `<a href="/x">x</a>`,
			base: Root,
			want: `<a href="/x">x</a>`,
		},
		{
			name: "prefixes href",
			html: `<a href="/x">x</a>`,
			base: "/p/",
			want: `<a href="/p/x">x</a>`,
		},
		{
			name: "does not double prefix",
			html: `<a href="/p/y">y</a>`,
			base: "/p/",
			want: `<a href="/p/y">y</a>`,
		},
		{
			name: "preserves single quotes",
			html: `<img src='/assets/logo.svg'>`,
			base: "/p/",
			want: `<img src='/p/assets/logo.svg'>`,
		},
		{
			name: "leaves protocol-relative urls",
			html: `<script src="//cdn.example.com/a.js"></script>`,
			base: "/p/",
			want: `<script src="//cdn.example.com/a.js"></script>`,
		},
		{
			name: "leaves absolute and relative urls",
			html: `<a href="https://example.com/x">e</a><a href="docs/x">r</a><a href="#top">t</a>`,
			base: "/p/",
			want: `<a href="https://example.com/x">e</a><a href="docs/x">r</a><a href="#top">t</a>`,
		},
		{
			name: "rewrites bare slash",
			html: `<a href="/">home</a>`,
			base: "/p/",
			want: `<a href="/p/">home</a>`,
		},
		{
			name: "multiple attributes per tag and multi-segment base",
			html: `<link rel="stylesheet" href="/assets/app.css"><a href="/en/docs/routing" data-x="/keep">r</a>`,
			base: "/org/site/",
			want: `<link rel="stylesheet" href="/org/site/assets/app.css"><a href="/org/site/en/docs/routing" data-x="/keep">r</a>`,
		},
		{
			name: "ignores attributes that merely end in href",
			html: `<a xhref="/x">x</a>`,
			base: "/p/",
			want: `<a xhref="/x">x</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteAbsoluteURLs(tt.html, tt.base))
		})
	}
}

func TestRewriteAbsoluteURLsIsStableOnRewrittenOutput(t *testing.T) {
	html := `<a href="/en/">en</a><link href='/assets/a.css'>`
	once := RewriteAbsoluteURLs(html, "/p/")
	assert.Equal(t, once, RewriteAbsoluteURLs(once, "/p/"))
}
