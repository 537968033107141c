package export

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/betterhelper/docsite/internal/basepath"
	"github.com/betterhelper/docsite/kit/fsutil"
)

const (
	// NoJekyllFile disables Jekyll processing on GitHub Pages.
	NoJekyllFile = ".nojekyll"
	AssetsDir    = "assets"
)

// OutputPath maps a route to its slash-separated file path relative to the
// output directory.
func OutputPath(route Route) string {
	switch route {
	case RootRoute:
		return "index.html"
	case NotFoundRoute:
		return "404.html"
	}
	return path.Join(strings.Trim(string(route), "/"), "index.html")
}

type TreeOptions struct {
	OutDir    string
	AssetsDir string
	// Root is where the custom-domain marker is looked up.
	Root string
}

// PrepareOutputTree empties OutDir, then copies the assets into it, writes
// an empty .nojekyll and copies the custom-domain marker when one exists.
func PrepareOutputTree(fsys afero.Fs, opts TreeOptions) error {
	if err := fsutil.ResetDir(fsys, opts.OutDir); err != nil {
		return err
	}
	if err := fsutil.CopyDir(fsys, opts.AssetsDir, filepath.Join(opts.OutDir, AssetsDir)); err != nil {
		return fmt.Errorf("copy assets: %w", err)
	}
	if err := fsutil.WriteFile(fsys, filepath.Join(opts.OutDir, NoJekyllFile), nil); err != nil {
		return err
	}

	hasMarker, err := basepath.HasCustomDomainMarker(fsys, opts.Root)
	if err != nil {
		return err
	}
	if hasMarker {
		src := filepath.Join(opts.Root, basepath.CustomDomainMarker)
		dst := filepath.Join(opts.OutDir, basepath.CustomDomainMarker)
		if err := fsutil.CopyFile(fsys, src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", basepath.CustomDomainMarker, err)
		}
	}
	return nil
}

// Writer writes one file per route under an output directory. It is safe
// for concurrent use; writing the same output path twice is an error.
type Writer struct {
	fs     afero.Fs
	outDir string

	mu      sync.Mutex
	written map[string]Route
}

func NewWriter(fsys afero.Fs, outDir string) *Writer {
	return &Writer{fs: fsys, outDir: outDir, written: make(map[string]Route)}
}

func (w *Writer) Write(route Route, html string) error {
	rel := OutputPath(route)

	w.mu.Lock()
	if prev, ok := w.written[rel]; ok {
		w.mu.Unlock()
		return fmt.Errorf("routes %s and %s both map to %s", prev, route, rel)
	}
	w.written[rel] = route
	w.mu.Unlock()

	return fsutil.WriteFile(w.fs, filepath.Join(w.outDir, filepath.FromSlash(rel)), []byte(html))
}

// Count returns how many files have been written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.written)
}
