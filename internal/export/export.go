// Package export renders every site route to static HTML files ready for a
// static file host, optionally served under a subpath.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/betterhelper/docsite/internal/basepath"
	"github.com/betterhelper/docsite/internal/content"
	"github.com/betterhelper/docsite/internal/site"
	"github.com/betterhelper/docsite/kit/fsutil"
	"github.com/betterhelper/docsite/kit/viteutil"
)

var ErrManifestEntryMissing = errors.New("manifest entry missing")

const (
	DefaultEntryKey    = "src/app.tsx"
	DefaultConcurrency = 4
)

type Options struct {
	// Root is the project root; the custom-domain marker is looked up here.
	Root         string
	TemplatePath string
	ManifestPath string
	AssetsDir    string
	OutDir       string
	EntryKey     string
	// BasePath is the configured base path before normalization.
	BasePath            string
	Concurrency         int
	MinifyInlineScripts bool
	Languages           []content.Language
}

type Report struct {
	Routes       int
	BasePath     basepath.Path
	CustomDomain bool
	OutDir       string
	FilesWritten int
	Digest       string
}

type Exporter struct {
	fs       afero.Fs
	renderer site.Renderer
	opts     Options
	log      *slog.Logger
}

func New(fsys afero.Fs, renderer site.Renderer, opts Options, log *slog.Logger) *Exporter {
	if opts.EntryKey == "" {
		opts.EntryKey = DefaultEntryKey
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if len(opts.Languages) == 0 {
		opts.Languages = content.Languages
	}
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{fs: fsys, renderer: renderer, opts: opts, log: log}
}

// Run rebuilds the output directory from scratch. Any error aborts the run
// and leaves the output tree incomplete.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	customDomain, err := basepath.HasCustomDomainMarker(e.fs, e.opts.Root)
	if err != nil {
		return nil, err
	}
	base := basepath.Resolve(customDomain, e.opts.BasePath)

	var (
		template string
		manifest viteutil.Manifest
		routes   *RouteSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := afero.ReadFile(e.fs, e.opts.TemplatePath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		template = string(b)
		return nil
	})
	g.Go(func() error {
		m, err := viteutil.ReadManifest(e.fs, e.opts.ManifestPath)
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		manifest = m
		return nil
	})
	g.Go(func() error {
		rs, err := Discover(gctx, e.renderer, e.opts.Languages)
		if err != nil {
			return err
		}
		routes = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, ok := manifest.Entry(e.opts.EntryKey); !ok {
		return nil, fmt.Errorf("%w: cannot find %s in %s", ErrManifestEntryMissing, e.opts.EntryKey, e.opts.ManifestPath)
	}
	stylesheets, err := viteutil.StylesheetLinks(viteutil.FindAllCSS(manifest, e.opts.EntryKey))
	if err != nil {
		return nil, err
	}

	bootstrap, err := BootstrapScript(base, e.opts.MinifyInlineScripts)
	if err != nil {
		return nil, err
	}

	if err := PrepareOutputTree(e.fs, TreeOptions{
		OutDir:    e.opts.OutDir,
		AssetsDir: e.opts.AssetsDir,
		Root:      e.opts.Root,
	}); err != nil {
		return nil, fmt.Errorf("prepare %s: %w", e.opts.OutDir, err)
	}

	writer := NewWriter(e.fs, e.opts.OutDir)

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for _, route := range routes.Sorted() {
		g.Go(func() error {
			rendered, err := e.renderer.Render(gctx, string(route))
			if err != nil {
				return fmt.Errorf("render %s: %w", route, err)
			}

			f := Fragments{
				Head:        rendered.Head,
				Stylesheets: string(stylesheets),
				Body:        rendered.HTML,
			}
			if route == RootRoute {
				f.Bootstrap = bootstrap
			}

			html := basepath.RewriteAbsoluteURLs(Assemble(template, f), base)
			if err := writer.Write(route, html); err != nil {
				return err
			}
			e.log.Debug("wrote route", "route", route, "file", OutputPath(route))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	digest, err := fsutil.Digest(e.fs, e.opts.OutDir)
	if err != nil {
		return nil, err
	}

	e.log.Info(fmt.Sprintf("exported %d routes to %s", routes.Len(), e.opts.OutDir))
	e.log.Info("base path: " + base.String())
	if customDomain {
		e.log.Info("custom domain detected via " + basepath.CustomDomainMarker + ", forced base path to /")
	}

	return &Report{
		Routes:       routes.Len(),
		BasePath:     base,
		CustomDomain: customDomain,
		OutDir:       e.opts.OutDir,
		FilesWritten: writer.Count(),
		Digest:       digest,
	}, nil
}

// Routes discovers the routes an export would write, without writing
// anything.
func (e *Exporter) Routes(ctx context.Context) ([]Route, error) {
	rs, err := Discover(ctx, e.renderer, e.opts.Languages)
	if err != nil {
		return nil, err
	}
	return rs.Sorted(), nil
}
