package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/betterhelper/docsite/internal/basepath"
	"github.com/betterhelper/docsite/internal/preview"
	"github.com/betterhelper/docsite/internal/watch"
	"github.com/betterhelper/docsite/kit/grace"
	"github.com/betterhelper/docsite/kit/viteutil"
)

type ExportCmd struct {
	OutDir      string `short:"o" name:"out" help:"Output directory." placeholder:"DIR"`
	Concurrency int    `short:"j" help:"Routes rendered in parallel."`
	Minify      bool   `help:"Minify the inline bootstrap script."`
	Vite        bool   `help:"Run a production vite build of the client first."`
}

func (c *ExportCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	if c.OutDir != "" {
		a.cfg.Paths.OutDir = c.OutDir
	}
	if c.Concurrency > 0 {
		a.cfg.Export.Concurrency = c.Concurrency
	}
	if c.Minify {
		a.cfg.Export.MinifyInlineScripts = true
	}

	ctx := context.Background()
	if c.Vite {
		opts := a.cfg.ViteBuildOptions()
		opts.Logger = a.log
		if err := viteutil.Build(ctx, opts); err != nil {
			return err
		}
	}

	report, err := a.export(ctx)
	if err != nil {
		return err
	}
	a.log.Debug("export finished", "files", report.FilesWritten, "digest", report.Digest)
	return nil
}

type RoutesCmd struct{}

func (c *RoutesCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	exp, err := a.exporter()
	if err != nil {
		return err
	}
	routes, err := exp.Routes(context.Background())
	if err != nil {
		return err
	}
	for _, r := range routes {
		fmt.Fprintln(os.Stdout, r)
	}
	return nil
}

type PreviewCmd struct {
	Addr     string `short:"a" help:"Listen address." placeholder:"HOST:PORT"`
	Watch    bool   `short:"w" help:"Re-export on source changes and live-reload open pages."`
	NoExport bool   `name:"no-export" help:"Serve the existing output without exporting first."`
}

func (c *PreviewCmd) Run(g *Globals) error {
	a, err := g.newApp()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		a.cfg.Preview.Addr = c.Addr
	}

	base := basepath.Root
	if !c.NoExport || c.Watch {
		report, err := a.export(context.Background())
		if err != nil {
			return err
		}
		base = report.BasePath
	} else {
		custom, err := basepath.HasCustomDomainMarker(a.fs, a.cfg.Root)
		if err != nil {
			return err
		}
		base = basepath.Resolve(custom, a.cfg.BasePath)
	}

	server := preview.New(context.Background(), preview.Options{
		Fs:         a.fs,
		Dir:        a.cfg.OutDir(),
		BasePath:   base,
		LiveReload: c.Watch,
		Logger:     a.log,
	})
	srv := &http.Server{
		Addr:              a.cfg.Preview.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var w *watch.Watcher
	if c.Watch {
		if w, err = a.watcher(server); err != nil {
			server.Close()
			return err
		}
	}
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	return grace.Orchestrate(context.Background(), grace.OrchestrateOptions{
		Logger: a.log,
		StartupCallback: func(ctx context.Context) error {
			if w != nil {
				go func() {
					if err := w.Run(watchCtx); err != nil {
						a.log.Error("watcher stopped", "err", err)
					}
				}()
			}
			a.log.Info("serving preview", "url", "http://"+a.cfg.Preview.Addr+base.String())
			return srv.ListenAndServe()
		},
		// Also runs when ListenAndServe fails, so the watcher and the reload
		// hub are stopped here and not through the startup context.
		ShutdownCallback: func(ctx context.Context) error {
			stopWatch()
			err := srv.Shutdown(ctx)
			server.Close()
			return err
		},
	})
}

func (a *app) watcher(server *preview.Server) (*watch.Watcher, error) {
	cfg := a.cfg

	exclude := append([]string{}, watch.DefaultExclude...)
	if rel, err := filepath.Rel(cfg.Root, cfg.OutDir()); err == nil {
		exclude = append(exclude, filepath.ToSlash(rel)+"/**")
	}

	dirs := []string{cfg.ClientDir()}
	if dir := cfg.ContentDir(); dir != "" {
		dirs = append(dirs, dir)
	}

	return watch.New(watch.Options{
		Root:     cfg.Root,
		Dirs:     dirs,
		Files:    []string{cfg.TemplatePath()},
		Exclude:  exclude,
		Debounce: cfg.Preview.Debounce,
		Logger:   a.log,
		OnChange: func(ctx context.Context, paths []string) {
			if _, err := a.export(ctx); err != nil {
				a.log.Error("re-export failed", "err", err)
				return
			}
			server.Reload()
		},
	})
}
