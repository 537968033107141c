package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/betterhelper/docsite/internal/config"
	"github.com/betterhelper/docsite/internal/content"
	"github.com/betterhelper/docsite/internal/export"
	"github.com/betterhelper/docsite/internal/site"
	"github.com/betterhelper/docsite/kit/errutil"
)

type app struct {
	cfg *config.Config
	fs  afero.Fs
	log *slog.Logger
}

func (g *Globals) newApp() (*app, error) {
	fsys := afero.NewOsFs()
	cfg, err := config.Load(fsys, g.Root, g.Config)
	if err != nil {
		return nil, err
	}
	if g.BasePath != "" {
		cfg.BasePath = g.BasePath
	}
	return &app{cfg: cfg, fs: fsys, log: g.log}, nil
}

// catalog loads doc pages from the content directory when one is
// configured, so edits show up without rebuilding the binary.
func (a *app) catalog() (*content.Catalog, error) {
	if dir := a.cfg.ContentDir(); dir != "" {
		return content.Load(os.DirFS(dir))
	}
	return content.Default()
}

func (a *app) exporter() (*export.Exporter, error) {
	catalog, err := a.catalog()
	if err != nil {
		return nil, errutil.Maybe("load content", err)
	}
	renderer, err := site.New(catalog, site.Options{TitlePrefix: a.cfg.Site.TitlePrefix})
	if err != nil {
		return nil, err
	}
	return export.New(a.fs, renderer, a.cfg.ExportOptions(), a.log), nil
}

func (a *app) export(ctx context.Context) (*export.Report, error) {
	exp, err := a.exporter()
	if err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
