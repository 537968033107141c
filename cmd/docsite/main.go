// Command docsite exports the documentation site to static HTML and serves
// the result locally.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/betterhelper/docsite/kit/colorlog"
)

type Globals struct {
	Config   string `short:"c" help:"Configuration file. Defaults to <root>/docsite.yaml when present." type:"path"`
	Root     string `short:"r" help:"Project root." default:"." type:"existingdir"`
	Verbose  bool   `short:"v" help:"Enable debug logging."`
	BasePath string `name:"base-path" help:"Base path the site is served under. Overrides ${env_var}." placeholder:"PATH"`

	log *slog.Logger
}

type CLI struct {
	Globals

	Export  ExportCmd  `cmd:"" help:"Render every route to static HTML."`
	Routes  RoutesCmd  `cmd:"" help:"Print the routes an export would write."`
	Preview PreviewCmd `cmd:"" help:"Serve the exported site, optionally re-exporting on change."`
}

// AfterApply sets up logging once flags are parsed.
func (g *Globals) AfterApply() error {
	level := slog.LevelInfo
	if g.Verbose {
		level = slog.LevelDebug
	}
	g.log = colorlog.New("pages", colorlog.Options{Level: level})
	slog.SetDefault(g.log)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("docsite"),
		kong.Description("Static exporter and preview server for the documentation site."),
		kong.UsageOnError(),
		kong.Vars{"env_var": "PAGES_BASE_PATH"},
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		log := cli.log
		if log == nil {
			log = colorlog.New("pages")
		}
		log.Error(err.Error())
		os.Exit(1)
	}
}
