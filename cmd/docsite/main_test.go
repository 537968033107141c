package main

import (
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":                      "<html><head><!--app-head--></head><body><!--app-html--><!--app-bootstrap--></body></html>",
		"dist/client/.vite/manifest.json": `{"src/app.tsx": {"file": "assets/app.js", "css": ["assets/app.css"]}}`,
		"dist/client/assets/app.css":      "body{}",
	}
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func testGlobals(root, base string) *Globals {
	return &Globals{Root: root, BasePath: base, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestExportCommand(t *testing.T) {
	root := writeProject(t)

	require.NoError(t, (&ExportCmd{}).Run(testGlobals(root, "/handbook/")))

	page, err := os.ReadFile(filepath.Join(root, "dist", "pages", "en", "docs", "routing", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `href="/handbook/assets/app.css"`)
	assert.Contains(t, string(page), `href="/handbook/en/docs/installation"`)

	rootPage, err := os.ReadFile(filepath.Join(root, "dist", "pages", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(rootPage), `"/handbook/" + lang`)

	_, err = os.Stat(filepath.Join(root, "dist", "pages", "404.html"))
	assert.NoError(t, err)
}

func TestExportCommandCustomOutDir(t *testing.T) {
	root := writeProject(t)

	require.NoError(t, (&ExportCmd{OutDir: "public", Concurrency: 1}).Run(testGlobals(root, "")))

	_, err := os.Stat(filepath.Join(root, "public", ".nojekyll"))
	assert.NoError(t, err)
}

func TestPreviewReturnsWhenAddressIsTaken(t *testing.T) {
	root := writeProject(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	for _, watch := range []bool{false, true} {
		done := make(chan error, 1)
		go func() {
			done <- (&PreviewCmd{Addr: ln.Addr().String(), Watch: watch}).Run(testGlobals(root, ""))
		}()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, syscall.EADDRINUSE, "watch=%v", watch)
		case <-time.After(10 * time.Second):
			t.Fatalf("preview with watch=%v did not return after failing to listen", watch)
		}
	}
}

func TestCLIParses(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"env_var": "PAGES_BASE_PATH"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"--verbose", "preview", "--watch", "--addr", "127.0.0.1:9000"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(kctx.Command(), "preview"))
	assert.True(t, cli.Preview.Watch)
	assert.Equal(t, "127.0.0.1:9000", cli.Preview.Addr)
	assert.NotNil(t, cli.log)
}
