// Package preview serves an exported site locally the way a static host
// would, mounted under its base path, with optional live reload.
package preview

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"

	"github.com/betterhelper/docsite/internal/basepath"
	"github.com/betterhelper/docsite/internal/content"
	"github.com/betterhelper/docsite/kit/middleware/etag"
)

type Options struct {
	Fs       afero.Fs
	Dir      string
	BasePath basepath.Path
	// LiveReload injects the reload client into HTML pages and enables the
	// websocket endpoint.
	LiveReload bool
	Logger     *slog.Logger
}

type Server struct {
	opts Options
	hub  *Hub
	log  *slog.Logger
}

// New builds a preview server. ctx bounds the live-reload hub.
func New(ctx context.Context, opts Options) *Server {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.BasePath == "" {
		opts.BasePath = basepath.Root
	}
	s := &Server{opts: opts, log: opts.Logger}
	if s.log == nil {
		s.log = slog.Default()
	}
	if opts.LiveReload {
		s.hub = NewHub(ctx)
	}
	return s
}

// Reload notifies connected browsers. It is a no-op without live reload.
func (s *Server) Reload() {
	if s.hub != nil {
		s.hub.Broadcast()
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))

	if s.hub != nil {
		r.Handle(ReloadPath, s.hub)
	}

	files := etag.Auto(http.HandlerFunc(s.serveFile))

	if s.opts.BasePath.IsRoot() {
		r.Handle("/*", files)
		return r
	}

	mount := strings.TrimSuffix(s.opts.BasePath.String(), "/")
	r.Get("/", s.redirectToLanguage)
	r.Get(mount, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.opts.BasePath.String(), http.StatusMovedPermanently)
	})
	r.Handle(mount+"/*", http.StripPrefix(mount, files))
	r.NotFound(s.serveNotFound)
	return r
}

// redirectToLanguage sends requests outside the mount to the language root
// the exported root page would pick for the same browser.
func (s *Server) redirectToLanguage(w http.ResponseWriter, r *http.Request) {
	lang := content.NegotiateLanguage(r.Header.Get("Accept-Language"))
	w.Header().Add("Vary", "Accept-Language")
	http.Redirect(w, r, s.opts.BasePath.String()+string(lang)+"/", http.StatusFound)
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	name, ok := s.lookup(r.URL.Path)
	if !ok {
		s.serveNotFound(w, r)
		return
	}
	s.send(w, r, name, http.StatusOK)
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(s.opts.Dir, "404.html")
	if !s.isFile(name) {
		http.NotFound(w, r)
		return
	}
	s.send(w, r, name, http.StatusNotFound)
}

// lookup maps a URL path to a file: exact files first, then the directory
// index.
func (s *Server) lookup(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	name := filepath.Join(s.opts.Dir, filepath.FromSlash(clean))
	if s.isFile(name) {
		return name, true
	}
	index := filepath.Join(name, "index.html")
	if s.isFile(index) {
		return index, true
	}
	return "", false
}

func (s *Server) isFile(name string) bool {
	fi, err := s.opts.Fs.Stat(name)
	return err == nil && !fi.IsDir()
}

func (s *Server) send(w http.ResponseWriter, r *http.Request, name string, status int) {
	data, err := afero.ReadFile(s.opts.Fs, name)
	if err != nil {
		s.log.Error("read file", "file", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	isHTML := filepath.Ext(name) == ".html"
	if isHTML && s.hub != nil {
		data = injectReloadScript(data)
	}

	if status == http.StatusOK {
		modTime := time.Time{}
		if fi, err := s.opts.Fs.Stat(name); err == nil {
			modTime = fi.ModTime()
		}
		http.ServeContent(w, r, name, modTime, bytes.NewReader(data))
		return
	}

	if isHTML {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(data)
	}
}

func injectReloadScript(page []byte) []byte {
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		return append(page, reloadScript...)
	}
	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:i]...)
	out = append(out, reloadScript...)
	return append(out, page[i:]...)
}

// Close stops the live-reload hub and disconnects its clients. It is safe
// to call more than once.
func (s *Server) Close() {
	if s.hub != nil {
		s.hub.Close()
	}
}
