// Package watch re-runs a build when source files change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

var (
	DefaultInclude = []string{"**/*.md", "**/*.html", "**/*.css", "**/*.json"}
	DefaultExclude = []string{"**/.*", ".git/**", "node_modules/**"}
)

const DefaultDebounce = 150 * time.Millisecond

type Options struct {
	// Root anchors the patterns; paths are matched relative to it.
	Root string
	// Dirs are watched recursively.
	Dirs []string
	// Files are watched through their parent directory.
	Files    []string
	Include  []string
	Exclude  []string
	Debounce time.Duration
	// OnChange receives the changed paths, relative to Root.
	OnChange func(ctx context.Context, paths []string)
	Logger   *slog.Logger
}

type Watcher struct {
	opts    Options
	fsWatch *fsnotify.Watcher
	log     *slog.Logger
}

func New(opts Options) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, errors.New("watch: OnChange is required")
	}
	if len(opts.Include) == 0 {
		opts.Include = DefaultInclude
	}
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	for _, p := range slices.Concat(opts.Include, opts.Exclude) {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.New("watch: invalid pattern " + p)
		}
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{opts: opts, fsWatch: fsWatch, log: opts.Logger}

	for _, dir := range opts.Dirs {
		if err := w.addDir(dir); err != nil {
			fsWatch.Close()
			return nil, err
		}
	}
	for _, file := range opts.Files {
		if err := fsWatch.Add(filepath.Dir(file)); err != nil {
			fsWatch.Close()
			return nil, err
		}
	}
	return w, nil
}

// addDir watches root and every directory below it that is not excluded.
func (w *Watcher) addDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if path != root && w.excluded(path) {
			return filepath.SkipDir
		}
		return w.fsWatch.Add(path)
	})
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.opts.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) excluded(path string) bool {
	rel := w.rel(path)
	for _, p := range w.opts.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) inRecursiveDir(path string) bool {
	for _, dir := range w.opts.Dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Matches reports whether a change to path should trigger a rebuild.
func (w *Watcher) Matches(path string) bool {
	if w.excluded(path) {
		return false
	}
	rel := w.rel(path)
	for _, p := range w.opts.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Run delivers debounced changes to OnChange until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatch.Close()

	debouncer := NewDebouncer(w.opts.Debounce, func(paths []string) {
		w.log.Info("change detected", "files", len(paths), "first", paths[0])
		w.opts.OnChange(ctx, paths)
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsWatch.Events:
			if !ok {
				return nil
			}
			if evt.Has(fsnotify.Create) {
				if fi, err := os.Stat(evt.Name); err == nil && fi.IsDir() {
					if !w.inRecursiveDir(evt.Name) || w.excluded(evt.Name) {
						continue
					}
					if err := w.addDir(evt.Name); err != nil {
						w.log.Warn("watch new directory", "dir", evt.Name, "err", err)
					}
					continue
				}
			}
			if evt.Op == fsnotify.Chmod || !w.Matches(evt.Name) {
				continue
			}
			w.log.Debug("file event", "op", evt.Op.String(), "file", w.rel(evt.Name))
			debouncer.Add(w.rel(evt.Name))

		case err, ok := <-w.fsWatch.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "err", err)
		}
	}
}
