// Package colorlog is a slog handler that prints one human-readable line per
// record, prefixed with a label, colouring output when it goes to a terminal.
package colorlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	colorReset  = "\033[0m"
	colorGray   = "\033[37m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorBlue   = "\033[34m"
)

const timeLayout = "2006/01/02 15:04:05"

type Options struct {
	Output   io.Writer   // nil = os.Stderr
	Level    slog.Leveler // nil = slog.LevelInfo
	UseColor *bool        // nil = auto-detect
	NoTime   bool
}

type ColorLogHandler struct {
	label  string
	opts   Options
	mu     *sync.Mutex // shared across WithAttrs/WithGroup clones
	attrs  []slog.Attr
	groups []string
	color  bool
}

func New(label string, opts ...Options) *slog.Logger {
	return slog.New(NewHandler(label, opts...))
}

func NewHandler(label string, opts ...Options) *ColorLogHandler {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Output == nil {
		o.Output = os.Stderr
	}
	if o.Level == nil {
		o.Level = slog.LevelInfo
	}
	return &ColorLogHandler{
		label: label,
		opts:  o,
		mu:    &sync.Mutex{},
		color: detectColor(o.Output, o.UseColor),
	}
}

func detectColor(w io.Writer, override *bool) bool {
	if override != nil {
		return *override
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (h *ColorLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *ColorLogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !h.opts.NoTime && !r.Time.IsZero() {
		b.WriteString(h.wrap(colorGray, r.Time.Format(timeLayout)))
		b.WriteString("  ")
	}
	b.WriteString("(")
	b.WriteString(h.wrap(colorBlue, h.label))
	b.WriteString(")  ")
	b.WriteString(h.wrap(levelColor(r.Level), levelPrefix(r.Level)+r.Message))

	first := true
	writeAttr := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		if first {
			b.WriteString("  ")
			first = false
		} else {
			b.WriteString(" ")
		}
		b.WriteString(h.wrap(colorGray, a.Key+"="))
		b.WriteString(fmt.Sprintf("%v", a.Value.Resolve().Any()))
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(h.prefixAttr(a))
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.opts.Output, b.String())
	return err
}

func (h *ColorLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(clone.attrs, h.attrs)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.prefixAttr(a))
	}
	return &clone
}

func (h *ColorLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (h *ColorLogHandler) prefixAttr(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return a
	}
	return slog.Attr{Key: strings.Join(h.groups, ".") + "." + a.Key, Value: a.Value}
}

func (h *ColorLogHandler) wrap(color, s string) string {
	if !h.color {
		return s
	}
	return color + s + colorReset
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorCyan
	default:
		return colorGray
	}
}

func levelPrefix(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR  "
	case level >= slog.LevelWarn:
		return "WARNING  "
	case level >= slog.LevelInfo:
		return ""
	default:
		return "DEBUG  "
	}
}
