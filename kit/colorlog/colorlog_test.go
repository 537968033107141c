package colorlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestNewDefaults(t *testing.T) {
	h := NewHandler("pages")
	if h.label != "pages" {
		t.Errorf("label = %q, want pages", h.label)
	}
	if h.opts.Level.Level() != slog.LevelInfo {
		t.Errorf("level = %v, want info", h.opts.Level)
	}
}

func TestLevelVar(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelWarn)
	logger := New("pages", Options{Output: &buf, Level: lv, UseColor: ptr(false)})

	logger.Info("hidden")
	lv.Set(slog.LevelDebug)
	logger.Debug("shown")

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("info should be filtered at warn: %q", got)
	}
	if !strings.Contains(got, "DEBUG  shown") {
		t.Errorf("debug should appear after lowering level: %q", got)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level  slog.Level
		prefix string
		color  string
	}{
		{slog.LevelDebug, "DEBUG  ", colorGray},
		{slog.LevelInfo, "", colorCyan},
		{slog.LevelWarn, "WARNING  ", colorYellow},
		{slog.LevelError, "ERROR  ", colorRed},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := New("pages", Options{Output: &buf, Level: slog.LevelDebug, UseColor: ptr(true)})
		logger.Log(context.Background(), tt.level, "msg")

		got := buf.String()
		if !strings.Contains(got, tt.color+tt.prefix+"msg"+colorReset) {
			t.Errorf("level %v: output %q lacks %q", tt.level, got, tt.prefix+"msg")
		}
	}
}

func TestPlainLine(t *testing.T) {
	var buf bytes.Buffer
	logger := New("pages", Options{Output: &buf, UseColor: ptr(false), NoTime: true})

	logger.Info("exported routes", "count", 10, "out", "dist/pages")

	want := "(pages)  exported routes  count=10 out=dist/pages\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTimePrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := New("pages", Options{Output: &buf, UseColor: ptr(false)})

	logger.Info("x")

	if !strings.HasPrefix(buf.String(), time.Now().Format("2006/01/02")) {
		t.Errorf("expected date prefix: %q", buf.String())
	}
}

func TestGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New("pages", Options{Output: &buf, UseColor: ptr(false), NoTime: true})

	logger.With("base", "/p/").WithGroup("route").WithGroup("write").Info("ok", "path", "en/index.html")

	got := buf.String()
	if !strings.Contains(got, "base=/p/") {
		t.Errorf("pre-group attr missing: %q", got)
	}
	if !strings.Contains(got, "route.write.path=en/index.html") {
		t.Errorf("grouped attr missing: %q", got)
	}
}

func TestClonesShareMutex(t *testing.T) {
	h := NewHandler("pages", Options{Output: &bytes.Buffer{}})
	h2 := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(*ColorLogHandler)
	h3 := h.WithGroup("g").(*ColorLogHandler)

	if h.mu != h2.mu || h.mu != h3.mu {
		t.Error("clones should share the same mutex")
	}
	if h.WithAttrs(nil) != slog.Handler(h) || h.WithGroup("") != slog.Handler(h) {
		t.Error("empty WithAttrs/WithGroup should return the receiver")
	}
}

func TestConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := New("pages", Options{Output: &buf, UseColor: ptr(false)})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("write", "n", i)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if !strings.Contains(line, "write") {
			t.Errorf("line %d corrupted: %q", i, line)
		}
	}
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) { return 0, errors.New("write error") }

func TestHandleError(t *testing.T) {
	h := NewHandler("pages", Options{Output: errorWriter{}, UseColor: ptr(false)})
	err := h.Handle(context.Background(), slog.Record{Time: time.Now(), Message: "x", Level: slog.LevelInfo})
	if err == nil || err.Error() != "write error" {
		t.Errorf("expected write error, got %v", err)
	}
}
