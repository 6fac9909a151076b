package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("invalid JSON %q: %v", b, err)
	}

	return m
}

func TestMake_Defaults(t *testing.T) {
	logger := Make(nil)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.caller != DefaultCaller {
		t.Errorf("caller = %v, want %v", logger.caller, DefaultCaller)
	}

	if logger.pretty != DefaultPretty {
		t.Errorf("pretty = %v, want %v", logger.pretty, DefaultPretty)
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	// None of these may panic.
	logger.Trace("trace")
	logger.Info("info", slog.Int("n", 1))
	logger.ErrorContext(context.Background(), "error")

	if logger.Enabled(context.Background(), LevelError) {
		t.Error("zero Logger reports Enabled")
	}

	if got := logger.With(slog.String("k", "v")); got.Logger != nil {
		t.Error("With on zero Logger created a handler")
	}

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero Logger does not report defaults")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		emit  func(Logger)
		want  bool
	}{
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{"trace at debug", LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{"debug at info", LevelInfo, func(l Logger) { l.Debug("m") }, false},
		{"info at info", LevelInfo, func(l Logger) { l.Info("m") }, true},
		{"warn at error", LevelError, func(l Logger) { l.Warn("m") }, false},
		{"error at error", LevelError, func(l Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.emit(Make(&buf, WithLevel(tt.level), WithPretty(false)))

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("emitted = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_JSONRecord(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatJSON),
		WithPretty(false),
		WithLevel(LevelTrace),
		WithTimeLayout("none"),
	)

	logger.Trace("token", slog.String("text", "("), slog.Int("line", 1))

	m := decode(t, buf.Bytes())

	if _, ok := m[slog.TimeKey]; ok {
		t.Errorf("time present with layout none: %v", m)
	}

	if m[slog.LevelKey] != "TRACE" {
		t.Errorf("level = %v, want TRACE", m[slog.LevelKey])
	}

	if m["text"] != "(" || m["line"] != float64(1) {
		t.Errorf("attributes missing: %v", m)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithCaller(true)).
		Info("here")

	m := decode(t, buf.Bytes())

	src, ok := m[slog.SourceKey].(map[string]any)
	if !ok {
		t.Fatalf("source missing: %v", m)
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want the calling test file", file)
	}
}

func TestLogger_WithAndWrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
	scoped := base.With(slog.String("component", "reader"))

	scoped.Info("scoped")

	if m := decode(t, buf.Bytes()); m["component"] != "reader" {
		t.Errorf("With attribute missing: %v", m)
	}

	buf.Reset()
	base.Info("base")

	if m := decode(t, buf.Bytes()); m["component"] != nil {
		t.Errorf("With leaked into parent: %v", m)
	}

	buf.Reset()

	debug := base.Wrap(WithLevel(LevelDebug))
	debug.Debug("wrapped")

	if buf.Len() == 0 {
		t.Error("Wrap did not apply level option")
	}

	if base.Level() != DefaultLevel {
		t.Errorf("Wrap mutated parent level: %v", base.Level())
	}
}

func TestLogger_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithPretty(false)).
		WithGroup("read").
		Info("group", slog.Int("depth", 2))

	m := decode(t, buf.Bytes())

	g, ok := m["read"].(map[string]any)
	if !ok || g["depth"] != float64(2) {
		t.Errorf("group missing: %v", m)
	}
}

func TestPretty_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithTimeLayout(""),
	).With(slog.String("component", "repl"))

	logger.Warn("failed",
		slog.Any("error", errors.New("boom")),
		slog.Bool("retry", false),
		slog.Group("pos", slog.Int("line", 3), slog.Int("col", 7)),
	)

	want := "level=WARN msg=failed component=repl error=boom retry=false " +
		"pos.line=3 pos.col=7\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPretty_JSON(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithPretty(true), WithTimeLayout("")).
		Info("hello", slog.String("name", "quux"), slog.Int("n", 2))

	m := decode(t, buf.Bytes())

	if m["msg"] != "hello" || m["name"] != "quux" || m["n"] != float64(2) {
		t.Errorf("unexpected record: %v", m)
	}

	if m["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", m["level"])
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithFormat(FormatText))

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			logger.With(slog.Int("worker", i)).Info("tick")
		}()
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("got %d lines, want 16", n)
	}
}
