package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON %q: %v", line, err)
	}

	return m
}

func TestMakeDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf)

	if got := l.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, DefaultLevel)
	}

	if got := l.Format(); got != DefaultFormat {
		t.Errorf("Format() = %v, want %v", got, DefaultFormat)
	}

	l.Debug("hidden")
	l.Info("shown", slog.String("key", "value"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	m := decodeLine(t, lines[0])
	if m["msg"] != "shown" || m["key"] != "value" || m["level"] != "INFO" {
		t.Errorf("unexpected record: %v", m)
	}

	if _, ok := m["time"]; !ok {
		t.Error("missing time attribute")
	}
}

func TestLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level Level
		emit  func(Logger)
		want  string
	}{
		{LevelTrace, func(l Logger) { l.Trace("m") }, "TRACE"},
		{LevelDebug, func(l Logger) { l.Debug("m") }, "DEBUG"},
		{LevelInfo, func(l Logger) { l.Info("m") }, "INFO"},
		{LevelWarn, func(l Logger) { l.Warn("m") }, "WARN"},
		{LevelError, func(l Logger) { l.Error("m") }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			tt.emit(Make(&buf, WithLevel(LevelTrace)))

			m := decodeLine(t, strings.TrimSpace(buf.String()))
			if m["level"] != tt.want {
				t.Errorf("level = %v, want %v", m["level"], tt.want)
			}
		})
	}
}

func TestContextMethods(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelTrace), WithTimeLayout("none"))
	ctx := t.Context()

	l.TraceContext(ctx, "a")
	l.DebugContext(ctx, "b")
	l.InfoContext(ctx, "c")
	l.WarnContext(ctx, "d")
	l.ErrorContext(ctx, "e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}

	for _, line := range lines {
		if _, ok := decodeLine(t, line)["time"]; ok {
			t.Errorf("time present with layout none: %s", line)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(slog.LevelInfo + 2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"TEXT", FormatText},
		{" text ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	t.Parallel()

	levels := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}

	formats := slices.Collect(Formats())
	if want := []string{"json", "text"}; !slices.Equal(formats, want) {
		t.Errorf("Formats() = %v, want %v", formats, want)
	}
}

func TestWrapAndWith(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer

	base := Make(&a, WithTimeLayout(""))
	child := base.With(slog.String("component", "tmpl"))
	child.Info("compiled")

	if m := decodeLine(t, strings.TrimSpace(a.String())); m["component"] != "tmpl" {
		t.Errorf("With attribute missing: %v", m)
	}

	wrapped := base.Wrap(WithOutput(&b), WithFormat(FormatText))
	wrapped.Info("hello")

	if a.Len() == 0 || !strings.Contains(b.String(), "msg=hello") {
		t.Errorf("Wrap output = %q", b.String())
	}

	if wrapped.Format() != FormatText || base.Format() != FormatJSON {
		t.Error("Wrap modified the original logger")
	}
}

func TestWithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("")).WithGroup("eval")
	l.Info("done", slog.Int("keys", 2))

	m := decodeLine(t, strings.TrimSpace(buf.String()))

	group, ok := m["eval"].(map[string]any)
	if !ok || group["keys"] != float64(2) {
		t.Errorf("grouped record = %v", m)
	}
}

func TestCaller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	Make(&buf, WithCaller(true)).Info("where")

	m := decodeLine(t, strings.TrimSpace(buf.String()))

	src, ok := m["source"].(map[string]any)
	if !ok {
		t.Fatalf("missing source: %v", m)
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want log_test.go", file)
	}
}

func TestNilOutputDiscards(t *testing.T) {
	t.Parallel()

	l := Make(nil, WithOutput(nil))
	l.Error("dropped")

	var zero Logger
	zero.Info("also dropped")

	if zero.Enabled(context.Background(), LevelError) {
		t.Error("zero Logger reports enabled")
	}
}

func TestTimeLayout(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-05T07:08:09Z"},
		{"rfc-3339", "2024-03-05T07:08:09Z"},
		{"kitchen", "7:08AM"},
		{"2006/01/02", "2024/03/05"},
		{"none", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
			t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestPrettyText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf,
		WithPretty(true),
		WithFormat(FormatText),
		WithTimeLayout("none"),
	).With(slog.String("schema", "s.yaml"))

	l.Warn("missing key", slog.String("path", "a.b"), slog.Any("error", errors.New("not found")))

	got := strings.TrimSpace(buf.String())

	for _, want := range []string{"WARN", "missing key", "schema=s.yaml", "path=a.b", `error="not found"`} {
		if !strings.Contains(got, want) {
			t.Errorf("pretty text %q missing %q", got, want)
		}
	}
}

func TestPrettyJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithPretty(true), WithFormat(FormatJSON), WithTimeLayout("none"))
	l.WithGroup("eval").Info("done",
		slog.Int("keys", 3),
		slog.Bool("ok", true),
		slog.Group("func", slog.String("name", "sum")),
	)

	// Non-terminal output carries no escape sequences.
	m := decodeLine(t, strings.TrimSpace(buf.String()))

	if m["msg"] != "done" || m["level"] != "INFO" {
		t.Errorf("header = %v", m)
	}

	if m["eval.keys"] != float64(3) || m["eval.ok"] != true || m["eval.func.name"] != "sum" {
		t.Errorf("attrs = %v", m)
	}
}

type secret string

func (secret) LogValue() slog.Value { return slog.StringValue("***") }

func TestPrettyResolvesLogValuer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	Make(&buf, WithPretty(true), WithFormat(FormatText)).
		Info("login", slog.Any("token", secret("hunter2")))

	if got := buf.String(); strings.Contains(got, "hunter2") || !strings.Contains(got, "token=***") {
		t.Errorf("LogValuer not resolved: %q", got)
	}
}

func BenchmarkInfo(b *testing.B) {
	l := Make(nil)

	for b.Loop() {
		l.Info("bench", slog.Int("n", 1))
	}
}
