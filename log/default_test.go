package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// Tests in this file replace the process-wide default logger and therefore
// do not run in parallel.

func TestConfigDefault(t *testing.T) {
	saved := Default()
	t.Cleanup(func() { SetDefault(saved) })

	var buf bytes.Buffer

	l := Config(
		WithOutput(&buf),
		WithFormat(FormatText),
		WithLevel(LevelDebug),
		WithTimeLayout("none"),
	)

	if Default().Level() != LevelDebug || l.Format() != FormatText {
		t.Fatalf("Config did not replace default: %v %v", Default().Level(), l.Format())
	}

	Error("e", slog.String("k", "v"))

	ctx := t.Context()
	TraceContext(ctx, "tc")
	DebugContext(ctx, "dc")

	got := buf.String()

	if strings.Contains(got, "level=TRACE") {
		t.Errorf("trace emitted at debug level: %q", got)
	}

	for _, want := range []string{"msg=e k=v", "msg=dc"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDefaultCaller(t *testing.T) {
	saved := Default()
	t.Cleanup(func() { SetDefault(saved) })

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithFormat(FormatText), WithLevel(LevelDebug), WithCaller(true))
	Error("here", slog.String("pkg", "log"))
	DebugContext(t.Context(), "there")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	for _, line := range lines {
		if !strings.Contains(line, "default_test.go") {
			t.Errorf("caller not reported: %s", line)
		}
	}
}
