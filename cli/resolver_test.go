package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func flag(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func load(t *testing.T, src string) kong.Resolver {
	t.Helper()

	r, err := resolve("config")(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	return r
}

func TestResolve_Values(t *testing.T) {
	t.Parallel()

	r := load(t, `
config:
  log-level: debug
  log_format: text
  log-pretty: false
  indent: 4
  ratio: 1.5
  set: [a=1, b=2]
other:
  log-level: error
`)

	tests := []struct {
		name string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "text"},
		{"log-pretty", false},
		{"indent", "4"},
		{"ratio", "1.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Resolve(nil, nil, flag(tt.name))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.name, got, tt.want)
			}
		})
	}

	got, _ := r.Resolve(nil, nil, flag("set"))

	seq, ok := got.([]any)
	if !ok || len(seq) != 2 || seq[0] != "a=1" || seq[1] != "b=2" {
		t.Errorf("Resolve(set) = %#v", got)
	}
}

func TestResolve_Empty(t *testing.T) {
	t.Parallel()

	for name, src := range map[string]string{
		"no section":  "other: {a: 1}\n",
		"not mapping": "config: [1, 2]\n",
		"invalid":     "config: {a: [\n",
		"blank":       "",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := load(t, src)

			got, err := r.Resolve(nil, nil, flag("a"))
			if err != nil || got != nil {
				t.Errorf("Resolve() = %v, %v; want nil, nil", got, err)
			}
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestResolve_ReadError(t *testing.T) {
	t.Parallel()

	r, err := resolve("config")(errorReader{})
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	if err := r.Validate(nil); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLogConfig_Scan(t *testing.T) {
	// Mutates the default logger.
	var f logConfig

	f.scan([]string{
		"eval", "--log-level", "debug", "--log-format=text",
		"--no-log-pretty", "--log-caller=true", "--", "--log-level=error",
	})

	if f.Level != "debug" {
		t.Errorf("Level = %q, want debug", f.Level)
	}

	if f.Format != "text" {
		t.Errorf("Format = %q, want text", f.Format)
	}

	if f.Pretty {
		t.Error("Pretty = true, want false")
	}

	if !f.Caller {
		t.Error("Caller = false, want true")
	}
}

func TestBoolFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, value string
		assigned    bool
		want, ok    bool
	}{
		{"--log-pretty", "", false, true, true},
		{"--no-log-pretty", "", false, false, true},
		{"--log-pretty", "false", true, false, true},
		{"--no-log-pretty", "false", true, true, true},
		{"--log-pretty", "maybe", true, false, false},
	}

	for _, tt := range tests {
		got, ok := boolFlag(tt.name, tt.value, tt.assigned)
		if got != tt.want || ok != tt.ok {
			t.Errorf("boolFlag(%q, %q, %v) = %v, %v; want %v, %v",
				tt.name, tt.value, tt.assigned, got, ok, tt.want, tt.ok)
		}
	}
}
