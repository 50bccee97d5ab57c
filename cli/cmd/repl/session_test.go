package repl

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tdict/registry"
	"github.com/ardnew/tdict/tmpl"
)

func builtinSession() *session {
	s := testSession()
	s.funcs = registry.Builtins()

	return s
}

func TestSession_Eval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{"[user.name]", "ann", nil},
		{"hi [user.name]!", "hi ann!", nil},
		{"[user.admin]", "true", nil},
		{"[svc.port]", "[80,443]", nil},
		{"[!x:upper:[user.name]]", "ANN", nil},
		{"[!f:{user-name}]", "ann", nil},
		{"[nope:none]", "none", nil},
		{"[nope]", "", tmpl.ErrKeyNotFound},
		{"[user", "", tmpl.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			r := builtinSession().submit(t.Context(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(r.err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", r.err, tt.wantErr)
				}

				return
			}

			if r.err != nil {
				t.Fatalf("error = %v", r.err)
			}

			if r.text != tt.want {
				t.Errorf("text = %q, want %q", r.text, tt.want)
			}
		})
	}
}

func TestSession_Commands(t *testing.T) {
	t.Parallel()

	s := builtinSession()
	ctx := t.Context()

	if r := s.submit(ctx, ":keys"); r.text != "no template evaluated yet" {
		t.Errorf(":keys before eval = %q", r.text)
	}

	_ = s.submit(ctx, "[user.name] [svc.port]")

	if r := s.submit(ctx, ":keys"); r.text != "user\nsvc" {
		t.Errorf(":keys = %q, want %q", r.text, "user\nsvc")
	}

	if r := s.submit(ctx, ":keys [a] [b.c]"); r.text != "a\nb" {
		t.Errorf(":keys TEMPLATE = %q, want %q", r.text, "a\nb")
	}

	if r := s.submit(ctx, ":funcs upp"); !strings.HasPrefix(r.text, "upper") {
		t.Errorf(":funcs upp = %q, want upper first", r.text)
	}

	r := s.submit(ctx, ":data")
	if r.err != nil || !strings.Contains(r.text, `"name": "ann"`) {
		t.Errorf(":data = %q, %v", r.text, r.err)
	}

	if r := s.submit(ctx, ":help"); !strings.Contains(r.text, ":quit") {
		t.Error(":help does not list :quit")
	}

	for line, check := range map[string]func(reply) bool{
		":quit":  func(r reply) bool { return r.quit },
		":q":     func(r reply) bool { return r.quit },
		":clear": func(r reply) bool { return r.clear },
		":edit":  func(r reply) bool { return r.edit },
		":bogus": func(r reply) bool { return r.err != nil },
	} {
		if !check(s.submit(ctx, line)) {
			t.Errorf("%s: unexpected reply", line)
		}
	}
}

func TestSession_SetData(t *testing.T) {
	t.Parallel()

	s := builtinSession()

	if err := s.setData([]byte("a: 1\nb: [x, y]\n")); err != nil {
		t.Fatalf("setData() error = %v", err)
	}

	if _, ok := s.data.(yaml.MapSlice); !ok {
		t.Fatalf("data type = %T, want yaml.MapSlice", s.data)
	}

	if r := s.submit(t.Context(), "[a]-[b]"); r.text != `1-["x","y"]` {
		t.Errorf("eval after setData = %q", r.text)
	}

	if err := s.setData([]byte("- 1\n- 2\n")); !errors.Is(err, ErrNotMapping) {
		t.Errorf("setData(sequence) error = %v, want ErrNotMapping", err)
	}

	if err := s.setData([]byte("a: [\n")); err == nil {
		t.Error("setData(invalid) error = nil")
	}

	b, err := s.dataYAML(t.Context())
	if err != nil || !strings.Contains(string(b), "a: 1") {
		t.Errorf("dataYAML() = %q, %v", b, err)
	}
}
