package tmpl

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	none := func() (any, error) { return nil, nil }

	tests := []struct {
		name string
		data any
		path string
		def  func() (any, error)
		want any
	}{
		{"top", map[string]any{"a": 1}, "a", nil, 1},
		{"nested", map[string]any{"a": map[string]any{"b": []any{1}, "c": 2}}, "a.b", nil, []any{1}},
		{"empty segments", map[string]any{"a": map[string]any{"b": 3}}, ".a..b.", nil, 3},
		{"whole data", map[string]any{"a": 1}, ".", nil, map[string]any{"a": 1}},
		{
			"fan-out",
			map[string]any{"key": []any{
				map[string]any{"nested": 1},
				map[string]any{"nested": 2},
				map[string]any{"nested": 3},
			}},
			"key.nested", nil,
			[]any{1, 2, 3},
		},
		{
			"fan-out default per element",
			map[string]any{"a": []any{map[string]any{"b": 1}, map[string]any{"b": 2}, map[string]any{}}},
			"a.b", none,
			[]any{1, 2, nil},
		},
		{
			"nested fan-out",
			map[string]any{"x": []any{
				map[string]any{"b": map[string]any{"c": []any{
					map[string]any{"d": 1},
					map[string]any{"d": 2},
				}}},
				map[string]any{"b": map[string]any{"c": []any{}}},
			}},
			"x.b.c.d", nil,
			[]any{[]any{1, 2}, []any{}},
		},
		{
			"ordered mapping",
			yaml.MapSlice{{Key: "a", Value: yaml.MapSlice{{Key: "b", Value: "ok"}}}},
			"a.b", nil,
			"ok",
		},
		{"typed map", map[string]any{"m": map[string]int{"n": 5}}, "m.n", nil, 5},
		{"any-keyed map", map[string]any{"m": map[any]any{"n": 6}}, "m.n", nil, 6},
		{"typed slice", map[string]any{"s": []map[string]any{{"v": "x"}, {"v": "y"}}}, "s.v", nil, []any{"x", "y"}},
		{"missing with default", map[string]any{}, "a.b", func() (any, error) { return "d", nil }, "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolve(tt.data, strings.Split(tt.path, keyDelim), keyDelim, tt.def)
			if err != nil {
				t.Fatalf("resolve(%q) error: %v", tt.path, err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolve(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"a":    map[string]any{"b": 1},
		"list": []any{map[string]any{"x": 1}, map[string]any{}},
	}

	tests := []struct {
		path string
		want error
		key  string
	}{
		{"missing", ErrKeyNotFound, "missing"},
		{"a.c", ErrKeyNotFound, "c"},
		{"a.b.c", ErrInvalidPath, "c"},
		{"list.x", ErrKeyNotFound, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			_, err := resolve(data, strings.Split(tt.path, keyDelim), keyDelim, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("resolve(%q) error = %v, want %v", tt.path, err, tt.want)
			}

			if p, _ := attr(t, err, "path"); p != tt.path {
				t.Errorf("path attr = %q, want %q", p, tt.path)
			}

			if k, _ := attr(t, err, "key"); k != tt.key {
				t.Errorf("key attr = %q, want %q", k, tt.key)
			}
		})
	}
}

func TestResolveDefaultError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	_, err := resolve(map[string]any{}, []string{"k"}, keyDelim, func() (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestIsMapping(t *testing.T) {
	t.Parallel()

	for _, v := range []any{map[string]any{}, yaml.MapSlice{}, map[string]string{}, map[any]any{}} {
		if !isMapping(v) {
			t.Errorf("isMapping(%T) = false", v)
		}
	}

	for _, v := range []any{nil, "s", 1, []any{}, map[int]any{}} {
		if isMapping(v) {
			t.Errorf("isMapping(%T) = true", v)
		}
	}
}
