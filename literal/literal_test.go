package literal

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ardnew/tdict/pkg"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want any
	}{
		{"int", "42", int64(42)},
		{"negative int", "-7", int64(-7)},
		{"plus int", "+7", int64(7)},
		{"float", "3.25", 3.25},
		{"negative float", "-0.5", -0.5},
		{"exponent", "1e3", 1000.0},
		{"double quoted", `"hello"`, "hello"},
		{"single quoted", `'default'`, "default"},
		{"escapes", `"a\tb\n"`, "a\tb\n"},
		{"true", "true", true},
		{"python true", "True", true},
		{"false", "false", false},
		{"python false", "False", false},
		{"nil", "nil", nil},
		{"null", "null", nil},
		{"python none", "None", nil},
		{"whitespace", "  12  ", int64(12)},
		{"empty list", "[]", []any{}},
		{"list", `[1, "two", 3.0, [true]]`, []any{int64(1), "two", 3.0, []any{true}}},
		{"empty map", "{}", map[string]any{}},
		{
			"map",
			`{"a": 1, 'b': [None], c: {"d": -2}}`,
			map[string]any{
				"a": int64(1),
				"b": []any{nil},
				"c": map[string]any{"d": int64(-2)},
			},
		},
		{"digit string key", `{"1": true}`, map[string]any{"1": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"   ",
		"default",
		"1 + 2",
		"-x",
		"!true",
		`"unterminated`,
		"len([1])",
		"a.b",
		"[1, foo]",
		`{1: "int key"}`,
		`{1.5: "float key"}`,
		`{"a": {2: "nested"}}`,
		"1 ?? 2",
		"[1, 2",
		"1 2",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			v, err := Parse(in)
			if err == nil {
				t.Fatalf("Parse(%q) = %#v, want error", in, v)
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) error %v is not ErrSyntax", in, err)
			}
		})
	}
}

func TestParseErrorSource(t *testing.T) {
	t.Parallel()

	_, err := Default.Parse("oops")

	var perr *pkg.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error %T is not *pkg.Error", err)
	}

	if v, ok := perr.Attr("source"); !ok || v.String() != "oops" {
		t.Errorf("source attr = %v, %v", v, ok)
	}
}

func BenchmarkParse(b *testing.B) {
	for b.Loop() {
		_, _ = Parse(`{"name": "svc", "ports": [80, 443], "debug": False}`)
	}
}
