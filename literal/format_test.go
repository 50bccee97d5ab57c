package literal

import (
	"math"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
)

type color int

func (c color) String() string { return [...]string{"red", "green"}[c] }

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "x y", "x y"},
		{"nil", nil, "null"},
		{"true", true, "true"},
		{"int64", int64(-3), "-3"},
		{"int", 7, "7"},
		{"uint64", uint64(9), "9"},
		{"int32", int32(5), "5"},
		{"float whole", 3.0, "3"},
		{"float frac", 2.5, "2.5"},
		{"float32", float32(0.25), "0.25"},
		{"inf", math.Inf(1), "+Inf"},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z"},
		{"stringer", color(1), "green"},
		{"list", []any{int64(1), "a", nil}, `[1,"a",null]`},
		{"map sorted", map[string]any{"b": 1, "a": []any{true}}, `{"a":[true],"b":1}`},
		{
			"ordered",
			yaml.MapSlice{{Key: "z", Value: 1}, {Key: "a", Value: yaml.MapSlice{{Key: "y", Value: "q"}}}},
			`{"z":1,"a":{"y":"q"}}`,
		},
		{"typed slice", []string{"a", "b"}, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarshalJSONError(t *testing.T) {
	t.Parallel()

	if _, err := MarshalJSON([]any{make(chan int)}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, in := range []any{int64(12), -1.5, true, nil, []any{int64(1), "s"}} {
		got, err := Parse(Format(in))
		if err != nil {
			t.Errorf("Parse(Format(%#v)) error: %v", in, err)

			continue
		}

		if Format(got) != Format(in) {
			t.Errorf("round trip %#v -> %#v", in, got)
		}
	}
}
