package tmpl

import (
	"testing"
)

var benchSchema = map[string]any{
	"name":    "[svc.name]",
	"ports":   "[svc.ports.number]",
	"summary": "[!f:{svc-name} on {svc-host}]",
	"total":   "[!x:sum:[svc.ports.number]]",
	"nested":  []any{"a-[svc.name]-b", "`[lit]`", 42},
}

var benchData = map[string]any{
	"svc": map[string]any{
		"name": "api",
		"host": "example.net",
		"ports": []any{
			map[string]any{"number": 80},
			map[string]any{"number": 443},
		},
	},
}

func BenchmarkNew(b *testing.B) {
	for b.Loop() {
		if _, err := New(benchSchema); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvaluate(b *testing.B) {
	t := Must(New(benchSchema))
	ctx := b.Context()

	b.ReportAllocs()

	for b.Loop() {
		if _, err := t.Evaluate(ctx, benchData); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScan(b *testing.B) {
	const s = "prefix [a.b] `[esc]` [!x:f:[c]:[d:1]] suffix"

	for b.Loop() {
		for _, err := range Scan(s) {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
