package tmpl

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tdict/literal"
)

// Template is a compiled schema. It is immutable and safe for concurrent
// use.
type Template struct {
	schema any
	root   value
	keys   []string
	cfg    config
}

// New compiles schema.
//
// Mappings of type map[string]any are compiled in sorted key order; use
// [yaml.MapSlice] to keep the schema's own order in results and in
// [Template.Keys].
func New(schema any, opts ...Option) (*Template, error) {
	c := &compiler{cfg: makeConfig(opts...)}

	root, err := c.compile(schema, "$", 0)
	if err != nil {
		c.cfg.logger.Debug("compile failed", slog.Any("error", err))

		return nil, err
	}

	t := &Template{
		schema: schema,
		root:   root,
		keys:   slices.Clip(c.keys),
		cfg:    c.cfg,
	}

	c.cfg.logger.Debug("compiled template",
		slog.Int("keys", len(t.keys)),
		slog.String("schema", t.String()),
	)

	return t, nil
}

// Must returns t or panics if err is not nil.
func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}

	return t
}

// Keys returns the distinct top-level data keys referenced by the schema,
// in order of first appearance.
func (t *Template) Keys() []string { return slices.Clone(t.keys) }

// Schema returns the schema t was compiled from.
func (t *Template) Schema() any { return t.schema }

// Evaluate fills the template with data, which must be a mapping or nil.
// ctx is used for log correlation only.
func (t *Template) Evaluate(ctx context.Context, data any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if data == nil {
		data = map[string]any{}
	}

	if !isMapping(data) {
		return nil, ErrInvalidData.With(slog.String("type", typeName(data)))
	}

	t.cfg.logger.TraceContext(ctx, "evaluate template", slog.String("schema", t.String()))

	v, err := t.root.eval(&state{ctx: ctx, tmpl: t, data: data})
	if err != nil {
		t.cfg.logger.DebugContext(ctx, "evaluate failed", slog.Any("error", err))

		return nil, err
	}

	return v, nil
}

// MarshalJSON encodes t as {"schema": <schema>}.
func (t *Template) MarshalJSON() ([]byte, error) {
	return literal.MarshalJSON(yaml.MapSlice{{Key: "schema", Value: t.schema}})
}

// maxStringSchema bounds the schema text included by String.
const maxStringSchema = 64

// String returns a short description of t for logs.
func (t *Template) String() string {
	schema := literal.Format(t.schema)
	if len(schema) > maxStringSchema {
		schema = schema[:maxStringSchema] + "..."
	}

	var sb strings.Builder

	sb.WriteString("Template(")
	sb.WriteString(strconv.Quote(schema))
	sb.WriteString(", keys=[")
	sb.WriteString(strings.Join(t.keys, " "))
	sb.WriteString("])")

	return sb.String()
}
