package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tdict/log"
	"github.com/ardnew/tdict/registry"
	"github.com/ardnew/tdict/tmpl"
)

// Eval compiles a schema and evaluates it against a data document.
type Eval struct {
	Schema   string   `help:"Schema file (JSON or YAML) or '-' for stdin"                        placeholder:"FILE" required:"" short:"s"`
	Data     string   `help:"Data file (JSON or YAML) or '-' for stdin"                          placeholder:"FILE"             short:"d"`
	Set      []string `help:"Set a data value (dotted key=literal), repeatable"                  placeholder:"KEY=VALUE"        sep:"none"`
	Output   string   `help:"Output format"                                    default:"json"    enum:"json,yaml"               short:"o"`
	Indent   int      `help:"Indentation width (0 for compact JSON)"           default:"2"`
	MaxDepth int      `help:"Maximum expression nesting depth"                 default:"100"`
	Missing  string   `help:"Replacement for missing format placeholders"                        placeholder:"TEXT"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if e.Schema == stdinSource && e.Data == stdinSource {
		return ErrStdinReuse.With(slog.String("command", "eval"))
	}

	t, err := compile(ctx, e.Schema, e.options()...)
	if err != nil {
		return err
	}

	data, err := loadData(e.Data, e.Set)
	if err != nil {
		return err
	}

	result, err := t.Evaluate(ctx, data)
	if err != nil {
		return ErrEvaluate.Wrap(err).With(
			slog.String("command", "eval"),
			slog.String("schema", e.Schema),
		)
	}

	log.DebugContext(ctx, "evaluated schema",
		slog.String("schema", e.Schema),
		slog.String("output", e.Output),
	)

	return write(ctx, stdout(ctx), result, e.Output, e.Indent)
}

func (e *Eval) options() []tmpl.Option {
	opts := []tmpl.Option{
		tmpl.WithFunctions(registry.Builtins()),
		tmpl.WithMaxDepth(e.MaxDepth),
		tmpl.WithLogger(log.Default()),
	}

	if e.Missing != "" {
		opts = append(opts, tmpl.WithFormatFallback(e.Missing))
	}

	return opts
}

// compile loads the schema document at path and compiles it.
func compile(ctx context.Context, path string, opts ...tmpl.Option) (*tmpl.Template, error) {
	schema, err := load(path)
	if err != nil {
		return nil, err
	}

	t, err := tmpl.New(schema, opts...)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("schema", path))
	}

	log.TraceContext(ctx, "compiled schema",
		slog.String("schema", path),
		slog.Int("keys", len(t.Keys())),
	)

	return t, nil
}
