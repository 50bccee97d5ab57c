package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tdict/literal"
	"github.com/ardnew/tdict/log"
	"github.com/ardnew/tdict/registry"
	"github.com/ardnew/tdict/tmpl"
)

// commandPrefix starts a REPL command line.
const commandPrefix = ":"

// commands are the REPL command names, without prefix.
var commands = []string{"clear", "data", "edit", "funcs", "help", "keys", "quit"}

func helpMessage() string {
	return `
Commands:

  :keys [TEMPLATE]  List data keys referenced by TEMPLATE (or the last one)
  :funcs [PATTERN]  List functions, fuzzy filtered
  :data             Print the current data
  :edit             Edit the data in $EDITOR
  :clear            Clear screen
  :help             Print this cruft
  :quit             Exit REPL

Usage:
  Type a template string to evaluate it against the data, e.g.
    [user.name:anonymous]
    [!f:Hello, {user-name}!]
    [!x:upper:[user.name]]
  Completions appear automatically inside [ ] and after ':'
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// reply is the outcome of one submitted line.
type reply struct {
	text  string
	err   error
	quit  bool
	clear bool
	edit  bool
}

// session holds the evaluation state, independent of the terminal UI.
type session struct {
	data   any
	funcs  *registry.Registry
	logger log.Logger
	last   *tmpl.Template
}

func (s *session) options() []tmpl.Option {
	return []tmpl.Option{tmpl.WithFunctions(s.funcs), tmpl.WithLogger(s.logger)}
}

// submit evaluates a template line or runs a command line.
func (s *session) submit(ctx context.Context, line string) reply {
	if rest, ok := strings.CutPrefix(line, commandPrefix); ok {
		name, arg, _ := strings.Cut(strings.TrimSpace(rest), " ")

		return s.command(ctx, name, strings.TrimSpace(arg))
	}

	text, err := s.eval(ctx, line)

	return reply{text: text, err: err}
}

// eval compiles line as a template string and evaluates it.
func (s *session) eval(ctx context.Context, line string) (string, error) {
	t, err := tmpl.New(line, s.options()...)
	if err != nil {
		return "", err
	}

	s.last = t

	v, err := t.Evaluate(ctx, s.data)
	if err != nil {
		return "", err
	}

	s.logger.TraceContext(ctx, "repl eval result",
		slog.String("type", fmt.Sprintf("%T", v)),
	)

	return literal.Format(v), nil
}

func (s *session) command(ctx context.Context, name, arg string) reply {
	s.logger.TraceContext(ctx, "repl command",
		slog.String("command", name),
		slog.String("arg", arg),
	)

	switch name {
	case "q", "quit", "exit":
		return reply{quit: true}

	case "h", "help", "?":
		return reply{text: helpMessage()}

	case "c", "clear":
		return reply{clear: true}

	case "e", "edit":
		return reply{edit: true}

	case "k", "keys":
		return s.keys(arg)

	case "f", "funcs":
		return reply{text: strings.Join(s.funcs.Suggest(arg), "\n")}

	case "d", "data":
		text, err := s.dataView()

		return reply{text: text, err: err}

	default:
		return reply{err: fmt.Errorf("unknown command: %s (try :help)", name)}
	}
}

func (s *session) keys(arg string) reply {
	t := s.last

	if arg != "" {
		var err error

		if t, err = tmpl.New(arg, s.options()...); err != nil {
			return reply{err: err}
		}
	}

	if t == nil {
		return reply{text: "no template evaluated yet"}
	}

	return reply{text: strings.Join(t.Keys(), "\n")}
}

func (s *session) dataView() (string, error) {
	b, err := literal.MarshalJSON(s.data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// setData replaces the data with a decoded YAML document. The document must
// be empty or a mapping.
func (s *session) setData(b []byte) error {
	var v any

	if err := yaml.UnmarshalWithOptions(b, &v, yaml.UseOrderedMap()); err != nil {
		return err
	}

	switch v.(type) {
	case nil, yaml.MapSlice, map[string]any:
		s.data = v

		return nil
	default:
		return ErrNotMapping.With(slog.String("type", fmt.Sprintf("%T", v)))
	}
}

// dataYAML renders the data for editing.
func (s *session) dataYAML(ctx context.Context) ([]byte, error) {
	if s.data == nil {
		return nil, nil
	}

	return yaml.MarshalContext(ctx, s.data, yaml.Indent(2), yaml.IndentSequence(true))
}
