package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tdict/literal"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource names standard input wherever a file path is accepted.
const stdinSource = "-"

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// readFile returns the content of path, or of stdin when path is "-".
func readFile(path string) ([]byte, error) {
	var (
		b   []byte
		err error
	)

	if path == stdinSource {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("file", path))
	}

	return b, nil
}

// decode parses a JSON or YAML document. Mappings decode to [yaml.MapSlice]
// so that key order survives into the compiled template and its output.
// An empty document decodes to nil.
func decode(path string, b []byte) (any, error) {
	var v any

	dec := yaml.NewDecoder(strings.NewReader(string(b)), yaml.UseOrderedMap())

	err := dec.Decode(&v)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("file", path))
	}

	return v, nil
}

// load reads and decodes the document at path.
func load(path string) (any, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}

	return decode(path, b)
}

// loadData decodes the data document at path, if any, and applies each
// "key=value" assignment in sets. Keys are dotted paths and values are
// coerced with the literal parser, falling back to the raw text.
func loadData(path string, sets []string) (any, error) {
	var (
		data any
		err  error
	)

	if path != "" {
		if data, err = load(path); err != nil {
			return nil, err
		}
	}

	for _, set := range sets {
		key, text, ok := strings.Cut(set, "=")
		if !ok || key == "" {
			return nil, ErrSetValue.With(slog.String("set", set))
		}

		value, err := literal.Parse(text)
		if err != nil {
			value = text
		}

		data, err = assign(data, strings.Split(key, "."), value)
		if err != nil {
			return nil, ErrSetValue.Wrap(err).With(slog.String("set", set))
		}
	}

	return data, nil
}

// assign stores value at path inside data, creating ordered mappings for
// missing levels, and returns the updated root.
func assign(data any, path []string, value any) (any, error) {
	if len(path) == 0 {
		return value, nil
	}

	switch m := data.(type) {
	case nil:
		child, err := assign(nil, path[1:], value)
		if err != nil {
			return nil, err
		}

		return yaml.MapSlice{{Key: path[0], Value: child}}, nil

	case yaml.MapSlice:
		for i, item := range m {
			if key, ok := item.Key.(string); ok && key == path[0] {
				child, err := assign(item.Value, path[1:], value)
				if err != nil {
					return nil, err
				}

				m[i].Value = child

				return m, nil
			}
		}

		child, err := assign(nil, path[1:], value)
		if err != nil {
			return nil, err
		}

		return append(m, yaml.MapItem{Key: path[0], Value: child}), nil

	case map[string]any:
		child, err := assign(m[path[0]], path[1:], value)
		if err != nil {
			return nil, err
		}

		m[path[0]] = child

		return m, nil

	default:
		return nil, fmt.Errorf("cannot set %q in %T", path[0], data)
	}
}
