package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tdict/literal"
)

// Output formats accepted by --output.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// write renders v to w in the given output format. Ordered mappings keep
// their order. Indent 0 selects compact JSON or flow-style YAML.
func write(ctx context.Context, w io.Writer, v any, format string, indent int) error {
	var (
		b   []byte
		err error
	)

	switch format {
	case OutputYAML:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		b, err = yaml.MarshalContext(ctx, v, opts...)

	default:
		b, err = literal.MarshalJSON(v)
		if err == nil && indent > 0 {
			var buf bytes.Buffer

			err = json.Indent(&buf, b, "", spaces(indent))
			b = buf.Bytes()
		}

		if err == nil {
			b = append(b, '\n')
		}
	}

	if err != nil {
		return ErrMarshal.Wrap(err).With(slog.String("output", format))
	}

	_, err = w.Write(b)

	return err
}

func spaces(n int) string { return strings.Repeat(" ", n) }
