package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tdict/log"
	"github.com/ardnew/tdict/profile"
)

// configIndent is the indentation of the generated configuration file.
const configIndent = 2

// Init writes the current global flag values to the configuration file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(ErrNoContext)
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || confPath == "" {
		return ErrWriteConfig.Wrap(ErrNoContext).With(
			slog.String("var", ConfigIdentifier))
	}

	fileAttr := slog.String("file", confPath)

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.With(fileAttr).Wrap(ErrFileExists)
	}

	b, err := yaml.MarshalContext(ctx, configDocument(ktx), yaml.Indent(configIndent))
	if err != nil {
		return ErrWriteConfig.With(fileAttr).Wrap(err)
	}

	if err := os.WriteFile(confPath, b, 0o600); err != nil {
		return ErrWriteConfig.With(fileAttr).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", fileAttr)

	return nil
}

// ignoredFlags are flag name prefixes never written to the configuration.
var ignoredFlags = []string{"help", "version", profile.Tag}

// configDocument builds the configuration document from the resolved global
// flag values, in declaration order.
func configDocument(ktx *kong.Context) yaml.MapSlice {
	var entries yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			entries = append(entries, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return yaml.MapSlice{{Key: ConfigKey, Value: entries}}
}

// configValue converts a flag value into a plain YAML scalar or sequence.
// Empty strings and empty slices are omitted.
func configValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		if s := rv.String(); s != "" {
			return s, true
		}

		return nil, false

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil, false
		}

		out := make([]any, 0, rv.Len())

		for i := range rv.Len() {
			if e, ok := configValue(rv.Index(i).Interface()); ok {
				out = append(out, e)
			}
		}

		return out, len(out) > 0

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v, true

	default:
		return nil, false
	}
}
