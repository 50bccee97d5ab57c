package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
// The flag values are read from the mapping found under key:
//
//	config:
//	  log-level: debug
//	  log_format: text
//	  log-pretty: false
//
// Flag names may be written with hyphens or underscores. A file that cannot
// be parsed, or that has no mapping under key, contributes nothing. Command
// line flags override configuration values.
func resolve(key string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return config{}, nil
		}

		section, ok := doc[key].(map[string]any)
		if !ok {
			return config{}, nil
		}

		cfg := make(config, len(section))
		for name, value := range section {
			cfg[name] = flagValue(value)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a decoded configuration mapping.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flagValue converts a decoded YAML value into a form kong can map onto a
// flag. Kong parses numbers from strings, and sequences become []any of the
// same converted elements.
func flagValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}
