package tmpl

import (
	"sync"

	"github.com/ardnew/tdict/literal"
	"github.com/ardnew/tdict/log"
	"github.com/ardnew/tdict/registry"
)

// Functions resolves function names used by EXEC expressions.
// [*registry.Registry] and [registry.Map] implement it.
type Functions interface {
	Lookup(name string) (registry.Func, bool)
}

// Literals converts literal argument and default text into values.
// [literal.Parser] implements it.
type Literals interface {
	Parse(text string) (any, error)
}

// Option configures a [Template].
type Option func(config) config

type config struct {
	functions      Functions
	literals       Literals
	logger         log.Logger
	formatFallback *string
	maxDepth       int
}

var builtins = sync.OnceValue(registry.Builtins)

func makeConfig(opts ...Option) config {
	cfg := config{
		functions: builtins(),
		literals:  literal.Default,
		logger:    log.Default(),
		maxDepth:  DefaultMaxDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}

// WithFunctions sets the function table used by EXEC expressions.
// A nil table restores the builtins.
func WithFunctions(f Functions) Option {
	return func(c config) config {
		if f == nil {
			f = builtins()
		}

		c.functions = f

		return c
	}
}

// WithLiterals sets the parser for literal text.
func WithLiterals(l Literals) Option {
	return func(c config) config {
		if l != nil {
			c.literals = l
		}

		return c
	}
}

// WithMaxDepth bounds expression nesting. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(c config) config {
		if depth > 0 {
			c.maxDepth = depth
		}

		return c
	}
}

// WithLogger sets the logger receiving compile and evaluation traces.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.logger = l

		return c
	}
}

// WithFormatFallback substitutes text for FORMAT placeholders that name no
// key, instead of failing with [ErrMissingFormatKey].
func WithFormatFallback(text string) Option {
	return func(c config) config {
		c.formatFallback = &text

		return c
	}
}
