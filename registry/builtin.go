package registry

import (
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ardnew/mung"
	"github.com/google/uuid"

	"github.com/ardnew/tdict/literal"
)

// Builtins returns a new Registry holding the standard functions.
func Builtins() *Registry { return New(builtins()) }

func builtins() Map {
	return Map{
		// Type conversion.
		"int":   unary("int", toInt),
		"float": unary("float", toFloat),
		"str":   unary("str", func(v any) (any, error) { return literal.Format(v), nil }),
		"bool":  unary("bool", func(v any) (any, error) { return truthy(v), nil }),

		// Math.
		"min": func(args ...any) (any, error) { return extreme("min", -1, args) },
		"max": func(args ...any) (any, error) { return extreme("max", 1, args) },
		"sum": sum,

		// Generators.
		"timestamp": timestamp,
		"uuid": func(args ...any) (any, error) {
			if len(args) > 0 {
				return nil, arity("uuid", 0, len(args))
			}

			return uuid.New().String(), nil
		},

		// Strings.
		"join":  join,
		"lower": unary("lower", func(v any) (any, error) { return strings.ToLower(literal.Format(v)), nil }),
		"upper": unary("upper", func(v any) (any, error) { return strings.ToUpper(literal.Format(v)), nil }),
		"len":   unary("len", length),

		// PATH-like lists.
		"pathprefix": pathPrefix,
	}
}

func arity(name string, want, got int) error {
	return ErrArgument.With(
		slog.String("function", name),
		slog.Int("want", want),
		slog.Int("got", got),
	)
}

func badType(name string, v any) error {
	return ErrArgument.With(
		slog.String("function", name),
		slog.String("type", typeName(v)),
	)
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}

	return reflect.TypeOf(v).String()
}

// unary adapts a one-argument function to a Func.
func unary(name string, f func(any) (any, error)) Func {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, arity(name, 1, len(args))
		}

		return f(args[0])
	}
}

// spread expands a single sequence argument into its elements.
func spread(args []any) []any {
	if len(args) != 1 {
		return args
	}

	if list, ok := sequence(args[0]); ok {
		return list
	}

	return args
}

// sequence returns the elements of v if it is a slice or array other than
// a byte string.
func sequence(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}

	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}

	return list, true
}

func toInt(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return int64(1), nil
		}

		return int64(0), nil

	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), "_", "")

		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, ErrArgument.Wrap(err).With(slog.String("function", "int"))
		}

		return i, nil
	}

	if n, ok := number(v); ok {
		if n.isInt {
			return n.i, nil
		}

		return int64(n.f), nil
	}

	return nil, badType("int", v)
}

func toFloat(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1.0, nil
		}

		return 0.0, nil

	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, ErrArgument.Wrap(err).With(slog.String("function", "float"))
		}

		return f, nil
	}

	if n, ok := number(v); ok {
		return n.float(), nil
	}

	return nil, badType("float", v)
}

// truthy reports the truth value of v. Strings that spell a boolean are
// parsed; any other non-empty string is true.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}

		return v != ""
	}

	if n, ok := number(v); ok {
		return n.float() != 0
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	default:
		return true
	}
}

// extreme returns the smallest (sign < 0) or largest (sign > 0) argument.
// Arguments must be all numbers or all strings.
func extreme(name string, sign int, args []any) (any, error) {
	args = spread(args)
	if len(args) == 0 {
		return nil, arity(name, 1, 0)
	}

	best := args[0]

	for _, v := range args[1:] {
		c, err := compare(name, v, best)
		if err != nil {
			return nil, err
		}

		if c*sign > 0 {
			best = v
		}
	}

	if _, err := compare(name, best, best); err != nil {
		return nil, err
	}

	return best, nil
}

func compare(name string, a, b any) (int, error) {
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, badType(name, b)
		}

		return strings.Compare(sa, sb), nil
	}

	na, ok := number(a)
	if !ok {
		return 0, badType(name, a)
	}

	nb, ok := number(b)
	if !ok {
		return 0, badType(name, b)
	}

	return na.compare(nb), nil
}

// sum adds numeric arguments. The result is int64 when every operand is an
// integer, float64 otherwise.
func sum(args ...any) (any, error) {
	var (
		ints   int64
		floats float64
		isInt  = true
	)

	for _, v := range spread(args) {
		n, ok := number(v)
		if !ok {
			return nil, badType("sum", v)
		}

		switch {
		case isInt && n.isInt:
			ints += n.i
		case isInt:
			floats, isInt = float64(ints)+n.f, false
		default:
			floats += n.float()
		}
	}

	if isInt {
		return ints, nil
	}

	return floats, nil
}

// timestamp returns the current local time in RFC 3339 format, or in the
// layout given as the only argument.
func timestamp(args ...any) (any, error) {
	layout := time.RFC3339

	switch len(args) {
	case 0:
	case 1:
		s, ok := args[0].(string)
		if !ok {
			return nil, badType("timestamp", args[0])
		}

		layout = s
	default:
		return nil, arity("timestamp", 1, len(args))
	}

	return time.Now().Local().Format(layout), nil
}

// join concatenates items with sep. A single sequence item is expanded.
func join(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, arity("join", 1, 0)
	}

	sep, ok := args[0].(string)
	if !ok {
		return nil, badType("join", args[0])
	}

	items := spread(args[1:])
	parts := make([]string, len(items))

	for i, v := range items {
		parts[i] = literal.Format(v)
	}

	return strings.Join(parts, sep), nil
}

func length(v any) (any, error) {
	if s, ok := v.(string); ok {
		return int64(utf8.RuneCountInString(s)), nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return int64(rv.Len()), nil
	default:
		return nil, badType("len", v)
	}
}

// pathPrefix prepends items to a PATH-style list.
func pathPrefix(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, arity("pathprefix", 1, 0)
	}

	items := spread(args[1:])
	prefix := make([]string, len(items))

	for i, v := range items {
		prefix[i] = literal.Format(v)
	}

	return mung.Make(
		mung.WithSubjectItems(literal.Format(args[0])),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String(), nil
}
