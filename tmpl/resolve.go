package tmpl

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tdict/literal"
)

// resolve walks path through data. When the current value is a sequence,
// the remaining path is resolved against each element. def, if not nil,
// supplies the value of a missing key; inside a fan-out it replaces only
// the missing element. Empty segments are skipped.
func resolve(
	data any,
	path []string,
	sep string,
	def func() (any, error),
) (any, error) {
	return walk(data, path, path, sep, def)
}

func walk(cur any, rest, full []string, sep string, def func() (any, error)) (any, error) {
	for i, key := range rest {
		if key == "" {
			continue
		}

		if elems, ok := elements(cur); ok {
			out := make([]any, len(elems))

			for j, elem := range elems {
				v, err := walk(elem, rest[i:], full, sep, def)
				if err != nil {
					return nil, err
				}

				out[j] = v
			}

			return out, nil
		}

		next, found, isMap := lookup(cur, key)

		switch {
		case !isMap:
			return nil, ErrInvalidPath.With(
				slog.String("path", strings.Join(full, sep)),
				slog.String("key", key),
				slog.String("type", typeName(cur)),
			)

		case !found:
			if def != nil {
				return def()
			}

			return nil, ErrKeyNotFound.With(
				slog.String("path", strings.Join(full, sep)),
				slog.String("key", key),
			)
		}

		cur = next
	}

	return cur, nil
}

// lookup returns the value of key in the mapping m. isMap reports whether m
// is a mapping at all.
func lookup(m any, key string) (v any, found, isMap bool) {
	switch m := m.(type) {
	case map[string]any:
		v, found = m[key]

		return v, found, true

	case yaml.MapSlice:
		for _, item := range m {
			if k, ok := item.Key.(string); ok && k == key {
				return item.Value, true, true
			}

			if literal.Format(item.Key) == key {
				return item.Value, true, true
			}
		}

		return nil, false, true

	case nil:
		return nil, false, false
	}

	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map {
		return nil, false, false
	}

	kt := rv.Type().Key()

	var kv reflect.Value

	switch {
	case kt.Kind() == reflect.String:
		kv = reflect.ValueOf(key).Convert(kt)
	case kt.Kind() == reflect.Interface && reflect.TypeFor[string]().AssignableTo(kt):
		kv = reflect.ValueOf(key)
	default:
		return nil, false, false
	}

	ev := rv.MapIndex(kv)
	if !ev.IsValid() {
		return nil, false, true
	}

	return ev.Interface(), true, true
}

// elements returns the elements of a sequence. Strings, byte slices, and
// ordered mappings are not sequences.
func elements(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case yaml.MapSlice, string, []byte, nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

// isMapping reports whether v can be used as evaluation data.
func isMapping(v any) bool {
	_, _, ok := lookup(v, "")

	return ok
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}

	return reflect.TypeOf(v).String()
}
