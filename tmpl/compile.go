package tmpl

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tdict/literal"
	"github.com/ardnew/tdict/pkg"
)

// MaxSchemaDepth bounds the nesting of mappings and sequences in a schema.
const MaxSchemaDepth = 10000

// compiler holds the state of one [New] call.
type compiler struct {
	cfg  config
	keys []string
	seen map[string]struct{}
}

func (c *compiler) addKey(key string) {
	if key == "" {
		return
	}

	if _, ok := c.seen[key]; ok {
		return
	}

	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}

	c.seen[key] = struct{}{}
	c.keys = append(c.keys, key)
}

// value is a compiled schema position.
type value interface {
	eval(s *state) (any, error)
}

type (
	// constant is a schema scalar or a string without expressions.
	constant struct{ v any }

	// expression is a string consisting of exactly one expression.
	expression struct{ node *Node }

	// concat is a string mixing text and expressions.
	concat struct{ parts []part }

	// mapping yields map[string]any.
	mapping struct {
		keys []string
		vals []value
	}

	// ordered yields [yaml.MapSlice], keeping key order.
	ordered struct {
		keys []any
		vals []value
	}

	// sequence yields []any.
	sequence struct{ vals []value }
)

func (c *compiler) compile(v any, loc string, depth int) (value, error) {
	if depth > MaxSchemaDepth {
		return nil, ErrMaxDepthExceeded.With(
			slog.Int("depth", MaxSchemaDepth),
			slog.String("location", loc),
		)
	}

	switch v := v.(type) {
	case string:
		return c.compileString(v, loc)

	case nil, bool, int, int64, uint64, float64:
		return constant{v}, nil

	case yaml.MapSlice:
		m := ordered{keys: make([]any, len(v)), vals: make([]value, len(v))}

		for i, item := range v {
			val, err := c.compile(item.Value, child(loc, keyText(item.Key)), depth+1)
			if err != nil {
				return nil, err
			}

			m.keys[i], m.vals[i] = item.Key, val
		}

		return m, nil

	case map[string]any:
		return c.compileMap(slices.Sorted(maps.Keys(v)), func(k string) any { return v[k] }, loc, depth)

	case []any:
		return c.compileSequence(len(v), func(i int) any { return v[i] }, loc, depth)
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return constant{v}, nil
		}

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		return c.compileMap(keys, func(k string) any {
			return rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()
		}, loc, depth)

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return constant{v}, nil
		}

		return c.compileSequence(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, loc, depth)

	default:
		return constant{v}, nil
	}
}

func (c *compiler) compileMap(
	keys []string,
	get func(string) any,
	loc string,
	depth int,
) (value, error) {
	m := mapping{keys: keys, vals: make([]value, len(keys))}

	for i, k := range keys {
		val, err := c.compile(get(k), child(loc, k), depth+1)
		if err != nil {
			return nil, err
		}

		m.vals[i] = val
	}

	return m, nil
}

func (c *compiler) compileSequence(
	n int,
	get func(int) any,
	loc string,
	depth int,
) (value, error) {
	seq := sequence{vals: make([]value, n)}

	for i := range n {
		val, err := c.compile(get(i), loc+"["+strconv.Itoa(i)+"]", depth+1)
		if err != nil {
			return nil, err
		}

		seq.vals[i] = val
	}

	return seq, nil
}

func (c *compiler) compileString(s, loc string) (value, error) {
	a, err := c.parseArg(segment{text: s}, 0)
	if err != nil {
		return nil, annotateLocation(err, loc)
	}

	a.visitKeys(c.addKey)

	if node := a.single(); node != nil {
		return expression{node}, nil
	}

	if text, ok := a.static(); ok {
		return constant{text}, nil
	}

	return concat{a.parts}, nil
}

func annotateLocation(err error, loc string) error {
	if e, ok := err.(*pkg.Error); ok {
		return e.With(slog.String("location", loc))
	}

	return err
}

func child(loc, key string) string {
	return loc + "." + key
}

func keyText(k any) string { return literal.Format(k) }

func (v constant) eval(*state) (any, error) { return clone(v.v), nil }

func (v expression) eval(s *state) (any, error) { return s.evalNode(v.node) }

func (v concat) eval(s *state) (any, error) { return s.text(v.parts) }

func (v mapping) eval(s *state) (any, error) {
	out := make(map[string]any, len(v.keys))

	for i, k := range v.keys {
		val, err := v.vals[i].eval(s)
		if err != nil {
			return nil, err
		}

		out[k] = val
	}

	return out, nil
}

func (v ordered) eval(s *state) (any, error) {
	out := make(yaml.MapSlice, len(v.keys))

	for i, k := range v.keys {
		val, err := v.vals[i].eval(s)
		if err != nil {
			return nil, err
		}

		out[i] = yaml.MapItem{Key: k, Value: val}
	}

	return out, nil
}

func (v sequence) eval(s *state) (any, error) {
	out := make([]any, len(v.vals))

	for i, elem := range v.vals {
		val, err := elem.eval(s)
		if err != nil {
			return nil, err
		}

		out[i] = val
	}

	return out, nil
}

// clone copies the composite literal values produced by literal parsing so
// that no evaluation result aliases compiled state.
func clone(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = clone(elem)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = clone(elem)
		}

		return out

	default:
		return v
	}
}
