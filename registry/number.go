package registry

import (
	"cmp"
	"reflect"
)

// num is a numeric operand normalized to int64 or float64.
type num struct {
	i     int64
	f     float64
	isInt bool
}

func (n num) float() float64 {
	if n.isInt {
		return float64(n.i)
	}

	return n.f
}

func (n num) compare(o num) int {
	if n.isInt && o.isInt {
		return cmp.Compare(n.i, o.i)
	}

	return cmp.Compare(n.float(), o.float())
}

// number converts any Go integer or float kind. Booleans are not numbers.
func number(v any) (num, bool) {
	switch v := v.(type) {
	case int64:
		return num{i: v, isInt: true}, true
	case int:
		return num{i: int64(v), isInt: true}, true
	case float64:
		return num{f: v}, true
	case uint64:
		return num{i: int64(v), isInt: true}, true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return num{i: rv.Int(), isInt: true}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return num{i: int64(rv.Uint()), isInt: true}, true
	case reflect.Float32, reflect.Float64:
		return num{f: rv.Float()}, true
	default:
		return num{}, false
	}
}
