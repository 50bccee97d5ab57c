package literal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// Format returns the text form of v used when a value is embedded in a
// larger string.
//
// Strings are returned verbatim, nil is "null", booleans and numbers use
// their shortest form, and sequences and mappings are rendered as compact
// JSON. Ordered mappings ([yaml.MapSlice]) keep their key order; other
// mappings are rendered with sorted keys.
func Format(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), rv.Type().Bits())
	case reflect.String:
		return rv.String()
	}

	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return string(data)
}

func formatFloat(f float64, bits int) string {
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// MarshalJSON encodes v as compact JSON, preserving the key order of
// [yaml.MapSlice] values at any depth.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case yaml.MapSlice:
		buf.WriteByte('{')

		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeKey(buf, Format(item.Key)); err != nil {
				return err
			}

			if err := writeJSON(buf, item.Value); err != nil {
				return err
			}
		}

		buf.WriteByte('}')

		return nil

	case map[string]any:
		buf.WriteByte('{')

		for i, k := range slices.Sorted(maps.Keys(v)) {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeKey(buf, k); err != nil {
				return err
			}

			if err := writeJSON(buf, v[k]); err != nil {
				return err
			}
		}

		buf.WriteByte('}')

		return nil

	case []any:
		buf.WriteByte('[')

		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSON(buf, elem); err != nil {
				return err
			}
		}

		buf.WriteByte(']')

		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	buf.Write(data)

	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}

	buf.Write(data)
	buf.WriteByte(':')

	return nil
}
