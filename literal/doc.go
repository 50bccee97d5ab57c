// Package literal converts literal source text into Go values.
//
// The accepted syntax covers the literal subset of the expr language:
// integers, floats, quoted strings, booleans, null, lists, and mappings with
// string keys. The Python spellings True, False, and None are also accepted.
//
//	v, err := literal.Parse(`{"replicas": 3, "tags": ["a", 'b']}`)
//	// v == map[string]any{"replicas": int64(3), "tags": []any{"a", "b"}}
//
// Text is only parsed, never compiled or run. Any node that is not a literal
// (identifiers other than the constants above, operators other than a
// numeric sign, member access, calls, pipes) is rejected with [ErrSyntax].
package literal
