// Package tmpl compiles schemas containing bracketed expressions into
// reusable templates and evaluates them against data.
//
// A schema is any JSON-compatible value: mappings, sequences, strings, and
// scalars. Strings may embed expressions delimited by square brackets:
//
//	[path]             select a value by dotted key path
//	[path:default]     select, falling back to default when a key is missing
//	[!s:path]          explicit select
//	[!f:Hi {user-name}] format a string against the flattened data
//	[!x:func:a:b]      call a registered function with arguments
//
// Arguments are separated by ":" at the top nesting level. Expressions nest
// freely, so "[!x:max:[a]:[b]]" calls max with the values of a and b.
// Text between backticks is literal: brackets and separators inside it are
// inert, and a doubled backtick stands for one backtick.
//
// A string that is exactly one expression evaluates to the expression's
// native value (a number, list, mapping, ...). Otherwise the literal text
// and the text form of every expression value are concatenated.
//
// When a path crosses a sequence, the rest of the path is resolved against
// every element and the results are collected in order:
//
//	t := tmpl.Must(tmpl.New("[svc.port]"))
//	v, _ := t.Evaluate(ctx, map[string]any{
//		"svc": []any{
//			map[string]any{"port": 80},
//			map[string]any{"port": 443},
//		},
//	})
//	// v == []any{80, 443}
//
// # Compilation
//
// [New] scans and parses every string once. Malformed input, such as an
// unbalanced bracket, an unterminated escape, or an unknown operator tag,
// fails with [ErrSyntax]. A compiled [Template] is immutable and safe for
// concurrent use. [Template.Keys] reports the top-level data keys the
// schema references without evaluating it.
//
// # Functions and Literals
//
// EXEC expressions call functions from a [Functions] table, by default
// [registry.Builtins]. Literal argument and default text (numbers, quoted
// strings, booleans, null, lists, mappings) is converted with a [Literals]
// parser, by default [literal.Default]. Neither executes arbitrary code.
package tmpl
