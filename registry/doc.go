// Package registry holds the named functions callable from EXEC
// expressions.
//
// A [Registry] maps names to [Func] values. It is safe for concurrent use,
// though callers normally populate it once at start-up and treat it as
// read-only afterward. [Builtins] returns a registry with the standard
// conversion, math, generator, string, and path-list functions:
//
//	int float str bool
//	min max sum
//	timestamp uuid
//	join lower upper len
//	pathprefix
//
// [Registry.Suggest] ranks registered names against a misspelled name with
// fuzzy matching, for error hints and interactive completion.
package registry
