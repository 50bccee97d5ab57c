package repl

import "github.com/ardnew/tdict/pkg"

var (
	ErrOutOfBounds  = pkg.NewError("history index out of range")
	ErrEditDeclined = pkg.NewError("edit declined")
	ErrNotMapping   = pkg.NewError("data must be a mapping")
)
