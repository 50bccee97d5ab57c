package tmpl

import (
	"errors"

	"github.com/ardnew/tdict/pkg"
)

// Compilation errors.
var (
	ErrSyntax           = pkg.NewError("syntax error")
	ErrMaxDepthExceeded = pkg.NewError("maximum nesting depth exceeded")
)

// Evaluation errors.
var (
	ErrKeyNotFound       = pkg.NewError("key not found")
	ErrInvalidPath       = pkg.NewError("invalid key path")
	ErrMissingFormatKey  = pkg.NewError("missing format key")
	ErrUnknownFunction   = pkg.NewError("unknown function")
	ErrFunctionExecution = pkg.NewError("function execution failed")
	ErrLiteralSyntax     = pkg.NewError("invalid literal")
	ErrInvalidData       = pkg.NewError("invalid data")
)

// Causes attached to ErrSyntax.
var (
	errUnbalanced   = errors.New("unbalanced bracket")
	errUnterminated = errors.New("unterminated escape")
	errTag          = errors.New("malformed operator tag")
	errEmptyPath    = errors.New("empty key path")
	errNoFunction   = errors.New("missing function name")
	errPlaceholder  = errors.New("malformed format placeholder")
)
