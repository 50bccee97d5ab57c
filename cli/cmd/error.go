package cmd

import "github.com/ardnew/tdict/pkg"

var (
	ErrReadInput   = pkg.NewError("read input")
	ErrDecode      = pkg.NewError("decode document")
	ErrStdinReuse  = pkg.NewError("stdin used for more than one input")
	ErrSetValue    = pkg.NewError("invalid --set value")
	ErrCompile     = pkg.NewError("compile schema")
	ErrEvaluate    = pkg.NewError("evaluate template")
	ErrMarshal     = pkg.NewError("marshal result")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrNoContext   = pkg.NewError("command context unavailable")
)
