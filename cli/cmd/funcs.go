package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/tdict/registry"
)

// Funcs lists the builtin functions available to EXEC expressions.
type Funcs struct {
	Pattern string `arg:"" help:"Fuzzy filter; matches are listed best first" optional:""`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) error {
	w := stdout(ctx)

	for _, name := range registry.Builtins().Suggest(f.Pattern) {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}

	return nil
}
