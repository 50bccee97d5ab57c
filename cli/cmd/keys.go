package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/tdict/registry"
	"github.com/ardnew/tdict/tmpl"
)

// Keys prints the top-level data keys a schema references.
type Keys struct {
	Schema string `help:"Schema file (JSON or YAML) or '-' for stdin" placeholder:"FILE" required:"" short:"s"`
}

// Run executes the keys command.
func (k *Keys) Run(ctx context.Context) error {
	t, err := compile(ctx, k.Schema, tmpl.WithFunctions(registry.Builtins()))
	if err != nil {
		return err
	}

	w := stdout(ctx)

	for _, key := range t.Keys() {
		if _, err := fmt.Fprintln(w, key); err != nil {
			return err
		}
	}

	return nil
}
