package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tdict/cli/cmd/repl"
	"github.com/ardnew/tdict/log"
	"github.com/ardnew/tdict/registry"
)

// Repl starts an interactive session evaluating template strings.
type Repl struct {
	Data string   `help:"Data file (JSON or YAML)"                         placeholder:"FILE"      short:"d" type:"existingfile"`
	Set  []string `help:"Set a data value (dotted key=literal), repeatable" placeholder:"KEY=VALUE" sep:"none"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	data, err := loadData(r.Data, r.Set)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	log.TraceContext(ctx, "repl",
		slog.String("data", r.Data),
		slog.String("cache", cacheDir),
	)

	return repl.Run(ctx, repl.Config{
		Data:     data,
		CacheDir: cacheDir,
		Funcs:    registry.Builtins(),
		Logger:   log.Default(),
	})
}
