package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tdict/cli/cmd"
	"github.com/ardnew/tdict/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// CLI is the top-level command-line interface for tdict.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Eval  cmd.Eval  `cmd:"" help:"Evaluate a schema against data"`
	Keys  cmd.Keys  `cmd:"" help:"List data keys referenced by a schema"`
	Funcs cmd.Funcs `cmd:"" help:"List builtin functions"`
	Repl  cmd.Repl  `cmd:"" help:"Evaluate templates interactively"`
	Init  cmd.Init  `cmd:"" help:"Initialize configuration file"`
}

// Run executes the tdict CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that parse errors are already reported
	// with the requested level and format.
	cli.Log.scan(args)

	// Commands receive ctx through the provider, which must observe the
	// kong context attached after parsing.
	parser, err := newParser(
		func() context.Context { return ctx },
		&cli, pkg.ConfigPath(baseConfig), kong.Exit(exit),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all resolved values, including
	// those from the configuration file.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// newParser builds the kong parser for cli. Flag defaults are read from the
// JSON file configPath+".json" and the YAML file configPath, in that order.
// Commands requesting a [context.Context] receive the value returned by ctx
// at the time they run.
func newParser(
	ctx func() context.Context,
	cli *CLI,
	configPath string,
	opts ...kong.Option,
) (*kong.Kong, error) {
	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version,
		cmd.ConfigIdentifier: configPath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	return kong.New(cli,
		append([]kong.Option{
			kong.Name(pkg.Name),
			kong.Description(pkg.Description),
			kong.UsageOnError(),
			kong.ExplicitGroups(
				[]kong.Group{cli.Log.group(), cli.Pprof.group()},
			),
			kong.BindSingletonProvider(ctx),
			kong.ConfigureHelp(
				kong.HelpOptions{
					Compact:             true,
					Summary:             true,
					Tree:                true,
					NoExpandSubcommands: true,
				}),
			kong.Configuration(kong.JSON, configPath+".json"),
			kong.Configuration(resolve(cmd.ConfigKey), configPath),
			vars,
		}, opts...)...,
	)
}
