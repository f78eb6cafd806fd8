package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/argx/cli/cmd"
	"github.com/ardnew/argx/lang"
	"github.com/ardnew/argx/pkg"
)

// CLI is the top-level command-line interface for argx.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Expand cmd.Expand `cmd:"" default:"withargs" help:"Expand expressions into rows."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Print expressions in canonical form."`
	AST    cmd.AST    `cmd:"" name:"ast"         help:"Print the syntax tree of expressions."`
	Count  cmd.Count  `cmd:""                    help:"Print the number of rows of expressions."`
	REPL   cmd.REPL   `cmd:"" name:"repl"        help:"Preview expansions interactively."`
	Init   cmd.Init   `cmd:""                    help:"Write the configuration file."`
}

// Run executes the argx CLI with the given arguments. The exit function is
// called with the exit code when kong terminates early (help, version, or
// usage errors).
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":             pkg.Version,
		cmd.ConfigIdentifier:  configFilePath,
		cmd.CacheIdentifier:   cacheDir(),
		cmd.MaxRowsIdentifier: strconv.Itoa(lang.DefaultMaxRows),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// no-op unless built with tag pprof and a mode is selected
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}
