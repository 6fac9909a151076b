package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quux/cli/cmd"
	"github.com/ardnew/quux/lang"
	"github.com/ardnew/quux/pkg"
)

// CLI is the top-level command-line interface for quux.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Source   []string `help:"Input source file(s) or '-' for stdin, searched for in ${sourcePathEnv}." name:"source" short:"s"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum nesting depth of a form (0 for no limit)."`

	Init cmd.Init `cmd:"" help:"Initialize configuration file."`
	Fmt  cmd.Fmt  `cmd:"" help:"Reformat sources."`
	Read cmd.Read `cmd:"" help:"Read, evaluate, and print each line of the sources."`

	Repl cmd.Repl `cmd:"" default:"1" help:"Start the interactive read-eval-print loop."`
}

// vars returns the variables interpolated into struct tags.
func (c *CLI) vars() kong.Vars {
	return kong.Vars{
		cmd.ConfigIdentifier: configPath(baseConfig),
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
		"sourcePathEnv":      sourcePathEnv(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(c.Log.vars()).
		CloneWith(c.Pprof.vars())
}

// parser returns the kong parser of c. Commands receive the context
// returned by provide when they first run.
func (c *CLI) parser(
	ctx context.Context,
	exit func(code int),
	provide func() context.Context,
) (*kong.Kong, error) {
	config := configPath(baseConfig)

	return kong.New(c,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		kong.BindSingletonProvider(provide),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, config+".json"),
		kong.Configuration(resolve(ctx), config),
		c.vars(),
	)
}

// Run executes the quux CLI with args. exit is called with the exit code
// when kong terminates early, e.g. after --help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Apply logger flags before kong reports anything, wherever they appear.
	cli.Log.scan(args)

	parser, err := cli.parser(ctx, exit, func() context.Context { return ctx })
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, resolveSources(cli.Source))
	ctx = cmd.WithMaxDepth(ctx, cli.MaxDepth)

	return ktx.Run(ctx, &cli)
}
