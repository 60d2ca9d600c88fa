package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/zyra/cli/cmd"
	"github.com/ardnew/zyra/lang"
	"github.com/ardnew/zyra/pkg"
)

// CLI is the top-level command-line interface for zyra.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Preload []string `help:"Script(s) evaluated before the command's input, or '-' for stdin" placeholder:"FILE" short:"s"`

	Version kong.VersionFlag `help:"Print the version and exit" short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run a script (default)"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Lex  cmd.Lex  `cmd:""                    help:"Print the token stream of a script"`
	Init cmd.Init `cmd:""                    help:"Write the configuration file from the current flag values"`
}

// Run executes the zyra CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigFile()

	vars := kong.Vars{
		"version":              pkg.Name + " " + pkg.Version(),
		cmd.HistoryIdentifier:  pkg.HistoryFile(),
		cmd.ConfigIdentifier:   configFilePath,
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	groups := []kong.Group{cli.Log.group()}
	if g := cli.Pprof.group(); g.Key != "" {
		groups = append(groups, g)
	}

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups),
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
		kong.Configuration(kong.JSON, strings.TrimSuffix(configFilePath, ".yaml")+".json"),
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

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)

	ctx, err = cmd.WithPreload(ctx, cli.Preload)
	if err != nil {
		return err
	}

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
