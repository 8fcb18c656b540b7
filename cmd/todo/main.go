package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/tada/internal/app"
	"github.com/idilsaglam/tada/internal/cli"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/store/kv"
	"github.com/idilsaglam/tada/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("todo", flag.ExitOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(2)
	}
	ui.SetTheme(cfg.Theme)

	// Hand the remaining args to the CLI runner.
	args := fs.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	logOpts := logging.DefaultOptions()
	logOpts.Level = cfg.LogLevel
	logOpts.Format = cfg.LogFormat
	logger := logging.New(os.Stderr, logOpts)

	medium, err := kv.NewFileMedium(cfg.DataDir)
	if err != nil {
		ui.Fail("storage: " + err.Error())
		os.Exit(1)
	}
	adapter, err := jsonstore.New(medium)
	if err != nil {
		ui.Fail("storage: " + err.Error())
		os.Exit(1)
	}
	a, err := app.Open(adapter,
		app.WithDefaultProject(cfg.DefaultProject),
		app.WithLogger(logger),
	)
	if err != nil {
		ui.Fail("open: " + err.Error())
		os.Exit(1)
	}

	code := cli.Run(a, args, cli.Options{
		Group: cfg.Group,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
