package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"campuspulse/internal/application/store"
	"campuspulse/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pulse",
		Usage:   "browse and manage the campus club and event directory",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "pulse.yaml", Usage: "path to the YAML config file", EnvVars: []string{"CAMPUSPULSE_CONFIG"}},
			&cli.BoolFlag{Name: "perf", Usage: "print storage timings after the command"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			slog.SetDefault(cfg.Log.NewLogger(os.Stderr))
			c.App.Metadata = map[string]any{"config": cfg}
			return nil
		},
		Commands: []*cli.Command{
			clubsCommand(),
			clubCommand(),
			eventsCommand(),
			calendarCommand(),
			eventCommand(),
			registerCommand(),
			postCommand(),
			reviewCommand(),
			galleryCommand(),
			teamCommand(),
			profileCommand(),
			budgetCommand(),
			expenseCommand(),
			exportCommand(),
			watchCommand(),
			resetCommand(),
		},
	}
}

// openFor opens a runtime and releases it again unless the caller can work
// with what was opened. Only allowCorrupt callers get a runtime over corrupt data.
func openFor(ctx context.Context, cfg *config.Config, allowCorrupt bool) (*runtime, error) {
	rt, err := openRuntime(ctx, cfg)
	if err == nil || (allowCorrupt && errors.Is(err, store.ErrCorruptData)) {
		return rt, err
	}
	if rt != nil {
		rt.Close()
	}
	if errors.Is(err, store.ErrCorruptData) {
		return nil, fmt.Errorf("%w (run `pulse reset` to restore the sample data)", err)
	}
	return nil, err
}

// errUsage reports a command called with the wrong positional arguments.
var errUsage = errors.New("wrong number of arguments")

// requireArgs shows the command help and fails unless the command got between
// lo and hi positional arguments. A negative hi means no upper bound.
// Flags must come before positional arguments.
func requireArgs(c *cli.Context, lo, hi int) error {
	n := c.NArg()
	if n >= lo && (hi < 0 || n <= hi) {
		return nil
	}
	_ = cli.ShowSubcommandHelp(c)
	return fmt.Errorf("%w: usage: pulse %s [options] %s", errUsage, c.Command.FullName(), c.Command.ArgsUsage)
}

// withRuntime opens a runtime for the duration of fn.
func withRuntime(fn func(c *cli.Context, rt *runtime) error) cli.ActionFunc {
	return withRuntimeOpts(false, fn)
}

func withRuntimeOpts(allowCorrupt bool, fn func(c *cli.Context, rt *runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, ok := c.App.Metadata["config"].(*config.Config)
		if !ok {
			return errors.New("config not loaded")
		}
		rt, err := openFor(c.Context, cfg, allowCorrupt)
		if err != nil && rt == nil {
			return err
		}
		defer rt.Close()

		started := time.Now()
		runErr := fn(c, rt)
		if c.Bool("perf") {
			printPerf(c.App.Writer, rt.collector.Snapshot(started, 5))
		}
		return runErr
	}
}
