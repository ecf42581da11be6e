// Package main implements the chopper CHIP-8 emulator command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/bradleyjkemp/memviz"
	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/cli"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/internal/disasm"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/internal/statsview"
	"github.com/mnafees/chopper/v2/pkg/ebiten"
	"github.com/mnafees/chopper/v2/pkg/runner"
	"github.com/mnafees/chopper/v2/pkg/sdl"
	"github.com/mnafees/chopper/v2/pkg/tty"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

const title = "Chopper | CHIP-8 Emulator"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL and Ebitengine need to run on the main thread
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Flags)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
			if errors.Is(err, flag.ErrHelp) {
				return
			}
		}
		logger.Error(err.Error())
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Flags)
	printBanner(logger, opts)

	if err := run(ctx, logger, opts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}
	logger.Info("chopper CHIP-8 emulator",
		log.String("version", version),
		log.String("commit", commit),
		log.String("date", date),
	)
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	program, err := os.ReadFile(opts.ROM)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	if opts.Disasm {
		return disasm.Listing(os.Stdout, program)
	}

	vm := internal.NewC8VM(opts.Config(), nil)
	vm.Initialize()
	if err := vm.LoadProgram(program); err != nil {
		return fmt.Errorf("loading program '%s': %w", opts.ROM, err)
	}

	if !opts.Quiet {
		logger.Info("Loaded program",
			log.String("file", opts.ROM),
			log.Int("size", len(program)),
			log.String("frontend", opts.Frontend),
			log.Stringer("quirks", vm.Quirks()),
		)
	}

	if opts.Statsview {
		statsview.Launch(logger)
	}

	err = runFrontend(ctx, logger, opts, vm)
	if err != nil && opts.Memviz != "" && !errors.Is(err, context.Canceled) {
		dumpState(logger, opts.Memviz, vm)
	}
	return err
}

func runFrontend(ctx context.Context, logger *log.Logger, opts options.Program, vm *internal.C8VM) error {
	runnerOptions := []runner.Option{
		runner.WithInstructionPeriod(opts.InstructionPeriod()),
		runner.WithTrace(opts.Trace),
	}

	switch opts.Frontend {
	case options.FrontendSDL:
		io, err := sdl.NewIO(opts.Scale, logger)
		if err != nil {
			return err
		}
		if err := io.SetupWindow(title); err != nil {
			return err
		}
		defer io.Destroy()

		vm.SetKeypad(io.Keypad())
		return runner.New(vm, io, logger, runnerOptions...).Run(ctx)

	case options.FrontendEbiten:
		game, err := ebiten.NewGame(title, opts.Scale, logger)
		if err != nil {
			return err
		}

		vm.SetKeypad(game.Keypad())
		return game.Run(ctx, runner.New(vm, game, logger, runnerOptions...))

	case options.FrontendTerminal:
		terminal, err := tty.Open(tty.DefaultHold, logger)
		if err != nil {
			return err
		}
		defer terminal.Close()

		vm.SetKeypad(terminal.Keypad())
		return runner.New(vm, terminal, logger, runnerOptions...).Run(ctx)
	}

	return fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
}

// dumpState writes a graphviz graph of the machine registers, stack and timers.
func dumpState(logger *log.Logger, path string, vm *internal.C8VM) {
	f, err := os.Create(path)
	if err != nil {
		logger.Error("Creating memviz file failed", log.Err(err))
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("Closing memviz file failed", log.Err(err))
		}
	}()

	state := vm.Snapshot()
	memviz.Map(f, &state)
	logger.Info("Wrote machine state graph", log.String("file", path))
}
