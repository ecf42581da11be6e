// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/options"
)

// ParseFlags parses the command line arguments, excluding the program name,
// and returns the program options.
func ParseFlags(args []string) (options.Program, error) {
	flags := flag.NewFlagSet("chopper", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(args)
	positional := flags.Args()
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error(), err: err}
	}
	if len(positional) == 0 {
		return opts, &UsageError{flags: flags, msg: "missing CHIP-8 program"}
	}

	if err := validateArgs(flags, positional); err != nil {
		return opts, err
	}
	opts.ROM = positional[0]

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information. It wraps
// flag.ErrHelp when the usage was asked for with -h or -help.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
	err   error
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) Unwrap() error {
	return e.err
}

// ShowUsage prints the usage text and all flag defaults to stdout.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chopper [options] <CHIP-8 program>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks that the program is the only positional argument.
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i == 0 {
			continue
		}
		if strings.HasPrefix(arg, "-") {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after the program, please pass the program as last argument", arg),
			}
		}
		return &UsageError{flags: flags, msg: fmt.Sprintf("unexpected argument %s", arg)}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if err := oneOf("frontend", opts.Frontend,
		options.FrontendSDL, options.FrontendEbiten, options.FrontendTerminal); err != nil {
		return err
	}

	opts.QuirksSet = strings.ToLower(opts.QuirksSet)
	if err := oneOf("quirks preset", opts.QuirksSet, options.QuirksReference, options.QuirksModern); err != nil {
		return err
	}

	for _, o := range []struct {
		name  string
		value *string
	}{
		{"shift-vy", &opts.ShiftVY},
		{"jump-vx", &opts.JumpVX},
		{"index-wrap", &opts.IndexWrap},
	} {
		*o.value = strings.ToLower(*o.value)
		if *o.value == "" {
			continue
		}
		if err := oneOf(o.name, *o.value, "true", "false"); err != nil {
			return err
		}
	}

	switch {
	case opts.Rate <= 0:
		return fmt.Errorf("invalid instruction rate %d", opts.Rate)
	case opts.StackDepth <= 0:
		return fmt.Errorf("invalid stack depth %d", opts.StackDepth)
	case opts.Scale <= 0:
		return fmt.Errorf("invalid scale %d", opts.Scale)
	}
	return nil
}

func oneOf(name, value string, valid ...string) error {
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("unsupported %s: %s. Valid options: %s", name, value, strings.Join(valid, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Frontend, "frontend", options.FrontendSDL, "frontend to run the program in (sdl/ebiten/tty)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the program and exit")
	flags.BoolVar(&opts.Statsview, "statsview", false, "serve runtime statistics of the emulator process")
	flags.StringVar(&opts.Memviz, "memviz", "", "write a graphviz dot file of the machine state when execution fails")

	flags.IntVar(&opts.Rate, "rate", options.DefaultRate, "instructions executed per second")
	flags.StringVar(&opts.QuirksSet, "quirks", options.QuirksReference, "opcode quirks preset (reference/modern)")
	flags.StringVar(&opts.ShiftVY, "shift-vy", "", "override whether 8XY6 and 8XYE shift VY into VX (true/false)")
	flags.StringVar(&opts.JumpVX, "jump-vx", "", "override whether BNNN adds VX instead of V0 (true/false)")
	flags.StringVar(&opts.IndexWrap, "index-wrap", "", "override whether FX1E wraps I at 0xFFF and sets VF (true/false)")
	flags.IntVar(&opts.StackDepth, "stack", internal.DefaultStackDepth, "maximum depth of nested subroutine calls")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed for the random number generator, 0 uses the clock")
	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "window pixels per CHIP-8 pixel")
}
