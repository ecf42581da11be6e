// Package options contains the program options.
package options

import (
	"time"

	"github.com/mnafees/chopper/v2/internal"
)

// Supported frontends.
const (
	FrontendSDL      = "sdl"
	FrontendEbiten   = "ebiten"
	FrontendTerminal = "tty"
)

// Quirks presets.
const (
	QuirksReference = "reference"
	QuirksModern    = "modern"
)

// Defaults of the machine options.
const (
	DefaultRate  = 700 // instructions per second
	DefaultScale = 20  // host pixels per CHIP-8 pixel
)

// Parameters contains file and frontend options.
type Parameters struct {
	ROM      string `arg:"positional" usage:"CHIP-8 program to run"`
	Frontend string `flag:"frontend" usage:"frontend: sdl, ebiten, tty" default:"sdl"`
}

// Flags contains behavior options.
type Flags struct {
	Debug     bool   `flag:"debug" usage:"enable debug logging"`
	Quiet     bool   `flag:"q" usage:"quiet mode"`
	Trace     bool   `flag:"trace" usage:"log every executed instruction"`
	Disasm    bool   `flag:"disasm" usage:"print a listing of the program and exit"`
	Statsview bool   `flag:"statsview" usage:"serve runtime statistics"`
	Memviz    string `flag:"memviz" usage:"write a graph of the machine state to this file on error"`
}

// Machine contains options of the emulated machine.
type Machine struct {
	Rate       int    `flag:"rate" usage:"instructions per second" default:"700"`
	QuirksSet  string `flag:"quirks" usage:"quirks preset: reference, modern" default:"reference"`
	ShiftVY    string `flag:"shift-vy" usage:"override: shifts copy VY (true/false)"`
	JumpVX     string `flag:"jump-vx" usage:"override: BNNN adds VX (true/false)"`
	IndexWrap  string `flag:"index-wrap" usage:"override: FX1E flags overflow (true/false)"`
	StackDepth int    `flag:"stack" usage:"maximum call depth" default:"16"`
	Seed       int64  `flag:"seed" usage:"random seed, 0 picks one from the clock"`
	Scale      int    `flag:"scale" usage:"window pixels per CHIP-8 pixel" default:"20"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	Machine
}

// Quirks returns the quirks selected by the preset and the individual
// overrides. The values are expected to be validated already.
func (p Program) Quirks() internal.Quirks {
	q := internal.DefaultQuirks()
	if p.QuirksSet == QuirksModern {
		q = internal.ModernQuirks()
	}
	override(&q.ShiftCopiesVY, p.ShiftVY)
	override(&q.JumpUsesVX, p.JumpVX)
	override(&q.IndexOverflowWraps, p.IndexWrap)
	return q
}

func override(dst *bool, value string) {
	switch value {
	case "true":
		*dst = true
	case "false":
		*dst = false
	}
}

// Config returns the VM configuration.
func (p Program) Config() internal.Config {
	return internal.Config{
		Quirks:     p.Quirks(),
		StackDepth: p.StackDepth,
		Seed:       p.Seed,
	}
}

// InstructionPeriod returns the time one instruction takes at the configured
// rate.
func (p Program) InstructionPeriod() time.Duration {
	rate := p.Rate
	if rate <= 0 {
		rate = DefaultRate
	}
	return time.Second / time.Duration(rate)
}
