package cli

import (
	"errors"
	"flag"
	"testing"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := ParseFlags([]string{"pong.ch8"})
	assert.NoError(t, err)

	assert.Equal(t, "pong.ch8", opts.ROM)
	assert.Equal(t, options.FrontendSDL, opts.Frontend)
	assert.Equal(t, options.DefaultRate, opts.Rate)
	assert.Equal(t, internal.DefaultStackDepth, opts.StackDepth)
	assert.Equal(t, options.DefaultScale, opts.Scale)
	assert.Equal(t, int64(0), opts.Seed)
	assert.Equal(t, internal.DefaultQuirks(), opts.Quirks())
	assert.False(t, opts.Trace)
}

func TestParseFlags_Quirks(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want internal.Quirks
	}{
		{
			name: "reference preset",
			args: []string{"-quirks", "reference", "a.ch8"},
			want: internal.DefaultQuirks(),
		},
		{
			name: "modern preset",
			args: []string{"-quirks", "MODERN", "a.ch8"},
			want: internal.ModernQuirks(),
		},
		{
			name: "override on reference",
			args: []string{"-shift-vy", "false", "a.ch8"},
			want: internal.Quirks{ShiftCopiesVY: false, JumpUsesVX: false, IndexOverflowWraps: true},
		},
		{
			name: "override on modern",
			args: []string{"-quirks", "modern", "-index-wrap", "true", "-jump-vx", "false", "a.ch8"},
			want: internal.Quirks{ShiftCopiesVY: false, JumpUsesVX: false, IndexOverflowWraps: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseFlags(tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, opts.Quirks())
			assert.Equal(t, tt.want, opts.Config().Quirks)
		})
	}
}

func TestParseFlags_Machine(t *testing.T) {
	opts, err := ParseFlags([]string{"-frontend", "tty", "-rate", "1000", "-stack", "32", "-seed", "7", "-trace", "a.ch8"})
	assert.NoError(t, err)

	assert.Equal(t, options.FrontendTerminal, opts.Frontend)
	assert.True(t, opts.Trace)
	cfg := opts.Config()
	assert.Equal(t, 32, cfg.StackDepth)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, int64(1000000), opts.InstructionPeriod().Nanoseconds())
}

func TestParseFlags_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"only flags", []string{"-debug"}},
		{"unknown flag", []string{"-nope", "a.ch8"}},
		{"flag after program", []string{"a.ch8", "-debug"}},
		{"two programs", []string{"a.ch8", "b.ch8"}},
		{"empty argument", []string{"a.ch8", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
			assert.False(t, errors.Is(err, flag.ErrHelp))
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	for _, arg := range []string{"-h", "-help", "--help"} {
		t.Run(arg, func(t *testing.T) {
			_, err := ParseFlags([]string{arg})
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
			assert.True(t, errors.Is(err, flag.ErrHelp))
		})
	}
}

func TestParseFlags_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"frontend", []string{"-frontend", "gl", "a.ch8"}, "unsupported frontend: gl"},
		{"quirks preset", []string{"-quirks", "vip", "a.ch8"}, "unsupported quirks preset: vip"},
		{"quirk override", []string{"-jump-vx", "yes", "a.ch8"}, "unsupported jump-vx: yes"},
		{"rate", []string{"-rate", "0", "a.ch8"}, "invalid instruction rate 0"},
		{"stack", []string{"-stack", "-1", "a.ch8"}, "invalid stack depth -1"},
		{"scale", []string{"-scale", "0", "a.ch8"}, "invalid scale 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.ErrorContains(t, err, tt.message)

			var usageErr *UsageError
			assert.False(t, errors.As(err, &usageErr))
		})
	}
}
