package internal

import "fmt"

// Quirks selects between historically divergent behaviours of a few opcodes.
type Quirks struct {
	// ShiftCopiesVY makes 8XY6 and 8XYE copy VY into VX before shifting, as the
	// COSMAC VIP interpreter did. When false VX is shifted in place.
	ShiftCopiesVY bool

	// JumpUsesVX makes BNNN add VX (X being the top nibble of NNN) to the
	// target instead of V0.
	JumpUsesVX bool

	// IndexOverflowWraps makes FX1E set VF to 1 and wrap I at 0xFFF when the
	// sum leaves the address space. When false I is a plain 16-bit add and VF
	// is left alone.
	IndexOverflowWraps bool
}

func (q Quirks) String() string {
	return fmt.Sprintf("shift-vy=%t jump-vx=%t index-wrap=%t", q.ShiftCopiesVY, q.JumpUsesVX, q.IndexOverflowWraps)
}

// DefaultQuirks returns the reference behaviour: copy-then-shift, jump offset
// from V0, flagged index overflow.
func DefaultQuirks() Quirks {
	return Quirks{
		ShiftCopiesVY:      true,
		JumpUsesVX:         false,
		IndexOverflowWraps: true,
	}
}

// ModernQuirks returns the behaviour most interpreters written after the
// CHIP-48 use.
func ModernQuirks() Quirks {
	return Quirks{
		ShiftCopiesVY:      false,
		JumpUsesVX:         true,
		IndexOverflowWraps: false,
	}
}

// Config holds the construction options of a VM.
type Config struct {
	Quirks     Quirks
	StackDepth int   // maximum number of nested calls, DefaultStackDepth if 0
	Seed       int64 // seed for RND, taken from the clock if 0
}

// DefaultConfig returns a configuration with the reference quirks.
func DefaultConfig() Config {
	return Config{
		Quirks:     DefaultQuirks(),
		StackDepth: DefaultStackDepth,
	}
}
