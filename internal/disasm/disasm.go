// Package disasm renders CHIP-8 instruction words as assembly text.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup returns the instruction of the CPU table that matches word, or nil.
func Lookup(word uint16) *chip8.Instruction {
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// Format returns the assembly text of an instruction word. Words without a
// matching instruction are rendered as a data directive.
func Format(word uint16) string {
	ins := Lookup(word)
	if ins == nil {
		return fmt.Sprintf(".word $%04X", word)
	}

	name := strings.ToUpper(ins.Name)
	if params := operands(internal.Decode(word)); params != "" {
		return name + " " + params
	}
	return name
}

// operands formats the operand list of a decoded instruction.
func operands(in internal.Instruction) string {
	switch in.Op {
	case 0x0:
		if in.NNN == 0x0E0 || in.NNN == 0x0EE {
			return ""
		}
		return fmt.Sprintf("$%03X", in.NNN)
	case 0x1, 0x2:
		return fmt.Sprintf("$%03X", in.NNN)
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return fmt.Sprintf("V%X, $%02X", in.X, in.NN)
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case 0x8:
		if in.N == 0x6 || in.N == 0xE {
			return fmt.Sprintf("V%X {, V%X}", in.X, in.Y)
		}
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case 0xA:
		return fmt.Sprintf("I, $%03X", in.NNN)
	case 0xB:
		return fmt.Sprintf("V0, $%03X", in.NNN)
	case 0xD:
		return fmt.Sprintf("V%X, V%X, $%X", in.X, in.Y, in.N)
	case 0xE:
		return fmt.Sprintf("V%X", in.X)
	case 0xF:
		return fxOperands(in)
	}
	return ""
}

func fxOperands(in internal.Instruction) string {
	switch in.NN {
	case 0x07:
		return fmt.Sprintf("V%X, DT", in.X)
	case 0x0A:
		return fmt.Sprintf("V%X, K", in.X)
	case 0x15:
		return fmt.Sprintf("DT, V%X", in.X)
	case 0x18:
		return fmt.Sprintf("ST, V%X", in.X)
	case 0x1E:
		return fmt.Sprintf("I, V%X", in.X)
	case 0x29:
		return fmt.Sprintf("F, V%X", in.X)
	case 0x33:
		return fmt.Sprintf("B, V%X", in.X)
	case 0x55:
		return fmt.Sprintf("[I], V%X", in.X)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", in.X)
	}
	return ""
}

// Listing writes one line per instruction word of program, addressed from the
// program start. A trailing odd byte is written as a byte directive.
func Listing(w io.Writer, program []byte) error {
	addr := uint16(internal.PCStartAddr)
	for i := 0; i+1 < len(program); i += internal.InstructionSize {
		word := uint16(program[i])<<8 | uint16(program[i+1])
		if _, err := fmt.Fprintf(w, "%03X  %04X  %s\n", addr, word, Format(word)); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
		addr += internal.InstructionSize
	}

	if len(program)%2 == 1 {
		last := program[len(program)-1]
		if _, err := fmt.Fprintf(w, "%03X  %02X    .byte $%02X\n", addr, last, last); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}
	return nil
}
