package internal

import "fmt"

// InstructionSize is the width of every instruction in bytes.
const InstructionSize = 2

// Instruction is a 16-bit instruction word split into its operand fields.
type Instruction struct {
	Word uint16
	Op   uint8  // the upper 4 bits of the high byte of the instruction
	X    uint8  // the lower 4 bits of the high byte of the instruction
	Y    uint8  // the upper 4 bits of the low byte of the instruction
	N    uint8  // the lowest 4 bits of the instruction
	NN   uint8  // the lowest 8 bits of the instruction
	NNN  uint16 // the lowest 12 bits of the instruction
}

// Decode splits an instruction word into its fields. Every word decodes; whether
// a handler exists is only known at execution.
func Decode(word uint16) Instruction {
	return Instruction{
		Word: word,
		Op:   uint8(word >> 12),
		X:    uint8((word >> 8) & 0x000F),
		Y:    uint8((word >> 4) & 0x000F),
		N:    uint8(word & 0x000F),
		NN:   uint8(word & 0x00FF),
		NNN:  word & 0x0FFF,
	}
}

func (in Instruction) String() string {
	return fmt.Sprintf("%04X", in.Word)
}
