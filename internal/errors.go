package internal

import (
	"errors"
	"fmt"
)

// Errors returned by the VM. The typed errors below wrap one of these so that
// callers can match with errors.Is.
var (
	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
	ErrOutOfBounds     = errors.New("address out of bounds")
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrStackUnderflow  = errors.New("return with empty call stack")
	ErrStackOverflow   = errors.New("call stack depth exceeded")
)

// Field identifies the part of an instruction word used for dispatch.
type Field string

// Instruction fields that select a handler.
const (
	FieldOp  Field = "op"
	FieldN   Field = "n"
	FieldNN  Field = "nn"
	FieldNNN Field = "nnn"
)

// LoadError is returned when a program cannot be placed in memory.
type LoadError struct {
	Size int // size of the rejected program
	Max  int // largest program that fits
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading program of %d bytes (max %d): %v", e.Size, e.Max, ErrProgramTooLarge)
}

func (e *LoadError) Unwrap() error {
	return ErrProgramTooLarge
}

// AddressError is returned when a read or write would leave the 4 KB address space.
type AddressError struct {
	Address uint16 // start of the access
	Size    int    // number of bytes accessed
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("accessing %d bytes at 0x%03X: %v", e.Size, e.Address, ErrOutOfBounds)
}

func (e *AddressError) Unwrap() error {
	return ErrOutOfBounds
}

// DecodeError is returned for an instruction word that matches no table entry.
type DecodeError struct {
	Word  uint16 // raw instruction word
	PC    uint16 // address the word was fetched from
	Field Field  // field whose value has no handler
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v %04X at 0x%03X (no match for field %s)", ErrUnknownOpcode, e.Word, e.PC, e.Field)
}

func (e *DecodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// ExecError is returned when a decoded instruction cannot complete.
type ExecError struct {
	Word uint16 // raw instruction word
	PC   uint16 // address the word was fetched from
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("executing %04X at 0x%03X: %v", e.Word, e.PC, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
