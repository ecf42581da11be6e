package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"math/rand"
	"time"
)

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	memory  Memory    // 4 KB global memory
	regs    Registers // V0..VF, I, PC and the call stack
	timers  Timers    // Delay and sound timers
	display Display   // 64 px x 32 px display
	keypad  Keypad    // Host keyboard as seen through the input mapper
	rom     []byte    // last loaded program, restored by Reset

	quirks     Quirks
	stackDepth int
	rng        *rand.Rand
}

// State is a copy of the registers and timers of a VM.
type State struct {
	V     [RegisterCount]uint8
	I     uint16
	PC    uint16
	Stack []uint16
	Delay uint8
	Sound uint8
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM. A nil keypad reads
// as no key ever being pressed.
func NewC8VM(cfg Config, keypad Keypad) *C8VM {
	if keypad == nil {
		keypad = new(KeyState)
	}
	depth := cfg.StackDepth
	if depth <= 0 {
		depth = DefaultStackDepth
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	vm := &C8VM{
		keypad:     keypad,
		quirks:     cfg.Quirks,
		stackDepth: depth,
		rng:        rand.New(rand.NewSource(seed)),
	}
	vm.regs.Stack = make([]uint16, 0, depth)
	vm.regs.PC = PCStartAddr
	return vm
}

// Initialize writes the font glyphs into the reserved low memory region. It can
// be called any number of times.
func (vm *C8VM) Initialize() {
	vm.memory.loadFont()
}

// LoadProgram replaces the program region of memory with program and points
// the program counter at its first instruction. The content is not validated.
func (vm *C8VM) LoadProgram(program []byte) error {
	if err := vm.memory.loadProgram(program); err != nil {
		return err
	}
	vm.rom = append(vm.rom[:0], program...)
	vm.regs.PC = PCStartAddr
	return nil
}

// Reset returns the VM to its power-on state. The program region is rewritten
// with the last loaded program, undoing any stores the program made into it.
func (vm *C8VM) Reset() {
	// the copy was size checked by LoadProgram
	_ = vm.memory.loadProgram(vm.rom)
	vm.regs.reset()
	vm.regs.PC = PCStartAddr
	vm.timers = Timers{}
	vm.display.clear()
	vm.Initialize()
}

// SetKeypad replaces the keypad the VM reads from.
func (vm *C8VM) SetKeypad(keypad Keypad) {
	vm.keypad = keypad
}

// Quirks returns the opcode behaviour configuration of the VM.
func (vm *C8VM) Quirks() Quirks {
	return vm.quirks
}

// Fetch reads the instruction word at the program counter and advances the
// program counter past it.
func (vm *C8VM) Fetch() (uint16, error) {
	pc := vm.regs.PC
	if int(pc)+InstructionSize > TotalMemory {
		return 0, &AddressError{Address: pc, Size: InstructionSize}
	}
	word := uint16(vm.memory[pc])<<8 | uint16(vm.memory[pc+1]) // 16-bit instruction opcode
	vm.regs.PC += InstructionSize
	return word, nil
}

// DecodeExecute executes a single instruction word that was just fetched. The
// returned error is a *DecodeError for words without a handler and an
// *ExecError for instructions that could not complete.
func (vm *C8VM) DecodeExecute(word uint16) error {
	in := Decode(word)
	pc := vm.regs.PC - InstructionSize

	handler, field := lookup(in)
	if handler == nil {
		return &DecodeError{Word: word, PC: pc, Field: field}
	}
	if err := handler(vm, in); err != nil {
		return &ExecError{Word: word, PC: pc, Err: err}
	}
	return nil
}

// Step fetches and executes the next instruction.
func (vm *C8VM) Step() error {
	word, err := vm.Fetch()
	if err != nil {
		return err
	}
	return vm.DecodeExecute(word)
}

// TickTimers decrements both timers by one, stopping at zero. The host calls
// it at 60 Hz regardless of the instruction rate.
func (vm *C8VM) TickTimers() {
	vm.timers.tick()
}

// Display returns the frame buffer. The presentation layer calls ClearDirty on
// it after consuming a frame.
func (vm *C8VM) Display() *Display {
	return &vm.display
}

// DisplayDirty returns whether the display changed since it was last consumed.
func (vm *C8VM) DisplayDirty() bool {
	return vm.display.Dirty()
}

// ClearDisplayDirty marks the current frame as consumed.
func (vm *C8VM) ClearDisplayDirty() {
	vm.display.ClearDirty()
}

// SoundActive returns whether the sound timer is running, which is the signal
// for the host to beep.
func (vm *C8VM) SoundActive() bool {
	return vm.timers.Sound > 0
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.timers.Delay
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.timers.Sound
}

// PC returns the program counter.
func (vm *C8VM) PC() uint16 {
	return vm.regs.PC
}

// ReadMemory returns the byte at addr, wrapping addr into the address space.
func (vm *C8VM) ReadMemory(addr uint16) uint8 {
	return vm.memory[addr%TotalMemory]
}

// Snapshot returns a copy of the registers, stack and timers.
func (vm *C8VM) Snapshot() State {
	stack := make([]uint16, len(vm.regs.Stack))
	copy(stack, vm.regs.Stack)
	return State{
		V:     vm.regs.V,
		I:     vm.regs.I,
		PC:    vm.regs.PC,
		Stack: stack,
		Delay: vm.timers.Delay,
		Sound: vm.timers.Sound,
	}
}
