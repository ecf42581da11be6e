package internal

// Register file constants
const (
	RegisterCount     = 16
	FlagRegister      = 0xF
	DefaultStackDepth = 16
)

// Registers holds the general purpose registers, the index register, the
// program counter and the call stack.
type Registers struct {
	V     [RegisterCount]uint8 // V0..VF, VF doubles as the flag register
	I     uint16               // 16-bit register that is generally used to store memory addresses
	PC    uint16               // Program counter
	Stack []uint16             // Return addresses, top of stack is the last element
}

// reset zeroes every register and empties the stack, keeping its capacity.
func (r *Registers) reset() {
	r.V = [RegisterCount]uint8{}
	r.I = 0
	r.PC = 0
	r.Stack = r.Stack[:0]
}

// setFlag writes VF. It is called after the result of an operation has been
// stored so that VF as destination register ends up holding the flag.
func (r *Registers) setFlag(set bool) {
	if set {
		r.V[FlagRegister] = 1
	} else {
		r.V[FlagRegister] = 0
	}
}

func (r *Registers) push(addr uint16, depth int) error {
	if len(r.Stack) >= depth {
		return ErrStackOverflow
	}
	r.Stack = append(r.Stack, addr)
	return nil
}

func (r *Registers) pop() (uint16, error) {
	n := len(r.Stack)
	if n == 0 {
		return 0, ErrStackUnderflow
	}
	addr := r.Stack[n-1]
	r.Stack = r.Stack[:n-1]
	return addr, nil
}
