package internal

type opHandler func(vm *C8VM, in Instruction) error

// dispatch is one entry of the primary table. Either handler is set, or the
// instruction is further dispatched on field through secondary.
type dispatch struct {
	handler   opHandler
	field     Field
	secondary map[uint16]opHandler
}

// opcodes is the primary dispatch table, indexed by the top nibble of the
// instruction word.
var opcodes = [16]dispatch{
	0x0: {field: FieldNNN, secondary: map[uint16]opHandler{
		0x0E0: (*C8VM).opCLS,
		0x0EE: (*C8VM).opRET,
	}},
	0x1: {handler: (*C8VM).opJP},
	0x2: {handler: (*C8VM).opCALL},
	0x3: {handler: (*C8VM).opSEByte},
	0x4: {handler: (*C8VM).opSNEByte},
	0x5: {field: FieldN, secondary: map[uint16]opHandler{
		0x0: (*C8VM).opSEReg,
	}},
	0x6: {handler: (*C8VM).opLDByte},
	0x7: {handler: (*C8VM).opADDByte},
	0x8: {field: FieldN, secondary: map[uint16]opHandler{
		0x0: (*C8VM).opLDReg,
		0x1: (*C8VM).opOR,
		0x2: (*C8VM).opAND,
		0x3: (*C8VM).opXOR,
		0x4: (*C8VM).opADDReg,
		0x5: (*C8VM).opSUB,
		0x6: (*C8VM).opSHR,
		0x7: (*C8VM).opSUBN,
		0xE: (*C8VM).opSHL,
	}},
	0x9: {field: FieldN, secondary: map[uint16]opHandler{
		0x0: (*C8VM).opSNEReg,
	}},
	0xA: {handler: (*C8VM).opLDI},
	0xB: {handler: (*C8VM).opJPOffset},
	0xC: {handler: (*C8VM).opRND},
	0xD: {handler: (*C8VM).opDRW},
	0xE: {field: FieldNN, secondary: map[uint16]opHandler{
		0x9E: (*C8VM).opSKP,
		0xA1: (*C8VM).opSKNP,
	}},
	0xF: {field: FieldNN, secondary: map[uint16]opHandler{
		0x07: (*C8VM).opLDVxDT,
		0x0A: (*C8VM).opLDVxK,
		0x15: (*C8VM).opLDDTVx,
		0x18: (*C8VM).opLDSTVx,
		0x1E: (*C8VM).opADDI,
		0x29: (*C8VM).opLDF,
		0x33: (*C8VM).opLDB,
		0x55: (*C8VM).opStoreRegs,
		0x65: (*C8VM).opLoadRegs,
	}},
}

// lookup returns the handler for an instruction, or nil and the field that
// failed to match.
func lookup(in Instruction) (opHandler, Field) {
	d := opcodes[in.Op&0xF]
	if d.handler != nil {
		return d.handler, ""
	}

	var key uint16
	switch d.field {
	case FieldN:
		key = uint16(in.N)
	case FieldNN:
		key = uint16(in.NN)
	case FieldNNN:
		key = in.NNN
	default:
		return nil, FieldOp
	}
	if h, ok := d.secondary[key]; ok {
		return h, ""
	}
	return nil, d.field
}

func (vm *C8VM) skip() {
	vm.regs.PC += InstructionSize
}

// CLS
func (vm *C8VM) opCLS(_ Instruction) error {
	vm.display.clear()
	return nil
}

// RET
func (vm *C8VM) opRET(_ Instruction) error {
	addr, err := vm.regs.pop()
	if err != nil {
		return err
	}
	vm.regs.PC = addr
	return nil
}

// JP nnn
func (vm *C8VM) opJP(in Instruction) error {
	vm.regs.PC = in.NNN
	return nil
}

// CALL nnn. The program counter already points past the call.
func (vm *C8VM) opCALL(in Instruction) error {
	if err := vm.regs.push(vm.regs.PC, vm.stackDepth); err != nil {
		return err
	}
	vm.regs.PC = in.NNN
	return nil
}

// SE Vx, kk
func (vm *C8VM) opSEByte(in Instruction) error {
	if vm.regs.V[in.X] == in.NN {
		vm.skip()
	}
	return nil
}

// SNE Vx, kk
func (vm *C8VM) opSNEByte(in Instruction) error {
	if vm.regs.V[in.X] != in.NN {
		vm.skip()
	}
	return nil
}

// SE Vx, Vy
func (vm *C8VM) opSEReg(in Instruction) error {
	if vm.regs.V[in.X] == vm.regs.V[in.Y] {
		vm.skip()
	}
	return nil
}

// SNE Vx, Vy
func (vm *C8VM) opSNEReg(in Instruction) error {
	if vm.regs.V[in.X] != vm.regs.V[in.Y] {
		vm.skip()
	}
	return nil
}

// LD Vx, kk
func (vm *C8VM) opLDByte(in Instruction) error {
	vm.regs.V[in.X] = in.NN
	return nil
}

// ADD Vx, kk. Wraps without touching VF.
func (vm *C8VM) opADDByte(in Instruction) error {
	vm.regs.V[in.X] += in.NN
	return nil
}

// LD Vx, Vy
func (vm *C8VM) opLDReg(in Instruction) error {
	vm.regs.V[in.X] = vm.regs.V[in.Y]
	return nil
}

// OR Vx, Vy
func (vm *C8VM) opOR(in Instruction) error {
	vm.regs.V[in.X] |= vm.regs.V[in.Y]
	return nil
}

// AND Vx, Vy
func (vm *C8VM) opAND(in Instruction) error {
	vm.regs.V[in.X] &= vm.regs.V[in.Y]
	return nil
}

// XOR Vx, Vy
func (vm *C8VM) opXOR(in Instruction) error {
	vm.regs.V[in.X] ^= vm.regs.V[in.Y]
	return nil
}

// ADD Vx, Vy
func (vm *C8VM) opADDReg(in Instruction) error {
	sum := uint16(vm.regs.V[in.X]) + uint16(vm.regs.V[in.Y])
	vm.regs.V[in.X] = uint8(sum)
	vm.regs.setFlag(sum > 0xFF)
	return nil
}

// SUB Vx, Vy. VF is set when no borrow occurs.
func (vm *C8VM) opSUB(in Instruction) error {
	x, y := vm.regs.V[in.X], vm.regs.V[in.Y]
	vm.regs.V[in.X] = x - y
	vm.regs.setFlag(x >= y)
	return nil
}

// SUBN Vx, Vy. VF is set when no borrow occurs.
func (vm *C8VM) opSUBN(in Instruction) error {
	x, y := vm.regs.V[in.X], vm.regs.V[in.Y]
	vm.regs.V[in.X] = y - x
	vm.regs.setFlag(y >= x)
	return nil
}

// shiftSource returns the value a shift operates on.
func (vm *C8VM) shiftSource(in Instruction) uint8 {
	if vm.quirks.ShiftCopiesVY {
		return vm.regs.V[in.Y]
	}
	return vm.regs.V[in.X]
}

// SHR Vx {, Vy}
func (vm *C8VM) opSHR(in Instruction) error {
	v := vm.shiftSource(in)
	vm.regs.V[in.X] = v >> 1
	vm.regs.setFlag(v&0x01 != 0)
	return nil
}

// SHL Vx {, Vy}
func (vm *C8VM) opSHL(in Instruction) error {
	v := vm.shiftSource(in)
	vm.regs.V[in.X] = v << 1
	vm.regs.setFlag(v&0x80 != 0)
	return nil
}

// LD I, nnn
func (vm *C8VM) opLDI(in Instruction) error {
	vm.regs.I = in.NNN
	return nil
}

// JP V0, nnn
func (vm *C8VM) opJPOffset(in Instruction) error {
	offset := vm.regs.V[0]
	if vm.quirks.JumpUsesVX {
		offset = vm.regs.V[in.X]
	}
	vm.regs.PC = in.NNN + uint16(offset)
	return nil
}

// RND Vx, kk
func (vm *C8VM) opRND(in Instruction) error {
	r := uint16(vm.rng.Uint32())
	vm.regs.V[in.X] = uint8(r) & in.NN
	return nil
}

// DRW Vx, Vy, n
func (vm *C8VM) opDRW(in Instruction) error {
	sprite, err := vm.memory.span(vm.regs.I, int(in.N))
	if err != nil {
		return err
	}
	collision := vm.display.drawSprite(vm.regs.V[in.X], vm.regs.V[in.Y], sprite)
	vm.regs.setFlag(collision)
	return nil
}

// SKP Vx
func (vm *C8VM) opSKP(in Instruction) error {
	if vm.keypad.IsPressed(vm.regs.V[in.X] & 0xF) {
		vm.skip()
	}
	return nil
}

// SKNP Vx
func (vm *C8VM) opSKNP(in Instruction) error {
	if !vm.keypad.IsPressed(vm.regs.V[in.X] & 0xF) {
		vm.skip()
	}
	return nil
}

// LD Vx, DT
func (vm *C8VM) opLDVxDT(in Instruction) error {
	vm.regs.V[in.X] = vm.timers.Delay
	return nil
}

// LD Vx, K. Without a new key press the program counter is moved back onto
// this instruction so it runs again on the next step. A key that was already
// down when the wait started does not count.
func (vm *C8VM) opLDVxK(in Instruction) error {
	pressed := vm.keypad.JustPressed()
	if len(pressed) == 0 {
		vm.regs.PC -= InstructionSize
		return nil
	}
	vm.regs.V[in.X] = pressed[0] & 0xF
	return nil
}

// LD DT, Vx
func (vm *C8VM) opLDDTVx(in Instruction) error {
	vm.timers.Delay = vm.regs.V[in.X]
	return nil
}

// LD ST, Vx
func (vm *C8VM) opLDSTVx(in Instruction) error {
	vm.timers.Sound = vm.regs.V[in.X]
	return nil
}

// ADD I, Vx
func (vm *C8VM) opADDI(in Instruction) error {
	sum := uint32(vm.regs.I) + uint32(vm.regs.V[in.X])
	if !vm.quirks.IndexOverflowWraps {
		vm.regs.I = uint16(sum)
		return nil
	}
	overflow := sum > 0xFFF
	if overflow {
		sum -= 0xFFF
	}
	vm.regs.I = uint16(sum)
	vm.regs.setFlag(overflow)
	return nil
}

// LD F, Vx
func (vm *C8VM) opLDF(in Instruction) error {
	vm.regs.I = FontAddress(vm.regs.V[in.X])
	return nil
}

// LD B, Vx
func (vm *C8VM) opLDB(in Instruction) error {
	bcd, err := vm.memory.span(vm.regs.I, 3)
	if err != nil {
		return err
	}
	v := vm.regs.V[in.X]
	bcd[0] = v / 100
	bcd[1] = (v / 10) % 10
	bcd[2] = v % 10
	return nil
}

// LD [I], Vx
func (vm *C8VM) opStoreRegs(in Instruction) error {
	dst, err := vm.memory.span(vm.regs.I, int(in.X)+1)
	if err != nil {
		return err
	}
	copy(dst, vm.regs.V[:in.X+1])
	return nil
}

// LD Vx, [I]
func (vm *C8VM) opLoadRegs(in Instruction) error {
	src, err := vm.memory.span(vm.regs.I, int(in.X)+1)
	if err != nil {
		return err
	}
	copy(vm.regs.V[:in.X+1], src)
	return nil
}
