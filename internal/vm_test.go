package internal

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// program converts instruction words into ROM bytes.
func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*InstructionSize)
	for _, w := range words {
		data = append(data, uint8(w>>8), uint8(w))
	}
	return data
}

func newTestVM(t *testing.T, cfg Config, words ...uint16) *C8VM {
	t.Helper()
	cfg.Seed = 1
	vm := NewC8VM(cfg, nil)
	vm.Initialize()
	assert.NoError(t, vm.LoadProgram(program(words...)))
	return vm
}

// run steps the VM count times and fails the test on any error.
func run(t *testing.T, vm *C8VM, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		assert.NoError(t, vm.Step())
	}
}

func TestNewC8VM(t *testing.T) {
	vm := NewC8VM(DefaultConfig(), nil)

	assert.Equal(t, uint16(PCStartAddr), vm.PC())
	assert.Equal(t, DefaultStackDepth, vm.stackDepth)
	assert.Equal(t, 0, len(vm.regs.Stack))
	assert.Equal(t, DefaultQuirks(), vm.Quirks())
	assert.False(t, vm.DisplayDirty())
	assert.False(t, vm.SoundActive())
}

func TestInitialize(t *testing.T) {
	vm := NewC8VM(DefaultConfig(), nil)
	vm.Initialize()
	vm.Initialize()

	for i, b := range fontset {
		assert.Equal(t, b, vm.ReadMemory(uint16(FontStartAddr+i)))
	}
	assert.Equal(t, uint8(0), vm.ReadMemory(FontStartAddr-1))
	assert.Equal(t, uint8(0), vm.ReadMemory(FontStartAddr+uint16(len(fontset))))
}

func TestLoadProgram(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, false},
		{"single instruction", 2, false},
		{"maximum size", MaxProgramSize, false},
		{"one byte too large", MaxProgramSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewC8VM(DefaultConfig(), nil)
			vm.Initialize()
			data := make([]byte, tt.size)
			for i := range data {
				data[i] = 0xAA
			}

			err := vm.LoadProgram(data)
			if !tt.wantErr {
				assert.NoError(t, err)
				assert.Equal(t, uint16(PCStartAddr), vm.PC())
				return
			}

			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrProgramTooLarge))
			var loadErr *LoadError
			assert.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.size, loadErr.Size)
			assert.Equal(t, MaxProgramSize, loadErr.Max)
		})
	}
}

func TestLoadProgramReplacesOnlyProgramRegion(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), 0x1234, 0x5678, 0x9ABC)
	vm.memory[0x100] = 0x42

	assert.NoError(t, vm.LoadProgram([]byte{0xDE}))

	assert.Equal(t, uint8(0xDE), vm.ReadMemory(0x200))
	assert.Equal(t, uint8(0x00), vm.ReadMemory(0x201))
	assert.Equal(t, uint8(0x00), vm.ReadMemory(0x204))
	assert.Equal(t, uint8(0x42), vm.ReadMemory(0x100))
	assert.Equal(t, fontset[0], vm.ReadMemory(FontStartAddr))
}

func TestFetch(t *testing.T) {
	pairs := [][2]uint8{{0x00, 0x00}, {0x12, 0x34}, {0xFF, 0xFF}, {0xA2, 0x0F}, {0x80, 0x01}}

	for _, p := range pairs {
		vm := NewC8VM(DefaultConfig(), nil)
		assert.NoError(t, vm.LoadProgram([]byte{p[0], p[1]}))

		word, err := vm.Fetch()
		assert.NoError(t, err)
		assert.Equal(t, uint16(p[0])<<8|uint16(p[1]), word)
		assert.Equal(t, uint16(PCStartAddr+2), vm.PC())
	}
}

func TestFetchOutOfBounds(t *testing.T) {
	vm := NewC8VM(DefaultConfig(), nil)

	vm.regs.PC = TotalMemory - 2
	_, err := vm.Fetch()
	assert.NoError(t, err)

	vm.regs.PC = TotalMemory - 1
	_, err = vm.Fetch()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, uint16(TotalMemory-1), vm.PC())
}

func TestJumpRoundTrip(t *testing.T) {
	for _, target := range []uint16{0x000, 0x200, 0x202, 0x3A6, 0xFFE} {
		vm := newTestVM(t, DefaultConfig(), 0x1000|target)
		run(t, vm, 1)
		assert.Equal(t, target, vm.PC())
	}
}

func TestCallReturnRoundTrip(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(),
		0x2206, // 0x200: CALL 0x206
		0x6001, // 0x202: LD V0, 1
		0x1204, // 0x204: JP 0x204
		0x00EE, // 0x206: RET
	)

	run(t, vm, 1)
	assert.Equal(t, uint16(0x206), vm.PC())
	assert.Equal(t, 1, len(vm.regs.Stack))

	run(t, vm, 1)
	assert.Equal(t, uint16(0x202), vm.PC())
	assert.Equal(t, 0, len(vm.regs.Stack))
}

func TestStackUnderflow(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), 0x00EE)

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	var execErr *ExecError
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, uint16(0x00EE), execErr.Word)
	assert.Equal(t, uint16(PCStartAddr), execErr.PC)
}

func TestStackOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StackDepth = 4
	vm := newTestVM(t, cfg, 0x2200) // CALL 0x200, recursing forever

	run(t, vm, 4)
	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, 4, len(vm.regs.Stack))
}

func TestUnknownOpcode(t *testing.T) {
	tests := []struct {
		word  uint16
		field Field
	}{
		{0xFFFF, FieldNN},
		{0x0000, FieldNNN},
		{0x0123, FieldNNN},
		{0x01E0, FieldNNN},
		{0x5121, FieldN},
		{0x8128, FieldN},
		{0x912F, FieldN},
		{0xE100, FieldNN},
		{0xF1FF, FieldNN},
	}

	for _, tt := range tests {
		t.Run(Decode(tt.word).String(), func(t *testing.T) {
			vm := newTestVM(t, DefaultConfig(), tt.word)
			before := vm.Snapshot()

			err := vm.Step()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownOpcode))

			var decodeErr *DecodeError
			assert.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.word, decodeErr.Word)
			assert.Equal(t, uint16(PCStartAddr), decodeErr.PC)
			assert.Equal(t, tt.field, decodeErr.Field)

			after := vm.Snapshot()
			assert.Equal(t, before.V, after.V)
			assert.Equal(t, before.I, after.I)
		})
	}
}

func TestTickTimers(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), 0x6505, 0xF515, 0xF518)
	run(t, vm, 3)
	assert.Equal(t, uint8(5), vm.DelayTimer())
	assert.True(t, vm.SoundActive())

	for i := 0; i < 5; i++ {
		vm.TickTimers()
	}
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
	assert.False(t, vm.SoundActive())

	vm.TickTimers()
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
}

func TestReset(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), 0x6A12, 0xA300, 0xFA15, 0x2208, 0x00E0, 0x00E0)
	run(t, vm, 4)

	vm.Reset()

	state := vm.Snapshot()
	assert.Equal(t, [RegisterCount]uint8{}, state.V)
	assert.Equal(t, uint16(0), state.I)
	assert.Equal(t, uint16(PCStartAddr), state.PC)
	assert.Equal(t, 0, len(state.Stack))
	assert.Equal(t, uint8(0), state.Delay)
	assert.Equal(t, uint8(0x6A), vm.ReadMemory(PCStartAddr))
	assert.Equal(t, fontset[0], vm.ReadMemory(FontStartAddr))
}

func TestResetRestoresProgram(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(),
		0x6011, // LD V0, 0x11
		0x6122, // LD V1, 0x22
		0xA200, // LD I, 0x200
		0xF155, // LD [I], V1
		0x6078, // LD V0, 0x78
		0xF033, // LD B, V0
		0x120C, // JP 0x20C
	)
	run(t, vm, 6)
	assert.Equal(t, uint8(0x01), vm.ReadMemory(PCStartAddr))
	assert.Equal(t, uint8(0x02), vm.ReadMemory(PCStartAddr+1))
	assert.Equal(t, uint8(0x00), vm.ReadMemory(PCStartAddr+2))

	vm.Reset()

	assert.Equal(t, uint8(0x60), vm.ReadMemory(PCStartAddr))
	assert.Equal(t, uint8(0x11), vm.ReadMemory(PCStartAddr+1))
	assert.Equal(t, uint8(0x61), vm.ReadMemory(PCStartAddr+2))
	assert.Equal(t, uint8(0x22), vm.ReadMemory(PCStartAddr+3))

	run(t, vm, 2)
	assert.Equal(t, uint8(0x11), vm.regs.V[0])
	assert.Equal(t, uint8(0x22), vm.regs.V[1])
}

func TestSnapshotIsCopy(t *testing.T) {
	vm := newTestVM(t, DefaultConfig(), 0x2204, 0x0000, 0x00E0)
	run(t, vm, 1)

	state := vm.Snapshot()
	state.Stack[0] = 0xFFF

	assert.Equal(t, uint16(0x202), vm.regs.Stack[0])
}
