package internal

// Memory layout constants
const (
	TotalMemory    = 0x1000
	PCStartAddr    = 0x200
	MaxProgramSize = TotalMemory - PCStartAddr

	FontStartAddr = 0x50
	FontGlyphSize = 5
)

var fontset = [16 * FontGlyphSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4 KB address space of the VM.
type Memory [TotalMemory]uint8

// loadFont writes the glyph table into the reserved font region.
func (m *Memory) loadFont() {
	copy(m[FontStartAddr:], fontset[:])
}

// loadProgram replaces the program region with data. Everything below
// PCStartAddr is left untouched.
func (m *Memory) loadProgram(data []byte) error {
	if len(data) > MaxProgramSize {
		return &LoadError{Size: len(data), Max: MaxProgramSize}
	}
	region := m[PCStartAddr:]
	for i := range region {
		region[i] = 0
	}
	copy(region, data)
	return nil
}

// span returns count bytes starting at addr, or an AddressError if the range
// runs past the end of memory.
func (m *Memory) span(addr uint16, count int) ([]uint8, error) {
	end := int(addr) + count
	if end > TotalMemory {
		return nil, &AddressError{Address: addr, Size: count}
	}
	return m[addr:end], nil
}

// FontAddress returns the address of the 5-byte glyph for a hex digit.
func FontAddress(digit uint8) uint16 {
	return FontStartAddr + FontGlyphSize*uint16(digit&0xF)
}
