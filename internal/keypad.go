package internal

import (
	"fmt"
	"slices"
)

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16

// Keypad is the view of the host keyboard the VM consumes.
type Keypad interface {
	IsPressed(digit uint8) bool // whether the key for the hex digit is down
	Pressed() []uint8           // hex digits of all mapped keys currently down

	// JustPressed returns the hex digits whose keys went down in the latest
	// host poll, in ascending order. Every press is reported once, a key that
	// stays down is not reported again.
	JustPressed() []uint8
}

// HostKeyboard reports the state of host keys of type K.
type HostKeyboard[K comparable] interface {
	IsKeyDown(key K) bool
	KeysDown() []K

	// KeysJustPressed returns the keys that went down in the latest poll and
	// forgets them.
	KeysJustPressed() []K
}

// InputMapper is a fixed bijection between the 16 keypad digits and host keys.
// The digit-indexed array is the canonical direction, the inverse is computed
// from it once.
type InputMapper[K comparable] struct {
	keys   [KeyCount]K
	digits map[K]uint8
}

// NewInputMapper creates a mapper from keys, where keys[d] is the host key for
// digit d. Every host key must be distinct.
func NewInputMapper[K comparable](keys [KeyCount]K) (*InputMapper[K], error) {
	m := &InputMapper[K]{
		keys:   keys,
		digits: make(map[K]uint8, KeyCount),
	}
	for d, k := range keys {
		if prev, ok := m.digits[k]; ok {
			return nil, fmt.Errorf("host key %v mapped to both digit %X and %X", k, prev, d)
		}
		m.digits[k] = uint8(d)
	}
	return m, nil
}

// Key returns the host key for a hex digit. Only the low nibble is used.
func (m *InputMapper[K]) Key(digit uint8) K {
	return m.keys[digit&0xF]
}

// Digit returns the hex digit for a host key.
func (m *InputMapper[K]) Digit(key K) (uint8, bool) {
	d, ok := m.digits[key]
	return d, ok
}

// MappedKeypad combines an InputMapper with a host keyboard to implement Keypad.
type MappedKeypad[K comparable] struct {
	mapper *InputMapper[K]
	host   HostKeyboard[K]
}

// NewMappedKeypad returns a Keypad that queries host through mapper.
func NewMappedKeypad[K comparable](mapper *InputMapper[K], host HostKeyboard[K]) *MappedKeypad[K] {
	return &MappedKeypad[K]{
		mapper: mapper,
		host:   host,
	}
}

// IsPressed implements Keypad.
func (k *MappedKeypad[K]) IsPressed(digit uint8) bool {
	return k.host.IsKeyDown(k.mapper.Key(digit))
}

// Pressed implements Keypad, returning digits in ascending order. Unmapped
// host keys are ignored.
func (k *MappedKeypad[K]) Pressed() []uint8 {
	return k.digits(k.host.KeysDown())
}

// JustPressed implements Keypad. Unmapped host keys are ignored.
func (k *MappedKeypad[K]) JustPressed() []uint8 {
	return k.digits(k.host.KeysJustPressed())
}

// digits maps host keys to sorted hex digits.
func (k *MappedKeypad[K]) digits(keys []K) []uint8 {
	var digits []uint8
	for _, key := range keys {
		if d, ok := k.mapper.Digit(key); ok {
			digits = append(digits, d)
		}
	}
	slices.Sort(digits)
	return digits
}

// KeyState is a Keypad backed by bitmasks, one bit per digit. Frontends that
// receive key events rather than polling can set bits as events arrive. Presses
// are remembered until JustPressed reports them.
type KeyState struct {
	down    uint16
	pressed uint16
}

// Set marks the key for digit as down.
func (s *KeyState) Set(digit uint8) {
	bit := uint16(1) << (digit & 0xF)
	if s.down&bit == 0 {
		s.pressed |= bit
	}
	s.down |= bit
}

// Unset marks the key for digit as up.
func (s *KeyState) Unset(digit uint8) {
	s.down &^= 1 << (digit & 0xF)
}

// IsPressed implements Keypad.
func (s *KeyState) IsPressed(digit uint8) bool {
	bit := uint16(1) << (digit & 0xF)
	return s.down&bit == bit
}

// Pressed implements Keypad, returning digits in ascending order.
func (s *KeyState) Pressed() []uint8 {
	return maskDigits(s.down)
}

// JustPressed implements Keypad, returning digits in ascending order.
func (s *KeyState) JustPressed() []uint8 {
	digits := maskDigits(s.pressed)
	s.pressed = 0
	return digits
}

func maskDigits(mask uint16) []uint8 {
	var digits []uint8
	for d := uint8(0); d < KeyCount; d++ {
		if mask&(1<<d) != 0 {
			digits = append(digits, d)
		}
	}
	return digits
}

// QWERTYLayout lists, per keypad digit, the character on a QWERTY keyboard
// used for it. Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
var QWERTYLayout = [KeyCount]rune{
	0x0: 'x', 0x1: '1', 0x2: '2', 0x3: '3',
	0x4: 'q', 0x5: 'w', 0x6: 'e', 0x7: 'a',
	0x8: 's', 0x9: 'd', 0xA: 'z', 0xB: 'c',
	0xC: '4', 0xD: 'r', 0xE: 'f', 0xF: 'v',
}
