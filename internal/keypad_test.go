package internal

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

type fakeKeyboard struct {
	down    map[rune]bool
	pressed []rune
}

func (k *fakeKeyboard) IsKeyDown(key rune) bool {
	return k.down[key]
}

func (k *fakeKeyboard) KeysDown() []rune {
	var keys []rune
	for _, r := range "vfr4czdsaewq321xp" {
		if k.down[r] {
			keys = append(keys, r)
		}
	}
	return keys
}

func (k *fakeKeyboard) KeysJustPressed() []rune {
	keys := k.pressed
	k.pressed = nil
	return keys
}

func TestInputMapperBijection(t *testing.T) {
	m, err := NewInputMapper(QWERTYLayout)
	assert.NoError(t, err)

	for d := uint8(0); d < KeyCount; d++ {
		digit, ok := m.Digit(m.Key(d))
		assert.True(t, ok)
		assert.Equal(t, d, digit)
	}

	for _, key := range QWERTYLayout {
		digit, ok := m.Digit(key)
		assert.True(t, ok)
		assert.Equal(t, key, m.Key(digit))
	}

	_, ok := m.Digit('p')
	assert.False(t, ok)
	assert.Equal(t, 'z', m.Key(0x1A))
}

func TestInputMapperDuplicateKey(t *testing.T) {
	keys := QWERTYLayout
	keys[0xF] = keys[0x1]

	m, err := NewInputMapper(keys)
	assert.Error(t, err)
	assert.True(t, m == nil)
}

func TestMappedKeypad(t *testing.T) {
	m, err := NewInputMapper(QWERTYLayout)
	assert.NoError(t, err)
	host := &fakeKeyboard{
		down:    map[rune]bool{'z': true, 'v': true, 'p': true},
		pressed: []rune{'v', 'p', 'z'},
	}
	keypad := NewMappedKeypad[rune](m, host)

	assert.True(t, keypad.IsPressed(0xA))
	assert.True(t, keypad.IsPressed(0xF))
	assert.False(t, keypad.IsPressed(0x0))

	pressed := keypad.Pressed()
	assert.Len(t, pressed, 2)
	assert.Equal(t, uint8(0xA), pressed[0])
	assert.Equal(t, uint8(0xF), pressed[1])

	pressed = keypad.JustPressed()
	assert.Len(t, pressed, 2)
	assert.Equal(t, uint8(0xA), pressed[0])
	assert.Equal(t, uint8(0xF), pressed[1])
	assert.Len(t, keypad.JustPressed(), 0)
	assert.True(t, keypad.IsPressed(0xA))
}

func TestKeyState(t *testing.T) {
	var s KeyState
	assert.Len(t, s.Pressed(), 0)

	s.Set(0xF)
	s.Set(0x3)
	s.Set(0x13) // only the low nibble counts
	assert.True(t, s.IsPressed(0x3))
	assert.True(t, s.IsPressed(0xF))
	assert.False(t, s.IsPressed(0x0))

	pressed := s.Pressed()
	assert.Len(t, pressed, 2)
	assert.Equal(t, uint8(0x3), pressed[0])
	assert.Equal(t, uint8(0xF), pressed[1])

	pressed = s.JustPressed()
	assert.Len(t, pressed, 2)
	assert.Len(t, s.JustPressed(), 0)

	s.Unset(0x3)
	assert.False(t, s.IsPressed(0x3))
	assert.Equal(t, KeyState{down: 0x8000}, s)

	// holding a key does not produce a second press
	s.Set(0xF)
	assert.Len(t, s.JustPressed(), 0)

	s.Set(0x3)
	pressed = s.JustPressed()
	assert.Len(t, pressed, 1)
	assert.Equal(t, uint8(0x3), pressed[0])
}
