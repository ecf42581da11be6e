package tty

import (
	"slices"
	"time"
	"unicode"
)

// DefaultHold is how long a key counts as down after its byte was read.
// Terminals only report key presses, so a key that is held down shows up as
// a stream of repeated bytes.
const DefaultHold = 150 * time.Millisecond

// keyboard remembers when each key was last read from the terminal. Bytes of
// a key that is still inside its hold window are repeats, not presses.
type keyboard struct {
	hold    time.Duration
	now     func() time.Time
	seen    map[rune]time.Time
	pressed []rune
}

func newKeyboard(hold time.Duration, now func() time.Time) *keyboard {
	return &keyboard{
		hold: hold,
		now:  now,
		seen: make(map[rune]time.Time),
	}
}

// press records a key read from the terminal.
func (k *keyboard) press(r rune) {
	key := unicode.ToLower(r)
	if !k.IsKeyDown(key) && !slices.Contains(k.pressed, key) {
		k.pressed = append(k.pressed, key)
	}
	k.seen[key] = k.now()
}

// forgetPresses drops the presses that were not consumed since the last poll.
func (k *keyboard) forgetPresses() {
	k.pressed = k.pressed[:0]
}

func (k *keyboard) IsKeyDown(key rune) bool {
	at, ok := k.seen[key]
	return ok && k.now().Sub(at) < k.hold
}

func (k *keyboard) KeysDown() []rune {
	var keys []rune
	now := k.now()
	for key, at := range k.seen {
		if now.Sub(at) < k.hold {
			keys = append(keys, key)
			continue
		}
		delete(k.seen, key)
	}
	return keys
}

func (k *keyboard) KeysJustPressed() []rune {
	keys := k.pressed
	k.pressed = nil
	return keys
}
