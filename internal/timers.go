package internal

import "time"

// TimerPeriod is the interval between two timer ticks (60 Hz).
const TimerPeriod = time.Second / 60

// Timers are the delay and sound countdown timers.
type Timers struct {
	Delay uint8 // Delay timer
	Sound uint8 // Sound timer
}

// tick decrements both timers by one, stopping at zero.
func (t *Timers) tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}
