// Package tty runs the emulator inside a text terminal.
package tty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/pkg/term"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
)

// Minimal terminal size in character cells.
const (
	MinColumns = internal.ScreenWidth
	MinRows    = internal.ScreenHeight / 2
)

const (
	keyEscape = 0x1B
	keyCtrlC  = 0x03
)

// ErrTerminalTooSmall is returned when the display does not fit the terminal.
var ErrTerminalTooSmall = errors.New("terminal too small")

// Terminal is a frontend drawing into the controlling terminal.
type Terminal struct {
	tty      *term.Term
	keyboard *keyboard
	keypad   *internal.MappedKeypad[rune]
	logger   *log.Logger
	buf      []byte
}

// Open puts the controlling terminal into raw mode. A key counts as down for
// hold after it was read.
func Open(hold time.Duration, logger *log.Logger) (*Terminal, error) {
	if err := checkSize(int(os.Stdout.Fd())); err != nil {
		return nil, err
	}

	mapper, err := internal.NewInputMapper(internal.QWERTYLayout)
	if err != nil {
		return nil, fmt.Errorf("creating key mapping: %w", err)
	}

	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}

	t := &Terminal{
		tty:      tty,
		keyboard: newKeyboard(hold, time.Now),
		logger:   logger,
		buf:      make([]byte, 64),
	}
	t.keypad = internal.NewMappedKeypad[rune](mapper, t.keyboard)

	if _, err := io.WriteString(tty, clearScreen+hideCursor); err != nil {
		t.Close()
		return nil, fmt.Errorf("preparing terminal: %w", err)
	}
	return t, nil
}

// checkSize returns an error if the terminal behind fd cannot show a frame.
func checkSize(fd int) error {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return fmt.Errorf("getting terminal size: %w", err)
	}
	if int(ws.Col) < MinColumns || int(ws.Row) < MinRows {
		return fmt.Errorf("%w: %dx%d, need %dx%d", ErrTerminalTooSmall, ws.Col, ws.Row, MinColumns, MinRows)
	}
	return nil
}

// Keypad returns the keypad to pass to the VM.
func (t *Terminal) Keypad() internal.Keypad {
	return t.keypad
}

// Close restores the terminal state.
func (t *Terminal) Close() {
	if _, err := io.WriteString(t.tty, resetAttrs+showCursor+"\r\n"); err != nil {
		t.logger.Warn("Resetting terminal failed", log.Err(err))
	}
	if err := t.tty.Restore(); err != nil {
		t.logger.Warn("Restoring terminal mode failed", log.Err(err))
	}
	if err := t.tty.Close(); err != nil {
		t.logger.Warn("Closing terminal failed", log.Err(err))
	}
}

// Poll implements runner.Frontend. It reads the bytes that are waiting
// without blocking. Escape or Ctrl+C quit.
func (t *Terminal) Poll() bool {
	t.keyboard.forgetPresses()
	n, err := t.tty.Available()
	if err != nil || n == 0 {
		return false
	}
	if n > len(t.buf) {
		n = len(t.buf)
	}

	n, err = t.tty.Read(t.buf[:n])
	if err != nil && !errors.Is(err, io.EOF) {
		t.logger.Error("Reading terminal failed", log.Err(err))
		return true
	}
	return t.handleInput(t.buf[:n])
}

// handleInput records the keys in data and reports whether a quit key was
// among them.
func (t *Terminal) handleInput(data []byte) bool {
	for _, b := range data {
		switch b {
		case keyEscape, keyCtrlC:
			return true
		default:
			t.keyboard.press(rune(b))
		}
	}
	return false
}

// Present implements runner.Frontend.
func (t *Terminal) Present(display *internal.Display) {
	if err := render(t.tty, display); err != nil {
		t.logger.Error("Drawing frame failed", log.Err(err))
	}
}

// Beep implements runner.Frontend by ringing the terminal bell when the tone
// starts.
func (t *Terminal) Beep(on bool) {
	if !on {
		return
	}
	if _, err := io.WriteString(t.tty, "\a"); err != nil {
		t.logger.Error("Ringing bell failed", log.Err(err))
	}
}
