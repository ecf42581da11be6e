package sdl

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

// Scancodes maps the CHIP-8 keypad to the QWERTY keyboard, see
// internal.QWERTYLayout for the layout.
var Scancodes = [internal.KeyCount]sdl.Scancode{
	0x0: sdl.SCANCODE_X, 0x1: sdl.SCANCODE_1, 0x2: sdl.SCANCODE_2, 0x3: sdl.SCANCODE_3,
	0x4: sdl.SCANCODE_Q, 0x5: sdl.SCANCODE_W, 0x6: sdl.SCANCODE_E, 0x7: sdl.SCANCODE_A,
	0x8: sdl.SCANCODE_S, 0x9: sdl.SCANCODE_D, 0xA: sdl.SCANCODE_Z, 0xB: sdl.SCANCODE_C,
	0xC: sdl.SCANCODE_4, 0xD: sdl.SCANCODE_R, 0xE: sdl.SCANCODE_F, 0xF: sdl.SCANCODE_V,
}

// IO is the input/output abstraction layer for the VM
type IO struct {
	window    *sdl.Window
	surface   *sdl.Surface
	title     string
	pixelSize int32

	keyboard keyboard
	keypad   *internal.MappedKeypad[sdl.Scancode]
	logger   *log.Logger

	dropped     []byte // program read from the last file dropped on the window
	droppedName string
}

// NewIO returns a new I/O instance for the SDL frontend. Every CHIP-8 pixel is
// drawn as a square of pixelSize window pixels.
func NewIO(pixelSize int, logger *log.Logger) (*IO, error) {
	mapper, err := internal.NewInputMapper(Scancodes)
	if err != nil {
		return nil, fmt.Errorf("creating key mapping: %w", err)
	}

	io := &IO{
		pixelSize: int32(pixelSize),
		logger:    logger,
	}
	io.keypad = internal.NewMappedKeypad[sdl.Scancode](mapper, &io.keyboard)
	return io, nil
}

// Keypad returns the keypad to pass to the VM.
func (io *IO) Keypad() internal.Keypad {
	return io.keypad
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.title = title

	io.surface, err = window.GetSurface()
	if err != nil {
		io.Destroy()
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		io.Destroy()
		return fmt.Errorf("clearing window surface: %w", err)
	}
	io.keyboard.state = sdl.GetKeyboardState()
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		if err := io.window.Destroy(); err != nil {
			io.logger.Warn("Destroying window failed", log.Err(err))
		}
		io.window = nil
	}
	sdl.Quit()
}

// Poll drains the SDL event queue. Key state is read from the keyboard state
// array that SDL updates while pumping events, key down events that are not
// auto repeats count as presses.
func (io *IO) Poll() bool {
	quit := false
	io.keyboard.pressed = io.keyboard.pressed[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			if t.GetType() != sdl.KEYDOWN {
				continue
			}
			if t.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				quit = true
			}
			if t.Repeat == 0 {
				io.keyboard.pressed = append(io.keyboard.pressed, t.Keysym.Scancode)
			}
		case *sdl.DropEvent:
			if t.Type == sdl.DROPFILE {
				io.readDropped(t.File)
			}
		case *sdl.QuitEvent:
			quit = true
		}
	}
	return quit
}

// readDropped reads a ROM file that was dropped on the window.
func (io *IO) readDropped(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		io.logger.Warn("Reading dropped file failed", log.String("path", path), log.Err(err))
		return
	}
	io.dropped = data
	io.droppedName = filepath.Base(path)
}

// NextProgram implements runner.ProgramSource.
func (io *IO) NextProgram() (string, []byte, bool) {
	if io.dropped == nil {
		return "", nil, false
	}
	data := io.dropped
	io.dropped = nil
	return io.droppedName, data, true
}

// Present draws the frame buffer on the window surface.
func (io *IO) Present(display *internal.Display) {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		io.logger.Error("Clearing window surface failed", log.Err(err))
		return
	}

	rect := sdl.Rect{W: io.pixelSize, H: io.pixelSize}
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			if !display.Pixel(x, y) {
				continue
			}
			rect.X = int32(x) * io.pixelSize
			rect.Y = int32(y) * io.pixelSize
			if err := io.surface.FillRect(&rect, spriteColor); err != nil {
				io.logger.Error("Drawing pixel failed", log.Err(err))
				return
			}
		}
	}

	if err := io.window.UpdateSurface(); err != nil {
		io.logger.Error("Updating window surface failed", log.Err(err))
	}
}

// Beep marks the window title while the sound timer runs. The frontend has no
// audio output.
func (io *IO) Beep(on bool) {
	if on {
		io.window.SetTitle(io.title + " ♪")
		return
	}
	io.window.SetTitle(io.title)
}

// keyboard exposes the SDL keyboard state array as a host keyboard. Presses
// come from the key down events of the latest poll.
type keyboard struct {
	state   []uint8
	pressed []sdl.Scancode
}

func (k *keyboard) IsKeyDown(code sdl.Scancode) bool {
	return int(code) < len(k.state) && k.state[code] != 0
}

func (k *keyboard) KeysDown() []sdl.Scancode {
	var keys []sdl.Scancode
	for code, down := range k.state {
		if down != 0 {
			keys = append(keys, sdl.Scancode(code))
		}
	}
	return keys
}

func (k *keyboard) KeysJustPressed() []sdl.Scancode {
	keys := k.pressed
	k.pressed = nil
	return keys
}
