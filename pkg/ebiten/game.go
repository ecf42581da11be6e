// Package ebiten runs the emulator inside an Ebitengine window.
package ebiten

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/runner"
	"github.com/retroenv/retrogolib/log"
)

var (
	screenColor = [4]byte{0x1A, 0x23, 0x7E, 0xFF}
	spriteColor = [4]byte{0x9F, 0xA8, 0xDA, 0xFF}
)

// Keys maps the CHIP-8 keypad to the QWERTY keyboard, see
// internal.QWERTYLayout for the layout.
var Keys = [internal.KeyCount]ebiten.Key{
	0x0: ebiten.KeyX, 0x1: ebiten.Key1, 0x2: ebiten.Key2, 0x3: ebiten.Key3,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0x7: ebiten.KeyA,
	0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xA: ebiten.KeyZ, 0xB: ebiten.KeyC,
	0xC: ebiten.Key4, 0xD: ebiten.KeyR, 0xE: ebiten.KeyF, 0xF: ebiten.KeyV,
}

// Game implements ebiten.Game and runner.Frontend. Ebitengine owns the main
// loop and calls Update at 60 Hz, each call runs one frame of the VM.
type Game struct {
	title  string
	scale  int
	keypad   *internal.MappedKeypad[ebiten.Key]
	keyboard keyboard
	pixels []byte // RGBA frame uploaded by Draw

	ctx    context.Context
	runner *runner.Runner
}

// NewGame returns a game whose window shows every CHIP-8 pixel as a square of
// scale window pixels.
func NewGame(title string, scale int, logger *log.Logger) (*Game, error) {
	mapper, err := internal.NewInputMapper(Keys)
	if err != nil {
		return nil, fmt.Errorf("creating key mapping: %w", err)
	}

	g := &Game{
		title:  title,
		scale:  scale,
		pixels: make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
		logger: logger,
	}
	g.keypad = internal.NewMappedKeypad[ebiten.Key](mapper, &g.keyboard)
	g.Present(&internal.Display{})
	return g, nil
}

// Keypad returns the keypad to pass to the VM.
func (g *Game) Keypad() internal.Keypad {
	return g.keypad
}

// Run opens the window and blocks until it is closed, the context is
// cancelled or the runner fails.
func (g *Game) Run(ctx context.Context, r *runner.Runner) error {
	g.ctx = ctx
	g.runner = r

	ebiten.SetWindowSize(internal.ScreenWidth*g.scale, internal.ScreenHeight*g.scale)
	ebiten.SetWindowTitle(g.title)
	ebiten.SetTPS(int(time.Second / internal.TimerPeriod))

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return ctx.Err()
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || g.Poll() {
		return ebiten.Termination
	}
	return g.runner.Frame()
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.pixels)
}

// Layout implements ebiten.Game. The screen is always the native resolution,
// Ebitengine scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth, internal.ScreenHeight
}

// Poll implements runner.Frontend. Key state is read by Ebitengine itself,
// only the presses of the current tick are collected here.
func (g *Game) Poll() bool {
	g.keyboard.pressed = inpututil.AppendJustPressedKeys(g.keyboard.pressed[:0])
	if files := ebiten.DroppedFiles(); files != nil {
		g.readDropped(files)
	}
	return ebiten.IsKeyPressed(ebiten.KeyEscape)
}

// readDropped reads the first regular file that was dropped on the window.
func (g *Game) readDropped(files fs.FS) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		g.logger.Warn("Listing dropped files failed", log.Err(err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			g.logger.Warn("Reading dropped file failed", log.String("name", entry.Name()), log.Err(err))
			return
		}
		g.dropped = data
		g.droppedName = entry.Name()
		return
	}
}

// NextProgram implements runner.ProgramSource.
func (g *Game) NextProgram() (string, []byte, bool) {
	if g.dropped == nil {
		return "", nil, false
	}
	data := g.dropped
	g.dropped = nil
	return g.droppedName, data, true
}

// Present implements runner.Frontend.
func (g *Game) Present(display *internal.Display) {
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			color := screenColor
			if display.Pixel(x, y) {
				color = spriteColor
			}
			copy(g.pixels[(y*internal.ScreenWidth+x)*4:], color[:])
		}
	}
}

// Beep implements runner.Frontend by marking the window title, there is no
// audio output.
func (g *Game) Beep(on bool) {
	if on {
		ebiten.SetWindowTitle(g.title + " ♪")
		return
	}
	ebiten.SetWindowTitle(g.title)
}

type keyboard struct {
	pressed []ebiten.Key
}

func (*keyboard) IsKeyDown(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

func (*keyboard) KeysDown() []ebiten.Key {
	return inpututil.AppendPressedKeys(nil)
}

func (k *keyboard) KeysJustPressed() []ebiten.Key {
	keys := k.pressed
	k.pressed = nil
	return keys
}
