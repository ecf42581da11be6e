package tty

import (
	"bufio"
	"io"

	"github.com/mnafees/chopper/v2/internal"
)

// ANSI control sequences
const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	resetAttrs  = "\x1b[0m"
)

// render draws the display with one character cell per two vertically stacked
// pixels.
func render(w io.Writer, display *internal.Display) error {
	buf := bufio.NewWriterSize(w, internal.ScreenWidth*internal.ScreenHeight*2)
	_, _ = buf.WriteString(cursorHome)

	for y := 0; y < internal.ScreenHeight; y += 2 {
		for x := 0; x < internal.ScreenWidth; x++ {
			top, bottom := display.Pixel(x, y), display.Pixel(x, y+1)
			switch {
			case top && bottom:
				_, _ = buf.WriteRune('█')
			case top:
				_, _ = buf.WriteRune('▀')
			case bottom:
				_, _ = buf.WriteRune('▄')
			default:
				_ = buf.WriteByte(' ')
			}
		}
		_, _ = buf.WriteString("\r\n")
	}
	return buf.Flush()
}
