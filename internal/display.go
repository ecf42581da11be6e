package internal

// Display dimensions
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Display is the monochrome frame buffer. Pixels are addressed as
// y*ScreenWidth + x.
type Display struct {
	pixels [ScreenWidth * ScreenHeight]bool
	dirty  bool
}

// Pixel reports whether the pixel at (x, y) is lit. Coordinates outside the
// screen report false.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return d.pixels[y*ScreenWidth+x]
}

// Dirty reports whether the buffer changed since the last ClearDirty.
func (d *Display) Dirty() bool {
	return d.dirty
}

// ClearDirty is called by the presentation layer once it consumed a frame.
func (d *Display) ClearDirty() {
	d.dirty = false
}

// clear turns every pixel off.
func (d *Display) clear() {
	d.pixels = [ScreenWidth * ScreenHeight]bool{}
	d.dirty = true
}

// drawSprite XORs the rows of a sprite onto the buffer with its top left corner
// at (x, y). The origin wraps around the screen, the sprite itself is clipped
// at the right and bottom edges. Returns true if any lit pixel was turned off.
func (d *Display) drawSprite(x, y uint8, rows []uint8) bool {
	x0 := int(x) % ScreenWidth
	py := int(y) % ScreenHeight
	collision := false

	for _, row := range rows {
		if py >= ScreenHeight {
			break
		}
		px := x0
		for mask := uint8(0x80); mask != 0; mask >>= 1 {
			if px >= ScreenWidth {
				break
			}
			if row&mask != 0 {
				idx := py*ScreenWidth + px
				if d.pixels[idx] {
					collision = true
				}
				d.pixels[idx] = !d.pixels[idx]
			}
			px++
		}
		py++
	}

	d.dirty = true
	return collision
}
