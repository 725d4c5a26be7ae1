// Package framebuffer provides the 64x32 monochrome display
// surface of the CHIP-8. Pixels are packed 1 bit per pixel,
// row-major, most significant bit first, which is also the
// format handed to display drivers.
package framebuffer

import (
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/bits"
)

const (
	// Width is the width of the framebuffer in pixels.
	Width = types.ScreenWidth
	// Height is the height of the framebuffer in pixels.
	Height = types.ScreenHeight
	// Size is the size of the packed framebuffer in bytes.
	Size = types.FrameSize

	stride = Width / 8 // bytes per row
)

// Framebuffer is the display surface.
type Framebuffer struct {
	pixels [Size]uint8
}

// New returns a cleared framebuffer.
func New() *Framebuffer {
	return &Framebuffer{}
}

// index returns the byte holding (x, y) and the bit within it.
func index(x, y int) (int, uint8) {
	return y*stride + x/8, 7 - uint8(x%8)
}

// Get returns whether the pixel at (x, y) is on. Coordinates
// outside the surface are reported as off.
func (f *Framebuffer) Get(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	i, bit := index(x, y)
	return bits.Test(f.pixels[i], bit)
}

// Set turns the pixel at (x, y) on or off. Coordinates outside
// the surface are ignored.
func (f *Framebuffer) Set(x, y int, on bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	i, bit := index(x, y)
	if on {
		f.pixels[i] = bits.Set(f.pixels[i], bit)
	} else {
		f.pixels[i] = bits.Reset(f.pixels[i], bit)
	}
}

// Clear turns every pixel off.
func (f *Framebuffer) Clear() {
	f.pixels = [Size]uint8{}
}

// Draw XORs the sprite onto the surface with its top left corner
// at (x mod Width, y mod Height). Each sprite byte is one row of
// 8 pixels, MSB leftmost. Rows past the bottom edge and columns
// past the right edge are clipped, not wrapped. Draw reports
// whether any pixel that was on got turned off.
func (f *Framebuffer) Draw(x, y int, sprite []byte) (collision bool) {
	x0, y0 := x%Width, y%Height
	if x0 < 0 {
		x0 += Width
	}
	if y0 < 0 {
		y0 += Height
	}

	for row, line := range sprite {
		py := y0 + row
		if py >= Height {
			break
		}
		for col := 0; col < 8; col++ {
			px := x0 + col
			if px >= Width {
				break
			}
			if !bits.Test(line, 7-uint8(col)) {
				continue
			}
			i, bit := index(px, py)
			if bits.Test(f.pixels[i], bit) {
				collision = true
			}
			f.pixels[i] ^= 1 << bit
		}
	}

	return collision
}

// Bytes returns a copy of the packed framebuffer.
func (f *Framebuffer) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, f.pixels[:])
	return b
}

// CopyTo copies the packed framebuffer into dst, which must be
// at least Size bytes long.
func (f *Framebuffer) CopyTo(dst []byte) {
	copy(dst, f.pixels[:])
}
