package display

import (
	"github.com/thelolagemann/gochip8/internal/types"
	"image/color"
)

// Palette holds the two colours a frame is rendered with.
type Palette struct {
	Foreground color.RGBA
	Background color.RGBA
}

// Colours is the palette used by all drivers. It is set from
// the command line before a driver is started.
var Colours = Palette{
	Foreground: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Background: color.RGBA{A: 0xFF},
}

// RGB expands a packed 1bpp frame into dst as 24-bit RGB pixels,
// row major. dst must hold ScreenWidth*ScreenHeight*3 bytes.
func (p Palette) RGB(frame []byte, dst []byte) {
	for i := 0; i < types.ScreenWidth*types.ScreenHeight; i++ {
		c := p.Background
		if frame[i>>3]&(0x80>>(i&7)) != 0 {
			c = p.Foreground
		}
		dst[i*3], dst[i*3+1], dst[i*3+2] = c.R, c.G, c.B
	}
}
