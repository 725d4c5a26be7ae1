// Package term provides a display driver that draws frames in a
// terminal with half block characters, two pixels per cell.
package term

import (
	"fmt"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display"
	"github.com/thelolagemann/gochip8/pkg/utils"
	"image/color"
	"strings"
)

const (
	cursorHome = "\x1b[H"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	clearAll   = "\x1b[2J"
	reset      = "\x1b[0m"
	upperHalf  = "▀"
)

func fgColour(c color.RGBA) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

func bgColour(c color.RGBA) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// render draws the frame as ScreenHeight/2 lines of upper half
// blocks, the upper pixel in the foreground colour of the cell
// and the lower pixel in its background colour.
func render(frame []byte, p display.Palette) string {
	colour := func(set bool) color.RGBA {
		if set {
			return p.Foreground
		}
		return p.Background
	}

	var b strings.Builder
	b.WriteString(cursorHome)
	for y := 0; y < types.ScreenHeight; y += 2 {
		var lastTop, lastBottom *color.RGBA
		for x := 0; x < types.ScreenWidth; x++ {
			top := colour(utils.PixelAt(frame, y*types.ScreenWidth+x))
			bottom := colour(utils.PixelAt(frame, (y+1)*types.ScreenWidth+x))

			// only emit escapes when the colours change
			if lastTop == nil || *lastTop != top {
				b.WriteString(fgColour(top))
				lastTop = &top
			}
			if lastBottom == nil || *lastBottom != bottom {
				b.WriteString(bgColour(bottom))
				lastBottom = &bottom
			}
			b.WriteString(upperHalf)
		}
		b.WriteString(reset)
		b.WriteString("\r\n")
	}

	return b.String()
}
