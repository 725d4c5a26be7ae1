// Package themes holds the Fyne themes used by the fyne driver.
package themes

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/thelolagemann/gochip8/pkg/display"
	"image/color"
)

// Default is a dark theme whose primary colour follows the
// foreground colour frames are drawn with.
type Default struct{}

var (
	surfaceA0  = color.NRGBA{0x1a, 0x1a, 0x1d, 0xff}
	surfaceA20 = color.NRGBA{0x2c, 0x2c, 0x31, 0xff}
	surfaceA40 = color.NRGBA{0x3f, 0x3f, 0x46, 0xff}
	surfaceA60 = color.NRGBA{0x55, 0x55, 0x5d, 0xff}

	disabledText = color.NRGBA{156, 156, 156, 255}
	disabled     = color.NRGBA{35, 35, 35, 255}
)

var colorMap = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground:        surfaceA0,
	theme.ColorNameMenuBackground:    surfaceA40,
	theme.ColorNameOverlayBackground: surfaceA20,
	theme.ColorNameDisabled:          disabled,
	theme.ColorNamePlaceHolder:       disabledText,
	theme.ColorNameButton:            surfaceA40,
	theme.ColorNameInputBackground:   surfaceA40,
	theme.ColorNameFocus:             surfaceA20,
	theme.ColorNameHover:             surfaceA60,
}

func (d Default) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNamePrimary {
		return display.Colours.Foreground
	}
	if c, ok := colorMap[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (d Default) Font(style fyne.TextStyle) fyne.Resource    { return theme.DefaultTheme().Font(style) }
func (d Default) Icon(name fyne.ThemeIconName) fyne.Resource { return theme.DefaultTheme().Icon(name) }
func (d Default) Size(name fyne.ThemeSizeName) float32       { return theme.DefaultTheme().Size(name) }
