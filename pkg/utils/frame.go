package utils

import (
	"github.com/thelolagemann/gochip8/internal/types"
	"golang.org/x/image/draw"
	"image"
	"image/color"
	"image/png"
	"os"
)

// FrameImage renders a packed 1bpp frame into an image, using
// fg for set pixels and bg for clear ones.
func FrameImage(frame []byte, fg, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, types.ScreenWidth, types.ScreenHeight))
	DrawFrame(img, frame, fg, bg)
	return img
}

// DrawFrame renders a packed 1bpp frame into an existing image
// of the screen size.
func DrawFrame(img *image.RGBA, frame []byte, fg, bg color.Color) {
	for y := 0; y < types.ScreenHeight; y++ {
		for x := 0; x < types.ScreenWidth; x++ {
			c := bg
			if PixelAt(frame, y*types.ScreenWidth+x) {
				c = fg
			}
			img.Set(x, y, c)
		}
	}
}

// Scale scales the image by factor using nearest neighbour
// sampling, keeping pixels sharp.
func Scale(img image.Image, factor int) *image.RGBA {
	factor = Clamp(1, factor, 64)
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WriteImage writes the image to filename as a PNG.
func WriteImage(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	return encoder.Encode(file, img)
}
