//go:build !test

package utils

import (
	"bytes"
	"github.com/sqweek/dialog"
	"golang.design/x/clipboard"
	"image"
	"image/png"
	"strings"
)

// CopyImage copies the image to the system clipboard as a PNG.
func CopyImage(img image.Image) error {
	err := clipboard.Init()
	if err != nil {
		return err
	}

	// encode image to byte slice
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtImage, b.Bytes())

	return nil
}

// SaveImage asks where to save the image, and writes it there as
// a PNG.
func SaveImage(img image.Image) error {
	// ask user where to save the image
	filename, err := dialog.File().Filter("PNG Image", "png").Title("Save Image").Save()
	if err != nil {
		return err
	}

	// does file have a .png extension?
	if !strings.HasSuffix(strings.ToLower(filename), ".png") {
		filename += ".png"
	}

	return WriteImage(filename, img)
}
