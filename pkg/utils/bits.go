package utils

import "github.com/thelolagemann/gochip8/pkg/bits"

// PixelAt reports whether pixel i of a packed MSB-first bitmap
// is set.
func PixelAt(frame []byte, i int) bool {
	return bits.Test(frame[i>>3], 7-uint8(i&7))
}
