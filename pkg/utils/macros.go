package utils

import (
	"encoding/hex"
	"fmt"
	"golang.org/x/exp/constraints"
	"image/color"
	"strings"
)

func Clamp[T constraints.Integer | constraints.Float](min, value, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ParseColour parses a colour in the form RRGGBB, optionally
// prefixed with '#'.
func ParseColour(s string) (color.RGBA, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || len(b) != 3 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: expected RRGGBB", s)
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xFF}, nil
}
