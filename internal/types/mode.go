package types

import "strings"

type Mode int // The quirk Mode used in emulation.

const (
	Classic Mode = iota // Classic - original COSMAC VIP style jump-with-offset
	Super               // Super - SUPER-CHIP style jump-with-offset (BXNN)
)

var ModeNames = map[Mode]string{
	Classic: "classic",
	Super:   "super",
}

// StringToMode converts a string to a Mode. The second return
// value reports whether the name was recognised.
func StringToMode(s string) (Mode, bool) {
	for m, n := range ModeNames {
		if n == strings.ToLower(s) {
			return m, true
		}
	}

	return Classic, false
}

func (m Mode) String() string {
	if n, ok := ModeNames[m]; ok {
		return n
	}
	return "unknown"
}
