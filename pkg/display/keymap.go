package display

import (
	"github.com/thelolagemann/gochip8/internal/keypad"
	"unicode"
)

// Layout maps the left hand block of a QWERTY keyboard onto the
// hex keypad, row by row:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
var Layout = map[rune]keypad.Key{
	'1': keypad.Key1, '2': keypad.Key2, '3': keypad.Key3, '4': keypad.KeyC,
	'Q': keypad.Key4, 'W': keypad.Key5, 'E': keypad.Key6, 'R': keypad.KeyD,
	'A': keypad.Key7, 'S': keypad.Key8, 'D': keypad.Key9, 'F': keypad.KeyE,
	'Z': keypad.KeyA, 'X': keypad.Key0, 'C': keypad.KeyB, 'V': keypad.KeyF,
}

// KeyFor returns the keypad key bound to the keyboard character r,
// ignoring case.
func KeyFor(r rune) (keypad.Key, bool) {
	k, ok := Layout[unicode.ToUpper(r)]
	return k, ok
}
