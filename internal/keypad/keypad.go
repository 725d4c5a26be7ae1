// Package keypad provides the state of the CHIP-8 16 key hex
// keypad. Keys are pressed and released by the input driver and
// only ever read by the instruction engine.
package keypad

import "github.com/thelolagemann/gochip8/internal/types"

// Key represents a key on the hex keypad, 0x0-0xF.
type Key = uint8

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// State represents the state of the keypad. Bit n of State is
// set while key n is held.
type State struct {
	State uint16
}

// New returns a new keypad state with no keys held.
func New() *State {
	return &State{}
}

// Press presses a key. Keys outside 0x0-0xF are ignored.
func (s *State) Press(key Key) {
	if key >= types.KeyCount {
		return
	}
	s.State |= 1 << key
}

// Release releases a key.
func (s *State) Release(key Key) {
	if key >= types.KeyCount {
		return
	}
	s.State &^= 1 << key
}

// IsHeld reports whether the key is currently held.
func (s *State) IsHeld(key Key) bool {
	if key >= types.KeyCount {
		return false
	}
	return s.State&(1<<key) != 0
}

// AnyHeld returns the numerically lowest held key, and false if
// no key is held.
func (s *State) AnyHeld() (Key, bool) {
	for k := Key(0); k < types.KeyCount; k++ {
		if s.State&(1<<k) != 0 {
			return k, true
		}
	}
	return 0, false
}

// Reset releases every key.
func (s *State) Reset() {
	s.State = 0
}
