package chip8

import (
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/log"
)

// Opt is a function that modifies a Machine
// instance before its components are built.
type Opt func(m *Machine)

// Debug enables per-instruction tracing through the
// machine's logger.
func Debug() Opt {
	return func(m *Machine) {
		m.debug = true
	}
}

// WithMode selects the quirk mode of the interpreter.
func WithMode(mode types.Mode) Opt {
	return func(m *Machine) {
		m.mode = mode
	}
}

// ClockSpeed sets the number of instructions executed per
// second. Values <= 0 are ignored.
func ClockSpeed(hz float64) Opt {
	return func(m *Machine) {
		if hz > 0 {
			m.clockSpeed = hz
		}
	}
}

// Speed sets the multiplier applied to the clock speed.
// Timers are unaffected and always tick at 60Hz.
func Speed(multiplier float64) Opt {
	return func(m *Machine) {
		if multiplier > 0 {
			m.speed = multiplier
		}
	}
}

func WithLogger(l log.Logger) Opt {
	return func(m *Machine) {
		m.Logger = l
	}
}

// WithSeed seeds the random source used by RND, making runs
// reproducible.
func WithSeed(seed int64) Opt {
	return func(m *Machine) {
		m.seed = seed
	}
}
