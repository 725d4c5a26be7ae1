// Package ram provides the 4KB memory of the CHIP-8 machine.
// All accesses are bounds checked against the 12-bit address
// space, and an out of range access is reported as an error
// rather than wrapped around.
package ram

import (
	"errors"
	"fmt"
	"github.com/thelolagemann/gochip8/internal/types"
)

var (
	// ErrOutOfBounds is returned (wrapped in a BoundsError) when
	// an access leaves the address space.
	ErrOutOfBounds = errors.New("memory access out of bounds")
	// ErrProgramTooLarge is returned when a program does not fit
	// between types.ProgramStart and the end of memory.
	ErrProgramTooLarge = errors.New("program too large")
)

// BoundsError describes an access of Length bytes starting at
// Address that does not fit in memory.
type BoundsError struct {
	Address int
	Length  int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("access of %d byte(s) at 0x%03X exceeds %d byte memory", e.Length, e.Address, types.MemorySize)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// RAM represents the memory of the machine.
type RAM struct {
	data [types.MemorySize]uint8
}

// NewRAM returns a new zeroed RAM with the font glyphs loaded
// at types.FontBase.
func NewRAM() *RAM {
	r := &RAM{}
	r.Reset()
	return r
}

// Reset zeroes the memory and reloads the font.
func (r *RAM) Reset() {
	r.data = [types.MemorySize]uint8{}
	copy(r.data[types.FontBase:], Font[:])
}

// Load copies the program into memory at types.ProgramStart.
func (r *RAM) Load(program []byte) error {
	if len(program) > types.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), types.MaxProgramSize)
	}
	copy(r.data[types.ProgramStart:], program)
	return nil
}

func (r *RAM) check(address uint16, length int) error {
	if int(address)+length > types.MemorySize {
		return &BoundsError{Address: int(address), Length: length}
	}
	return nil
}

// Read returns the value at the given address.
func (r *RAM) Read(address uint16) (uint8, error) {
	if err := r.check(address, 1); err != nil {
		return 0, err
	}
	return r.data[address], nil
}

// Write writes the value to the given address.
func (r *RAM) Write(address uint16, value uint8) error {
	if err := r.check(address, 1); err != nil {
		return err
	}
	r.data[address] = value
	return nil
}

// ReadWord returns the big-endian 16-bit word at [address, address+2).
func (r *RAM) ReadWord(address uint16) (uint16, error) {
	if err := r.check(address, 2); err != nil {
		return 0, err
	}
	return uint16(r.data[address])<<8 | uint16(r.data[address+1]), nil
}

// Slice returns the length bytes starting at address. The returned
// slice aliases memory and must not be modified by the caller.
func (r *RAM) Slice(address uint16, length int) ([]byte, error) {
	if err := r.check(address, length); err != nil {
		return nil, err
	}
	return r.data[address : int(address)+length], nil
}

// WriteSlice copies values into memory starting at address.
func (r *RAM) WriteSlice(address uint16, values []byte) error {
	if err := r.check(address, len(values)); err != nil {
		return err
	}
	copy(r.data[address:], values)
	return nil
}
