// Package types holds the constants that describe the CHIP-8
// machine model and are shared by every component of the
// interpreter.
package types

// Address is a location in the 4KB CHIP-8 address space.
type Address = uint16

const (
	// MemorySize is the size of the addressable memory in bytes.
	// Addresses are 12 bits wide, so the whole space is 0x000-0xFFF.
	MemorySize = 0x1000

	// FontBase is the address at which the built-in hex glyphs
	// are loaded. Each glyph is FontGlyphSize bytes long, so the
	// table occupies 0x050-0x09F.
	FontBase Address = 0x050
	// FontGlyphSize is the number of bytes (rows) in a font glyph.
	FontGlyphSize = 5

	// ProgramStart is the address programs are loaded to, and the
	// initial value of the program counter.
	ProgramStart Address = 0x200
	// MaxProgramSize is the largest program that fits between
	// ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - int(ProgramStart)

	// AddressMask masks a value to the 12-bit address space.
	AddressMask = 0x0FFF
)

const (
	// ScreenWidth is the width of the framebuffer in pixels.
	ScreenWidth = 64
	// ScreenHeight is the height of the framebuffer in pixels.
	ScreenHeight = 32
	// FrameSize is the size of a packed 1bpp frame in bytes.
	FrameSize = ScreenWidth * ScreenHeight / 8
)

const (
	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16
	// FlagRegister is the index of VF, which doubles as the
	// carry/borrow/collision flag.
	FlagRegister = 0xF
	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16
	// KeyCount is the number of keys on the hex keypad.
	KeyCount = 16
)

const (
	// TimerFrequency is the rate in Hz at which the delay and
	// sound timers count down.
	TimerFrequency = 60
	// DefaultClockSpeed is the default number of instructions
	// executed per second.
	DefaultClockSpeed = 700
)
