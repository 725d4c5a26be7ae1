// Package cpu provides the CHIP-8 instruction engine. It
// fetches big-endian 16-bit instructions from memory, decodes
// them and applies their effect to the machine state.
package cpu

import (
	"github.com/thelolagemann/gochip8/internal/framebuffer"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/ram"
	"github.com/thelolagemann/gochip8/internal/timer"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/log"
	"math/rand"
)

// CPU represents the CHIP-8 interpreter core. It is responsible
// for executing instructions.
type CPU struct {
	// V contains the 16 general purpose registers V0-VF. VF is
	// also written as a flag by arithmetic, shift and draw
	// instructions.
	V [types.RegisterCount]uint8
	// I is the index register, used to address memory.
	I uint16
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16

	stack []uint16

	// Mode selects the quirk behaviour of the jump-with-offset
	// instruction. It is fixed when the CPU is created.
	mode types.Mode

	// Debug enables instruction tracing through Logger.
	Debug  bool
	Logger log.Logger

	mem   *ram.RAM
	fb    *framebuffer.Framebuffer
	timer *timer.Controller
	keys  *keypad.State
	rand  *rand.Rand

	drawn bool
}

// NewCPU returns a new CPU operating on the given components.
// The random source is used by the RND instruction.
func NewCPU(mem *ram.RAM, fb *framebuffer.Framebuffer, tmr *timer.Controller, keys *keypad.State, mode types.Mode, rnd *rand.Rand) *CPU {
	c := &CPU{
		mode:   mode,
		Logger: log.NewNullLogger(),
		mem:    mem,
		fb:     fb,
		timer:  tmr,
		keys:   keys,
		rand:   rnd,
		stack:  make([]uint16, 0, types.StackDepth),
	}
	c.Reset()
	return c
}

// Reset returns the registers, stack and program counter to
// their power on state. Memory, framebuffer, timers and keypad
// are owned by the caller and are not touched.
func (c *CPU) Reset() {
	c.V = [types.RegisterCount]uint8{}
	c.I = 0
	c.PC = types.ProgramStart
	c.stack = c.stack[:0]
	c.drawn = false
}

// Mode returns the quirk mode the CPU was created with.
func (c *CPU) Mode() types.Mode {
	return c.mode
}

// Stack returns a copy of the call stack, innermost call last.
func (c *CPU) Stack() []uint16 {
	return append([]uint16(nil), c.stack...)
}

// Fetch reads the instruction at PC and advances PC past it.
func (c *CPU) Fetch() (uint16, error) {
	instr, err := c.mem.ReadWord(c.PC)
	if err != nil {
		return 0, &Error{Kind: OutOfBounds, PC: c.PC, Address: int(c.PC), Err: err}
	}
	c.PC += 2
	return instr, nil
}

// Step fetches and executes a single instruction.
func (c *CPU) Step() error {
	instr, err := c.Fetch()
	if err != nil {
		return err
	}
	if c.Debug {
		c.Logger.Debugf("%03X: %04X  %s", c.PC-2, instr, Disassemble(instr))
	}
	return c.Execute(instr)
}

// Drawn reports whether the framebuffer has been modified since
// the last call to ClearDrawn.
func (c *CPU) Drawn() bool {
	return c.drawn
}

// ClearDrawn acknowledges a framebuffer change.
func (c *CPU) ClearDrawn() {
	c.drawn = false
}

func (c *CPU) push(instr uint16) error {
	if len(c.stack) >= types.StackDepth {
		return c.fault(StackOverflow, instr)
	}
	c.stack = append(c.stack, c.PC)
	return nil
}

func (c *CPU) pop(instr uint16) (uint16, error) {
	if len(c.stack) == 0 {
		return 0, c.fault(StackUnderflow, instr)
	}
	addr := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return addr, nil
}

// skipIf skips the next instruction when cond holds.
func (c *CPU) skipIf(cond bool) {
	if cond {
		c.PC += 2
	}
}
