package cpu

import (
	"errors"
	"fmt"
	"github.com/thelolagemann/gochip8/internal/ram"
	"github.com/thelolagemann/gochip8/internal/types"
)

// Kind classifies a fatal execution error.
type Kind int

const (
	// InvalidOpcode is an instruction word that matches no opcode.
	InvalidOpcode Kind = iota
	// StackUnderflow is a return with an empty call stack.
	StackUnderflow
	// StackOverflow is a call with types.StackDepth calls already nested.
	StackOverflow
	// OutOfBounds is an access that leaves the 4KB address space.
	OutOfBounds
)

var (
	ErrInvalidOpcode  = errors.New("invalid opcode")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrOutOfBounds    = ram.ErrOutOfBounds
)

func (k Kind) sentinel() error {
	switch k {
	case InvalidOpcode:
		return ErrInvalidOpcode
	case StackUnderflow:
		return ErrStackUnderflow
	case StackOverflow:
		return ErrStackOverflow
	default:
		return ErrOutOfBounds
	}
}

func (k Kind) String() string {
	return k.sentinel().Error()
}

// Error is a fatal execution error. PC is the address the
// offending instruction was fetched from, and Opcode its raw
// word (0 when the fetch itself failed).
type Error struct {
	Kind    Kind
	PC      uint16
	Opcode  uint16
	Address int
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidOpcode:
		return fmt.Sprintf("invalid opcode 0x%04X at 0x%03X", e.Opcode, e.PC)
	case StackUnderflow:
		return fmt.Sprintf("stack underflow: 0x%04X at 0x%03X returned with an empty call stack", e.Opcode, e.PC)
	case StackOverflow:
		return fmt.Sprintf("stack overflow: 0x%04X at 0x%03X exceeds call depth %d", e.Opcode, e.PC, types.StackDepth)
	default:
		if e.Opcode == 0 {
			return fmt.Sprintf("out of bounds fetching instruction at 0x%03X: %v", e.PC, e.Err)
		}
		return fmt.Sprintf("out of bounds: 0x%04X at 0x%03X: %v", e.Opcode, e.PC, e.Err)
	}
}

// Is reports whether target is the sentinel error of e's Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fault builds an Error for the instruction that was just fetched.
func (c *CPU) fault(kind Kind, instr uint16) error {
	return &Error{Kind: kind, PC: c.PC - 2, Opcode: instr}
}

// boundsFault wraps a memory error for the instruction that was
// just fetched.
func (c *CPU) boundsFault(instr uint16, err error) error {
	e := &Error{Kind: OutOfBounds, PC: c.PC - 2, Opcode: instr, Err: err}
	var be *ram.BoundsError
	if errors.As(err, &be) {
		e.Address = be.Address
	}
	return e
}
