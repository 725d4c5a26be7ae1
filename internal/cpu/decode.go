package cpu

import (
	"github.com/thelolagemann/gochip8/internal/ram"
	"github.com/thelolagemann/gochip8/internal/types"
)

// Execute decodes the instruction and applies it. PC is expected
// to already point past the instruction, as it does after Fetch.
func (c *CPU) Execute(instr uint16) error {
	x := uint8(instr >> 8 & 0xF)
	y := uint8(instr >> 4 & 0xF)
	n := uint8(instr & 0xF)
	nn := uint8(instr)
	nnn := instr & types.AddressMask

	switch instr >> 12 {
	case 0x0:
		switch instr {
		case 0x00E0: // CLS
			c.fb.Clear()
			c.drawn = true
		case 0x00EE: // RET
			addr, err := c.pop(instr)
			if err != nil {
				return err
			}
			c.PC = addr
		default:
			return c.fault(InvalidOpcode, instr)
		}
	case 0x1: // JP nnn
		c.PC = nnn
	case 0x2: // CALL nnn
		if err := c.push(instr); err != nil {
			return err
		}
		c.PC = nnn
	case 0x3: // SE Vx, nn
		c.skipIf(c.V[x] == nn)
	case 0x4: // SNE Vx, nn
		c.skipIf(c.V[x] != nn)
	case 0x5: // SE Vx, Vy
		if n != 0 {
			return c.fault(InvalidOpcode, instr)
		}
		c.skipIf(c.V[x] == c.V[y])
	case 0x6: // LD Vx, nn
		c.V[x] = nn
	case 0x7: // ADD Vx, nn
		c.V[x] += nn
	case 0x8:
		return c.alu(instr, x, y, n)
	case 0x9: // SNE Vx, Vy
		if n != 0 {
			return c.fault(InvalidOpcode, instr)
		}
		c.skipIf(c.V[x] != c.V[y])
	case 0xA: // LD I, nnn
		c.I = nnn
	case 0xB: // JP V0, nnn
		if c.mode == types.Super {
			c.PC = uint16(nn) + uint16(c.V[x])
		} else {
			c.PC = nnn + uint16(c.V[0])
		}
	case 0xC: // RND Vx, nn
		c.V[x] = uint8(c.rand.Intn(256)) & nn
	case 0xD: // DRW Vx, Vy, n
		return c.draw(instr, x, y, n)
	case 0xE:
		switch nn {
		case 0x9E: // SKP Vx
			c.skipIf(c.keys.IsHeld(c.V[x]))
		case 0xA1: // SKNP Vx
			c.skipIf(!c.keys.IsHeld(c.V[x]))
		default:
			return c.fault(InvalidOpcode, instr)
		}
	case 0xF:
		return c.misc(instr, x, nn)
	}

	return nil
}

// draw composites the n byte sprite at I onto the framebuffer.
func (c *CPU) draw(instr uint16, x, y, n uint8) error {
	px, py := int(c.V[x]), int(c.V[y])
	sprite, err := c.mem.Slice(c.I, int(n))
	if err != nil {
		return c.boundsFault(instr, err)
	}

	c.V[types.FlagRegister] = 0
	if c.fb.Draw(px, py, sprite) {
		c.V[types.FlagRegister] = 1
	}
	c.drawn = true
	return nil
}

// misc executes the 0xF group, selected by the low byte.
func (c *CPU) misc(instr uint16, x, nn uint8) error {
	switch nn {
	case 0x07: // LD Vx, DT
		c.V[x] = c.timer.Delay()
	case 0x0A: // LD Vx, K
		if k, ok := c.keys.AnyHeld(); ok {
			c.V[x] = k
		} else {
			// present the same instruction again on the next step
			c.PC -= 2
		}
	case 0x15: // LD DT, Vx
		c.timer.SetDelay(c.V[x])
	case 0x18: // LD ST, Vx
		c.timer.SetSound(c.V[x])
	case 0x1E: // ADD I, Vx
		c.I += uint16(c.V[x])
	case 0x29: // LD F, Vx
		c.I = ram.GlyphAddress(c.V[x])
	case 0x33: // LD B, Vx
		v := c.V[x]
		if err := c.mem.WriteSlice(c.I, []byte{v / 100, v / 10 % 10, v % 10}); err != nil {
			return c.boundsFault(instr, err)
		}
	case 0x55: // LD [I], Vx
		if err := c.mem.WriteSlice(c.I, c.V[:x+1]); err != nil {
			return c.boundsFault(instr, err)
		}
	case 0x65: // LD Vx, [I]
		values, err := c.mem.Slice(c.I, int(x)+1)
		if err != nil {
			return c.boundsFault(instr, err)
		}
		copy(c.V[:], values)
	default:
		return c.fault(InvalidOpcode, instr)
	}

	return nil
}
