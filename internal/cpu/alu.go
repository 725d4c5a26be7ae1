package cpu

import (
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/bits"
)

// alu executes the 0x8 group, selected by the low nibble. The
// result is always stored before VF, so when x is F the flag
// wins.
func (c *CPU) alu(instr uint16, x, y, n uint8) error {
	vx, vy := c.V[x], c.V[y]

	switch n {
	case 0x0: // LD Vx, Vy
		c.V[x] = vy
	case 0x1: // OR Vx, Vy
		c.V[x] = vx | vy
	case 0x2: // AND Vx, Vy
		c.V[x] = vx & vy
	case 0x3: // XOR Vx, Vy
		c.V[x] = vx ^ vy
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		c.V[x] = uint8(sum)
		c.setFlag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		c.V[x] = vx - vy
		c.setFlag(vx >= vy)
	case 0x6: // SHR Vx
		c.V[x] = vx >> 1
		c.setFlag(bits.Test(vx, 0))
	case 0x7: // SUBN Vx, Vy
		c.V[x] = vy - vx
		c.setFlag(vy >= vx)
	case 0xE: // SHL Vx
		c.V[x] = vx << 1
		c.setFlag(bits.Test(vx, 7))
	default:
		return c.fault(InvalidOpcode, instr)
	}

	return nil
}

func (c *CPU) setFlag(set bool) {
	if set {
		c.V[types.FlagRegister] = 1
	} else {
		c.V[types.FlagRegister] = 0
	}
}
