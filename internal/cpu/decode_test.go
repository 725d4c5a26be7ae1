package cpu

import (
	"errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"testing"
)

func TestInstruction_Skip(t *testing.T) {
	tests := []struct {
		name   string
		instr  uint16
		vx, vy uint8
		skip   bool
	}{
		{"SE nn taken", 0x3142, 0x42, 0, true},
		{"SE nn not taken", 0x3142, 0x41, 0, false},
		{"SNE nn taken", 0x4142, 0x41, 0, true},
		{"SNE nn not taken", 0x4142, 0x42, 0, false},
		{"SE Vy taken", 0x5120, 0x07, 0x07, true},
		{"SE Vy not taken", 0x5120, 0x07, 0x08, false},
		{"SNE Vy taken", 0x9120, 0x07, 0x08, true},
		{"SNE Vy not taken", 0x9120, 0x07, 0x07, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCPU(t, types.Classic, tt.instr)
			c.V[1], c.V[2] = tt.vx, tt.vy
			run(t, c, 1)

			want := uint16(0x202)
			if tt.skip {
				want = 0x204
			}
			if c.PC != want {
				t.Errorf("expected PC 0x%03X, got 0x%03X", want, c.PC)
			}
		})
	}
}

func TestInstruction_Load(t *testing.T) {
	c := newTestCPU(t, types.Classic, 0x6A7F, 0xA9AB)
	run(t, c, 2)
	if c.V[0xA] != 0x7F {
		t.Errorf("expected VA 0x7F, got 0x%02X", c.V[0xA])
	}
	if c.I != 0x9AB {
		t.Errorf("expected I 0x9AB, got 0x%03X", c.I)
	}
}

func TestInstruction_JumpCallReturn(t *testing.T) {
	// 200: CALL 208
	// 202: JP 20C
	// 208: RET
	c := newTestCPU(t, types.Classic, 0x2208, 0x120C, 0x0000, 0x0000, 0x00EE)

	run(t, c, 1)
	if c.PC != 0x208 {
		t.Fatalf("expected call to jump to 0x208, got 0x%03X", c.PC)
	}
	if diff := deep.Equal(c.Stack(), []uint16{0x202}); diff != nil {
		t.Errorf("unexpected stack: %v", diff)
	}

	run(t, c, 1)
	if c.PC != 0x202 {
		t.Fatalf("expected return to 0x202, got 0x%03X", c.PC)
	}
	if len(c.Stack()) != 0 {
		t.Errorf("expected empty stack after return")
	}

	run(t, c, 1)
	if c.PC != 0x20C {
		t.Errorf("expected jump to 0x20C, got 0x%03X", c.PC)
	}
}

func TestInstruction_JumpOffset(t *testing.T) {
	t.Run("classic", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xB300)
		c.V[0], c.V[3] = 0x10, 0x20
		run(t, c, 1)
		if c.PC != 0x310 {
			t.Errorf("expected PC nnn+V0 = 0x310, got 0x%03X", c.PC)
		}
	})
	t.Run("super", func(t *testing.T) {
		c := newTestCPU(t, types.Super, 0xB340)
		c.V[0], c.V[3] = 0x10, 0x20
		run(t, c, 1)
		if c.PC != 0x060 {
			t.Errorf("expected PC nn+V3 = 0x060, got 0x%03X", c.PC)
		}
	})
	t.Run("past end of memory", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xBFFF)
		c.V[0] = 0xFF
		run(t, c, 1)
		if c.PC != 0x10FE {
			t.Fatalf("expected unmasked PC 0x10FE, got 0x%04X", c.PC)
		}
		if err := c.Step(); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("expected the next fetch to fail out of bounds, got %v", err)
		}
	})
}

func TestInstruction_Random(t *testing.T) {
	c := newTestCPU(t, types.Classic)
	for i := 0; i < 64; i++ {
		c.PC = 0x202
		if err := c.Execute(0xC50F); err != nil {
			t.Fatal(err)
		}
		if c.V[5]&0xF0 != 0 {
			t.Fatalf("expected random byte to be masked by 0x0F, got 0x%02X", c.V[5])
		}
	}
	if err := c.Execute(0xC500); err != nil {
		t.Fatal(err)
	}
	if c.V[5] != 0 {
		t.Errorf("expected mask 0 to give 0, got 0x%02X", c.V[5])
	}
}

func TestInstruction_Draw(t *testing.T) {
	t.Run("onto clear screen", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xA300, 0xD121)
		_ = c.mem.Write(0x300, 0xFF)
		c.V[1], c.V[2] = 8, 4
		c.V[0xF] = 0xAA
		run(t, c, 2)

		if c.V[0xF] != 0 {
			t.Errorf("expected VF 0, got 0x%02X", c.V[0xF])
		}
		for x := 0; x < 64; x++ {
			if on := c.fb.Get(x, 4); on != (x >= 8 && x < 16) {
				t.Errorf("pixel (%d,4): unexpected state %v", x, on)
			}
		}
		if !c.Drawn() {
			t.Errorf("expected the draw to flag a display change")
		}
	})
	t.Run("overlapping sprites", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xA300, 0xD121, 0xD121)
		_ = c.mem.Write(0x300, 0xFF)
		c.V[1], c.V[2] = 8, 4
		run(t, c, 3)

		if c.V[0xF] != 1 {
			t.Errorf("expected VF 1 on collision, got 0x%02X", c.V[0xF])
		}
		for x := 8; x < 16; x++ {
			if c.fb.Get(x, 4) {
				t.Errorf("pixel (%d,4) expected cleared", x)
			}
		}
	})
	t.Run("font glyph", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xF029, 0xD015)
		c.V[0] = 0x0
		run(t, c, 2)
		// the glyph for 0 is a 4x5 box
		for y := 0; y < 5; y++ {
			edge := y == 0 || y == 4
			for x := 0; x < 4; x++ {
				want := edge || x == 0 || x == 3
				if c.fb.Get(x, y) != want {
					t.Errorf("pixel (%d,%d): expected %v", x, y, want)
				}
			}
		}
	})
	// Sprites are clipped at the screen edges, never wrapped.
	t.Run("clipped at edges", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xA300, 0xD122)
		_ = c.mem.WriteSlice(0x300, []byte{0xFF, 0xFF})
		c.V[1], c.V[2] = 60, 31
		run(t, c, 2)
		for x := 0; x < 4; x++ {
			if c.fb.Get(x, 31) || c.fb.Get(x, 0) {
				t.Errorf("sprite wrapped to column %d", x)
			}
		}
		for x := 60; x < 64; x++ {
			if !c.fb.Get(x, 31) {
				t.Errorf("pixel (%d,31) expected on", x)
			}
		}
	})
	t.Run("coordinates wrap", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xA300, 0xD121)
		_ = c.mem.Write(0x300, 0x80)
		c.V[1], c.V[2] = 64+5, 32+6
		run(t, c, 2)
		if !c.fb.Get(5, 6) {
			t.Errorf("expected origin reduced modulo screen size")
		}
	})
	t.Run("flag register as coordinate", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xA300, 0xDFF1)
		_ = c.mem.Write(0x300, 0x80)
		c.V[0xF] = 9
		run(t, c, 2)
		if !c.fb.Get(9, 9) {
			t.Errorf("expected VF to be read before it is cleared")
		}
	})
	t.Run("sprite out of bounds", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0xAFFE, 0xD013)
		c.V[0xF] = 0xAA
		run(t, c, 1)
		err := c.Step()
		if !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds, got %v", err)
		}
		var e *Error
		if errors.As(err, &e) && (e.Address != 0xFFE || e.Opcode != 0xD013 || e.PC != 0x202) {
			t.Errorf("unexpected error contents %s", spew.Sdump(e))
		}
		if c.V[0xF] != 0xAA || c.Drawn() {
			t.Errorf("expected a failed draw to leave state untouched")
		}
	})
}

func TestInstruction_Clear(t *testing.T) {
	c := newTestCPU(t, types.Classic, 0x00E0)
	c.fb.Set(10, 10, true)
	run(t, c, 1)
	if c.fb.Get(10, 10) {
		t.Errorf("expected framebuffer to be cleared")
	}
	if !c.Drawn() {
		t.Errorf("expected clear to flag a display change")
	}
	c.ClearDrawn()
	if c.Drawn() {
		t.Errorf("expected ClearDrawn to reset the flag")
	}
}

func TestInstruction_Keys(t *testing.T) {
	tests := []struct {
		instr uint16
		held  bool
		skip  bool
	}{
		{0xE19E, true, true},
		{0xE19E, false, false},
		{0xE1A1, true, false},
		{0xE1A1, false, true},
	}
	for _, tt := range tests {
		c := newTestCPU(t, types.Classic, tt.instr)
		c.V[1] = keypad.KeyB
		if tt.held {
			c.keys.Press(keypad.KeyB)
		}
		c.keys.Press(keypad.Key2)
		run(t, c, 1)

		want := uint16(0x202)
		if tt.skip {
			want = 0x204
		}
		if c.PC != want {
			t.Errorf("%04X held=%v: expected PC 0x%03X, got 0x%03X", tt.instr, tt.held, want, c.PC)
		}
	}
}

func TestInstruction_WaitKey(t *testing.T) {
	c := newTestCPU(t, types.Classic, 0xF30A)
	for i := 0; i < 10; i++ {
		run(t, c, 1)
		if c.PC != 0x200 {
			t.Fatalf("step %d: expected PC to stay at 0x200 while no key is held, got 0x%03X", i, c.PC)
		}
	}

	c.keys.Press(keypad.Key9)
	c.keys.Press(keypad.Key7)
	run(t, c, 1)
	if c.PC != 0x202 {
		t.Errorf("expected PC to advance once a key is held, got 0x%03X", c.PC)
	}
	if c.V[3] != keypad.Key7 {
		t.Errorf("expected lowest held key 7, got 0x%X", c.V[3])
	}
}

func TestInstruction_Timers(t *testing.T) {
	c := newTestCPU(t, types.Classic, 0x6133, 0xF115, 0x6244, 0xF218, 0xF307)
	run(t, c, 4)
	if c.timer.Delay() != 0x33 || c.timer.Sound() != 0x44 {
		t.Fatalf("expected delay 0x33 and sound 0x44, got 0x%02X 0x%02X", c.timer.Delay(), c.timer.Sound())
	}
	c.timer.Tick()
	run(t, c, 1)
	if c.V[3] != 0x32 {
		t.Errorf("expected V3 to read the delay timer 0x32, got 0x%02X", c.V[3])
	}
}

func TestInstruction_Index(t *testing.T) {
	c := newTestCPU(t, types.Classic, 0xA100, 0x61FF, 0xF11E)
	c.V[0xF] = 0xAA
	run(t, c, 3)
	if c.I != 0x1FF {
		t.Errorf("expected I 0x1FF, got 0x%03X", c.I)
	}
	if c.V[0xF] != 0xAA {
		t.Errorf("expected VF untouched, got 0x%02X", c.V[0xF])
	}

	c = newTestCPU(t, types.Classic, 0xF629)
	c.V[6] = 0xB
	run(t, c, 1)
	if c.I != 0x50+0xB*5 {
		t.Errorf("expected glyph address 0x087, got 0x%03X", c.I)
	}
}

func TestInstruction_BCD(t *testing.T) {
	for _, v := range []uint8{0, 7, 42, 100, 199, 255} {
		c := newTestCPU(t, types.Classic, 0xA400, 0xF533)
		c.V[5] = v
		run(t, c, 2)
		got, _ := c.mem.Slice(0x400, 3)
		want := []byte{v / 100, v / 10 % 10, v % 10}
		if diff := deep.Equal(got, want); diff != nil {
			t.Errorf("BCD of %d: %v", v, diff)
		}
	}
}

func TestInstruction_StoreLoadRegisters(t *testing.T) {
	c := newTestCPU(t, types.Classic, 0xA500, 0xF355, 0xF365)
	c.V = [16]uint8{0x11, 0x22, 0x33, 0x44, 0x55}
	run(t, c, 2)

	stored, _ := c.mem.Slice(0x500, 5)
	if diff := deep.Equal(stored, []byte{0x11, 0x22, 0x33, 0x44, 0x00}); diff != nil {
		t.Errorf("expected V0..V3 inclusive to be stored: %v", diff)
	}
	if c.I != 0x500 {
		t.Errorf("expected I to be unchanged, got 0x%03X", c.I)
	}

	c.V = [16]uint8{}
	c.V[4] = 0x99
	run(t, c, 1)
	if diff := deep.Equal(c.V[:5], []uint8{0x11, 0x22, 0x33, 0x44, 0x99}); diff != nil {
		t.Errorf("expected V0..V3 restored and V4 untouched: %v", diff)
	}
}

func TestInstruction_StoreLoadOutOfBounds(t *testing.T) {
	for _, instr := range []uint16{0xFF55, 0xFF65, 0xF233} {
		c := newTestCPU(t, types.Classic, instr)
		c.I = 0xFFE
		if err := c.Step(); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%04X: expected ErrOutOfBounds, got %v", instr, err)
		}
	}
}

func TestInstruction_Invalid(t *testing.T) {
	for _, instr := range []uint16{0x0000, 0x0123, 0x00E1, 0x5121, 0x9123, 0x8128, 0x812F, 0xE100, 0xF1FF, 0xF100} {
		c := newTestCPU(t, types.Classic, 0x6000, instr)
		run(t, c, 1)
		err := c.Step()
		if !errors.Is(err, ErrInvalidOpcode) {
			t.Errorf("%04X: expected ErrInvalidOpcode, got %v", instr, err)
			continue
		}
		var e *Error
		if !errors.As(err, &e) || e.Opcode != instr || e.PC != 0x202 {
			t.Errorf("%04X: expected error to carry opcode and PC, got %s", instr, spew.Sdump(e))
		}
	}
}

func TestInstruction_Stack(t *testing.T) {
	t.Run("underflow", func(t *testing.T) {
		c := newTestCPU(t, types.Classic, 0x00EE)
		err := c.Step()
		if !errors.Is(err, ErrStackUnderflow) {
			t.Fatalf("expected ErrStackUnderflow, got %v", err)
		}
	})
	t.Run("overflow", func(t *testing.T) {
		// 200: CALL 200, recursing forever
		c := newTestCPU(t, types.Classic, 0x2200)
		run(t, c, types.StackDepth)
		if len(c.Stack()) != types.StackDepth {
			t.Fatalf("expected %d nested calls, got %d", types.StackDepth, len(c.Stack()))
		}
		err := c.Step()
		if !errors.Is(err, ErrStackOverflow) {
			t.Fatalf("expected ErrStackOverflow, got %v", err)
		}
		if len(c.Stack()) != types.StackDepth {
			t.Errorf("expected the failed call to leave the stack untouched")
		}
	})
}
