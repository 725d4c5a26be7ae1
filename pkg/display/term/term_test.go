package term

import (
	"github.com/go-test/deep"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display"
	"image/color"
	"strings"
	"testing"
	"time"
)

func TestRender(t *testing.T) {
	p := display.Palette{Foreground: color.RGBA{R: 255, G: 255, B: 255}, Background: color.RGBA{}}
	frame := make([]byte, types.FrameSize)
	frame[0] = 0x80 // (0, 0) set, (0, 1) clear

	out := render(frame, p)
	if !strings.HasPrefix(out, cursorHome) {
		t.Errorf("expected output to start at the cursor home")
	}
	if n := strings.Count(out, upperHalf); n != types.ScreenWidth*types.ScreenHeight/2 {
		t.Errorf("expected %d cells, got %d", types.ScreenWidth*types.ScreenHeight/2, n)
	}
	if n := strings.Count(out, "\r\n"); n != types.ScreenHeight/2 {
		t.Errorf("expected %d lines, got %d", types.ScreenHeight/2, n)
	}

	first := cursorHome + fgColour(p.Foreground) + bgColour(p.Background) + upperHalf + fgColour(p.Background) + upperHalf
	if !strings.HasPrefix(out, first) {
		t.Errorf("unexpected first cells %q", out[:len(first)])
	}
}

func TestHeldKeys(t *testing.T) {
	h := newHeldKeys(100 * time.Millisecond)
	start := time.Unix(0, 0)

	if !h.press(0x5, start) {
		t.Errorf("expected first press to be new")
	}
	if h.press(0x5, start.Add(50*time.Millisecond)) {
		t.Errorf("expected repeated press to extend the hold")
	}
	h.press(0x1, start.Add(60*time.Millisecond))

	if keys := h.expire(start.Add(120 * time.Millisecond)); len(keys) != 0 {
		t.Errorf("expected no releases, got %v", keys)
	}
	if diff := deep.Equal(h.expire(start.Add(160*time.Millisecond)), []keypad.Key{0x1, 0x5}); diff != nil {
		t.Error(diff)
	}
	if !h.press(0x5, start.Add(200*time.Millisecond)) {
		t.Errorf("expected press after release to be new")
	}
}
