package display

import (
	"flag"
	"github.com/go-test/deep"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display/event"
	"image/color"
	"testing"
)

type nopDriver struct{}

func (nopDriver) Initialize(Emulator) {}
func (nopDriver) Start(<-chan []byte, <-chan event.Event, chan<- keypad.Key, chan<- keypad.Key) error {
	return nil
}
func (nopDriver) Stop() error { return nil }

func TestRegisterFlags(t *testing.T) {
	defer func(d []*InstalledDriver) { InstalledDrivers = d }(InstalledDrivers)
	InstalledDrivers = nil

	var aScale, bScale float64
	var aVsync bool
	Install("b", nopDriver{}, []DriverOption{
		{Name: "scale", Default: 4.0, Value: &bScale, Type: "float"},
	})
	Install("a", nopDriver{}, []DriverOption{
		{Name: "scale", Default: 4.0, Value: &aScale, Type: "float"},
		{Name: "vsync", Default: false, Value: &aVsync, Type: "bool"},
	})

	if diff := deep.Equal(DriverNames(), []string{"a", "b"}); diff != nil {
		t.Error(diff)
	}
	if GetDriver("auto") == nil || GetDriver("a") == nil || GetDriver("missing") != nil {
		t.Errorf("unexpected driver lookup")
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	registerFlags(fs)
	if err := fs.Parse([]string{"-scale", "8", "-a-vsync"}); err != nil {
		t.Fatal(err)
	}

	// shared options apply to every driver, unique ones are prefixed
	if aScale != 8 || bScale != 8 {
		t.Errorf("expected both scales to be 8, got %v and %v", aScale, bScale)
	}
	if !aVsync {
		t.Errorf("expected a-vsync to be set")
	}
}

func TestKeyFor(t *testing.T) {
	tests := map[rune]keypad.Key{
		'1': 0x1, '4': 0xC, 'q': 0x4, 'W': 0x5, 'r': 0xD,
		'a': 0x7, 'f': 0xE, 'z': 0xA, 'x': 0x0, 'v': 0xF,
	}
	for r, want := range tests {
		if k, ok := KeyFor(r); !ok || k != want {
			t.Errorf("%q: expected key %X, got %X (%v)", r, want, k, ok)
		}
	}
	if _, ok := KeyFor('p'); ok {
		t.Errorf("expected p to be unmapped")
	}
	if len(Layout) != types.KeyCount {
		t.Errorf("expected %d mapped keys, got %d", types.KeyCount, len(Layout))
	}
}

func TestPalette_RGB(t *testing.T) {
	p := Palette{Foreground: color.RGBA{R: 1, G: 2, B: 3}, Background: color.RGBA{R: 9, G: 9, B: 9}}
	frame := make([]byte, types.FrameSize)
	frame[0] = 0x80
	frame[types.FrameSize-1] = 0x01

	dst := make([]byte, types.ScreenWidth*types.ScreenHeight*3)
	p.RGB(frame, dst)

	if diff := deep.Equal(dst[:6], []byte{1, 2, 3, 9, 9, 9}); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(dst[len(dst)-3:], []byte{1, 2, 3}); diff != nil {
		t.Error(diff)
	}
}
