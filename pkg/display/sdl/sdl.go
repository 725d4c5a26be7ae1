// Package sdl provides a display driver backed by an SDL2 window.
package sdl

import (
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display"
	"github.com/thelolagemann/gochip8/pkg/display/event"
	"github.com/thelolagemann/gochip8/pkg/log"
	"github.com/thelolagemann/gochip8/pkg/utils"
	"github.com/veandco/go-sdl2/sdl"
	"runtime"
	"time"
)

func init() {
	// SDL must be driven from the main thread
	runtime.LockOSThread()

	driver := &sdlDriver{Logger: log.New()}
	display.Install("sdl", driver, []display.DriverOption{
		{
			Name:        "scale",
			Default:     10.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
	})
}

// sdlDriver draws frames onto the surface of an SDL window, one
// filled rectangle per pixel.
type sdlDriver struct {
	scale float64
	emu   display.Emulator
	log.Logger

	last []byte
}

func (s *sdlDriver) Initialize(emu display.Emulator) {
	s.emu = emu
}

// Start opens the window and blocks until it is closed, or the
// emulator quits.
func (s *sdlDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- keypad.Key) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}
	defer sdl.Quit()

	scale := int32(utils.Clamp(1, s.scale, 64))
	window, err := sdl.CreateWindow("gochip8", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		types.ScreenWidth*scale, types.ScreenHeight*scale, sdl.WINDOW_SHOWN)
	if err != nil {
		return err
	}
	defer window.Destroy()

	surface, err := window.GetSurface()
	if err != nil {
		return err
	}
	s.last = make([]byte, types.FrameSize)
	s.render(surface, s.last, scale)
	if err := window.UpdateSurface(); err != nil {
		return err
	}

	poll := time.NewTicker(time.Millisecond * 8)
	defer poll.Stop()

	for {
		select {
		case f := <-frames:
			copy(s.last, f)
			s.render(surface, f, scale)
			if err := window.UpdateSurface(); err != nil {
				return err
			}
		case e := <-evts:
			switch e.Type {
			case event.Title:
				window.SetTitle(e.Data.(string))
			case event.Quit:
				return nil
			}
		case <-poll.C:
			for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
				switch ev := ev.(type) {
				case *sdl.QuitEvent:
					return nil
				case *sdl.KeyboardEvent:
					s.handleKey(ev, pressed, released)
				}
			}
		}
	}
}

func (s *sdlDriver) handleKey(e *sdl.KeyboardEvent, pressed, released chan<- keypad.Key) {
	if e.Repeat != 0 {
		return
	}
	if k, ok := display.KeyFor(rune(e.Keysym.Sym)); ok {
		if e.Type == sdl.KEYDOWN {
			pressed <- k
		} else {
			released <- k
		}
		return
	}
	if e.Type != sdl.KEYDOWN {
		return
	}

	switch e.Keysym.Sym {
	case sdl.K_ESCAPE, sdl.K_PAUSE:
		display.TogglePause(s.emu)
	case sdl.K_BACKSPACE:
		s.emu.SendCommand(display.Reset)
	case sdl.K_F12:
		img := utils.Scale(utils.FrameImage(s.last, display.Colours.Foreground, display.Colours.Background), 8)
		if err := utils.CopyImage(img); err != nil {
			s.Errorf("unable to copy screenshot: %v", err)
		} else {
			s.Infof("copied screenshot to clipboard")
		}
	}
}

func (s *sdlDriver) render(surface *sdl.Surface, frame []byte, scale int32) {
	fg := sdl.MapRGB(surface.Format, display.Colours.Foreground.R, display.Colours.Foreground.G, display.Colours.Foreground.B)
	bg := sdl.MapRGB(surface.Format, display.Colours.Background.R, display.Colours.Background.G, display.Colours.Background.B)

	rect := sdl.Rect{W: scale, H: scale}
	for i := 0; i < types.ScreenWidth*types.ScreenHeight; i++ {
		rect.X = int32(i%types.ScreenWidth) * scale
		rect.Y = int32(i/types.ScreenWidth) * scale
		c := bg
		if utils.PixelAt(frame, i) {
			c = fg
		}
		surface.FillRect(&rect, c)
	}
}

// Stop stops the display driver.
func (s *sdlDriver) Stop() error {
	return nil
}
