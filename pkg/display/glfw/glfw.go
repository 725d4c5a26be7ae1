package glfw

import (
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display"
	"github.com/thelolagemann/gochip8/pkg/display/event"
	"runtime"
	"time"
)

const (
	width       = types.ScreenWidth
	height      = types.ScreenHeight
	aspectRatio = float32(width) / float32(height)
)

func init() {
	// GLFW: this is needed to arrange for main to run on main thread
	runtime.LockOSThread()

	// register display driver
	driver := &glfwDriver{}
	display.Install("glfw", driver, []display.DriverOption{
		{
			Name:        "fullscreen",
			Default:     false,
			Value:       &driver.fullscreen,
			Type:        "bool",
			Description: "Run in fullscreen mode",
		},
		{
			Name:        "scale",
			Default:     10.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
		{
			Name:        "maintain-aspect-ratio",
			Default:     false,
			Value:       &driver.maintainAspectRatio,
			Type:        "bool",
			Description: "Force the window to maintain the correct aspect ratio",
		},
	})
}

var (
	mon *glfw.Monitor
)

// glfwDriver implements a barebones display driver using GLFW
// and the OpenGL API. Frames are expanded to RGB and blitted from
// a texture backed framebuffer.
type glfwDriver struct {
	fullscreen          bool
	scale               float64
	maintainAspectRatio bool

	emu display.Emulator

	windowSettings struct {
		width      int
		height     int
		xPos, yPos int
	}
}

func (g *glfwDriver) Initialize(e display.Emulator) {
	g.emu = e
}

// Start starts the display driver.
func (g *glfwDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- keypad.Key) error {
	// initialize GLFW
	if err := glfw.Init(); err != nil {
		return err
	}
	mon = glfw.GetPrimaryMonitor()

	// create window
	window, err := glfw.CreateWindow(int(width*g.scale), int(height*g.scale), "gochip8", nil, nil)
	if err != nil {
		return err
	}

	if g.maintainAspectRatio {
		window.SetAspectRatio(width, height)
	}
	// fullscreen
	if g.fullscreen {
		bestMode := getBestMode()
		window.SetMonitor(mon, 0, 0, bestMode.Width, bestMode.Height, bestMode.RefreshRate)
	}

	window.MakeContextCurrent()

	// initialize OpenGL
	if err := gl.Init(); err != nil {
		return err
	}

	// initialize window settings
	g.windowSettings.width, g.windowSettings.height = window.GetSize()
	g.windowSettings.xPos, g.windowSettings.yPos = window.GetPos()

	var texture uint32
	{
		gl.GenTextures(1, &texture)

		gl.BindTexture(gl.TEXTURE_2D, texture)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)

		gl.BindImageTexture(0, texture, 0, false, 0, gl.WRITE_ONLY, gl.RGB8)
	}

	// setup event handling
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		// printable keys share their ASCII value
		if k, ok := display.KeyFor(rune(key)); ok {
			switch action {
			case glfw.Press:
				pressed <- k
			case glfw.Release:
				released <- k
			}
		}

		if action == glfw.Press {
			switch key {
			case glfw.KeyF11:
				// toggle fullscreen
				if g.fullscreen {
					window.SetMonitor(nil, g.windowSettings.xPos, g.windowSettings.yPos, g.windowSettings.width, g.windowSettings.height, 60)
				} else {
					// store the current window settings
					g.windowSettings.width, g.windowSettings.height = window.GetSize()
					g.windowSettings.xPos, g.windowSettings.yPos = window.GetPos()

					bestMode := getBestMode()
					window.SetMonitor(mon, 0, 0, bestMode.Width, bestMode.Height, bestMode.RefreshRate)
				}

				g.fullscreen = !g.fullscreen
			case glfw.KeyEscape, glfw.KeyPause:
				display.TogglePause(g.emu)
			case glfw.KeyBackspace:
				g.emu.SendCommand(display.Reset)
			}
		}
	})

	var fb uint32
	{
		gl.GenFramebuffers(1, &fb)
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)

		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb)
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	}

	// handle resizing
	targetWidth := int32(width * g.scale)
	targetHeight := int32(height * g.scale)
	var offsetX, offsetY int32
	window.SetSizeCallback(func(_ *glfw.Window, w, h int) {

		if float32(w)/float32(h) > aspectRatio {
			targetWidth = int32(float32(h) * aspectRatio)
			targetHeight = int32(h)
		} else {
			targetWidth = int32(w)
			targetHeight = int32(float32(w) / aspectRatio)
		}

		offsetX = (int32(w) - targetWidth) / 2
		offsetY = (int32(h) - targetHeight) / 2
	})

	rgb := make([]byte, width*height*3)
	pollTicker := time.NewTicker(time.Millisecond * 16) // frames only arrive when the screen changes
	defer pollTicker.Stop()
	// draw loop
	for {
		select {
		case f := <-frames:
			display.Colours.RGB(f, rgb)

			gl.Clear(gl.COLOR_BUFFER_BIT)

			gl.BindTexture(gl.TEXTURE_2D, texture)
			gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8, width, height, 0, gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(rgb))

			gl.BlitFramebuffer(0, 0, width, height, offsetX, offsetY+targetHeight, offsetX+targetWidth, offsetY, gl.COLOR_BUFFER_BIT, gl.NEAREST)

			window.SwapBuffers()
		case e := <-evts:
			switch e.Type {
			case event.Title:
				window.SetTitle(e.Data.(string))
			case event.Quit:
				return nil
			}
		case <-pollTicker.C:
			glfw.PollEvents()
			if window.ShouldClose() {
				return nil
			}
		}
	}

}

// Stop stops the display driver.
func (g *glfwDriver) Stop() error {
	glfw.Terminate()

	return nil
}

// getBestMode returns the best video mode for the current monitor
// by choosing the highest resolution that is the closest match to
// the native aspect ratio of the monitor. This should provide a
// reasonable default for most monitors.
func getBestMode() *glfw.VidMode {
	sizeX, sizeY := mon.GetPhysicalSize()
	monAspectRatio := float32(sizeX) / float32(sizeY)
	closestMatch := float32(0)

	var best *glfw.VidMode
	for _, vm := range mon.GetVideoModes() {
		// skip modes that aren't 60FPS
		if vm.RefreshRate != 60 {
			continue
		}

		// skip modes that have a worse aspect ratio match
		vmAspectRatio := float32(vm.Width) / float32(vm.Height)
		if monAspectRatio-vmAspectRatio > closestMatch {
			continue
		}

		closestMatch = vmAspectRatio - monAspectRatio
		best = vm
	}

	if best == nil {
		return mon.GetVideoMode()
	}
	return best
}
