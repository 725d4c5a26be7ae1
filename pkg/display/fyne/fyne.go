//go:build !test

// Package fyne provides a display driver built on the Fyne
// toolkit, with menus for controlling the emulator.
package fyne

import (
	"fmt"
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display"
	"github.com/thelolagemann/gochip8/pkg/display/event"
	"github.com/thelolagemann/gochip8/pkg/display/fyne/themes"
	"github.com/thelolagemann/gochip8/pkg/emulator"
	"github.com/thelolagemann/gochip8/pkg/log"
	"github.com/thelolagemann/gochip8/pkg/utils"
	"image"
	"sync"
)

func init() {
	driver := &fyneDriver{Logger: log.New()}
	display.Install("fyne", driver, []display.DriverOption{
		{
			Name:        "scale",
			Default:     10.0,
			Value:       &driver.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
	})
}

var speeds = []float64{0.25, 0.5, 1, 2, 4}

type fyneDriver struct {
	scale float64
	emu   display.Emulator
	log.Logger

	mu     sync.Mutex
	frame  []byte
	img    *image.RGBA
	raster *canvas.Raster
}

func (f *fyneDriver) Initialize(emu display.Emulator) {
	f.emu = emu
}

// Start runs the application and blocks until the window is
// closed, or the emulator quits.
func (f *fyneDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- keypad.Key) error {
	a := app.NewWithID("gochip8")
	a.Settings().SetTheme(themes.Default{})

	window := a.NewWindow("gochip8")
	window.SetMaster()
	window.SetPadded(false)

	// create the image to draw to
	f.frame = make([]byte, types.FrameSize)
	f.img = image.NewRGBA(image.Rect(0, 0, types.ScreenWidth, types.ScreenHeight))
	utils.DrawFrame(f.img, f.frame, display.Colours.Foreground, display.Colours.Background)

	// create the canvas
	f.raster = canvas.NewRasterFromImage(f.img)
	f.raster.ScaleMode = canvas.ImageScalePixels
	f.raster.SetMinSize(fyne.NewSize(types.ScreenWidth, types.ScreenHeight))

	window.SetContent(f.raster)
	window.SetMainMenu(f.mainMenu())
	window.Resize(fyne.NewSize(float32(types.ScreenWidth*f.scale), float32(types.ScreenHeight*f.scale)))

	// handle input
	if desk, ok := window.Canvas().(desktop.Canvas); ok {
		desk.SetOnKeyDown(func(e *fyne.KeyEvent) {
			if k, ok := keyFor(e.Name); ok {
				pressed <- k
			}
		})
		desk.SetOnKeyUp(func(e *fyne.KeyEvent) {
			if k, ok := keyFor(e.Name); ok {
				released <- k
			}
		})
	}
	window.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyEscape:
			display.TogglePause(f.emu)
		case fyne.KeyBackspace:
			f.emu.SendCommand(display.Reset)
		}
	})

	done := make(chan struct{})
	go func() {
		for {
			select {
			case fr := <-frames:
				f.mu.Lock()
				copy(f.frame, fr)
				utils.DrawFrame(f.img, f.frame, display.Colours.Foreground, display.Colours.Background)
				f.mu.Unlock()

				f.raster.Refresh()
			case e := <-evts:
				switch e.Type {
				case event.Title:
					window.SetTitle(e.Data.(string))
				case event.Quit:
					a.Quit()
					return
				}
			case <-done:
				return
			}
		}
	}()

	window.ShowAndRun()
	close(done)

	return nil
}

// keyFor maps a fyne key name onto the keypad. Letter and digit
// key names are their own characters.
func keyFor(name fyne.KeyName) (keypad.Key, bool) {
	if len(name) != 1 {
		return 0, false
	}
	return display.KeyFor(rune(name[0]))
}

// screenshot returns the current frame scaled up 8 times.
func (f *fyneDriver) screenshot() image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return utils.Scale(utils.FrameImage(f.frame, display.Colours.Foreground, display.Colours.Background), 8)
}

func (f *fyneDriver) mainMenu() *fyne.MainMenu {
	// create emulation menu
	emuPause := NewCustomizedMenuItem("Pause", func() {
		display.TogglePause(f.emu)
	}, Checked(false, func() {}))
	emuReset := fyne.NewMenuItem("Reset", func() {
		f.emu.SendCommand(display.Reset)
	})
	emuSpeed := fyne.NewMenuItem("Speed", nil)
	emuSpeed.ChildMenu = fyne.NewMenu("")
	for _, speed := range speeds {
		speed := speed
		emuSpeed.ChildMenu.Items = append(emuSpeed.ChildMenu.Items, NewCustomizedMenuItem(fmt.Sprintf("%gx", speed), func() {
			if resp := f.emu.SendCommand(emulator.SpeedPacket(speed)); resp.Error != nil {
				f.Errorf("unable to set speed: %v", resp.Error)
			}
			for _, item := range emuSpeed.ChildMenu.Items {
				item.Checked = item.Label == fmt.Sprintf("%gx", speed)
			}
		}))
	}
	for _, item := range emuSpeed.ChildMenu.Items {
		item.Checked = item.Label == fmt.Sprintf("%gx", f.emu.Speed())
	}

	emuMenu := fyne.NewMenu("Emulation",
		emuPause,
		emuReset,
		fyne.NewMenuItemSeparator(),
		emuSpeed,
	)

	// create video menu
	videoMenu := fyne.NewMenu("Video",
		fyne.NewMenuItem("Copy Screenshot", func() {
			if err := utils.CopyImage(f.screenshot()); err != nil {
				f.Errorf("unable to copy screenshot: %v", err)
			}
		}),
		fyne.NewMenuItem("Save Screenshot", func() {
			if err := utils.SaveImage(f.screenshot()); err != nil {
				f.Errorf("unable to save screenshot: %v", err)
			}
		}),
	)

	if reporter, ok := f.emu.(display.PerformanceReporter); ok {
		videoMenu.Items = append(videoMenu.Items,
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Save Performance Plot", func() {
				img, err := utils.PlotPerformance(reporter.Performance(), 640, 480)
				if err == nil {
					err = utils.SaveImage(img)
				}
				if err != nil {
					f.Errorf("unable to save performance plot: %v", err)
				}
			}),
		)
	}

	return fyne.NewMainMenu(emuMenu, videoMenu)
}

// Stop stops the display driver.
func (f *fyneDriver) Stop() error {
	return nil
}
