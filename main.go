package main

import (
	"flag"
	"fmt"
	"github.com/thelolagemann/gochip8/internal/chip8"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display"
	"github.com/thelolagemann/gochip8/pkg/display/event"
	_ "github.com/thelolagemann/gochip8/pkg/display/fyne"
	_ "github.com/thelolagemann/gochip8/pkg/display/glfw"
	_ "github.com/thelolagemann/gochip8/pkg/display/sdl"
	_ "github.com/thelolagemann/gochip8/pkg/display/term"
	_ "github.com/thelolagemann/gochip8/pkg/display/web"
	"github.com/thelolagemann/gochip8/pkg/log"
	"github.com/thelolagemann/gochip8/pkg/utils"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
)

var (
	_ display.Emulator            = &chip8.Machine{}
	_ display.PerformanceReporter = &chip8.Machine{}
)

func main() {
	var logger = log.New()

	if len(display.InstalledDrivers) == 0 {
		log.Fatal("No display drivers installed. Please compile with at least one display driver")
	}

	rate := flag.Float64("rate", types.DefaultClockSpeed, "The number of instructions to execute per second")
	mode := flag.String("mode", "classic", "The quirk mode to run in. Can be classic or super")
	displayDriver := flag.String("driver", "auto", "The display driver to use. Can be auto, "+strings.Join(display.DriverNames(), ", "))
	speed := flag.Float64("speed", 1, "The speed to run the emulator at")
	seed := flag.Int64("seed", 0, "Seed for the random number generator, 0 picks one from the clock")
	debug := flag.Bool("debug", false, "Trace every instruction")
	fg := flag.String("fg", "FFFFFF", "The colour of set pixels, as RRGGBB")
	bg := flag.String("bg", "000000", "The colour of clear pixels, as RRGGBB")
	pprof := flag.String("pprof", "", "Serve pprof on this address, e.g. localhost:6060")
	plotFile := flag.String("plot", "", "Write a plot of instructions per second to this PNG file on exit")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <program>\n", os.Args[0])
		flag.PrintDefaults()
	}
	display.RegisterFlags()
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatal("expected exactly one program file")
	}

	// open the program file
	program, err := utils.LoadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(fmt.Sprintf("unable to load program: %v", err))
	}

	m, ok := types.StringToMode(*mode)
	if !ok {
		log.Fatal(fmt.Sprintf("invalid mode %q", *mode))
	}

	if display.Colours.Foreground, err = utils.ParseColour(*fg); err != nil {
		log.Fatal(err.Error())
	}
	if display.Colours.Background, err = utils.ParseColour(*bg); err != nil {
		log.Fatal(err.Error())
	}

	if *pprof != "" {
		go func() {
			if err := http.ListenAndServe(*pprof, nil); err != nil {
				logger.Errorf("pprof: %v", err)
			}
		}()
	}

	opts := []chip8.Opt{
		chip8.WithMode(m),
		chip8.ClockSpeed(*rate),
		chip8.Speed(*speed),
		chip8.WithLogger(logger),
	}
	if *seed != 0 {
		opts = append(opts, chip8.WithSeed(*seed))
	}
	if *debug {
		opts = append(opts, chip8.WithLogger(log.NewDebug()), chip8.Debug())
	}

	machine, err := chip8.New(program, opts...)
	if err != nil {
		log.Fatal(fmt.Sprintf("unable to load program: %v", err))
	}

	driver := display.GetDriver(*displayDriver)

	// check to make sure the driver is valid
	if driver == nil {
		log.Fatal(fmt.Sprintf("invalid display driver %q, installed drivers: %s", *displayDriver, strings.Join(display.DriverNames(), ", ")))
	}

	// attach machine to driver
	driver.Initialize(machine)

	// create framebuffer
	fb := make(chan []byte, 60)

	// create various channels
	events := make(chan event.Event, 60)
	pressed := make(chan keypad.Key, 10)
	released := make(chan keypad.Key, 10)

	// start machine in a goroutine
	errs := make(chan error, 1)
	go func() {
		errs <- machine.Start(fb, events, pressed, released)
	}()

	if err := driver.Start(fb, events, pressed, released); err != nil {
		log.Fatal(err.Error())
	}

	// the driver has returned, so stop the machine if it is
	// still running
	machine.SendCommand(display.Close)
	if err := driver.Stop(); err != nil {
		logger.Errorf("unable to stop display driver: %v", err)
	}

	err = <-errs
	if *plotFile != "" {
		if err := savePlot(*plotFile, machine); err != nil {
			logger.Errorf("unable to save performance plot: %v", err)
		}
	}
	if err != nil {
		log.Fatal(err.Error())
	}
}

func savePlot(filename string, machine *chip8.Machine) error {
	img, err := utils.PlotPerformance(machine.Performance(), 640, 480)
	if err != nil {
		return err
	}
	return utils.WriteImage(filename, img)
}
