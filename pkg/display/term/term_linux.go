//go:build linux

package term

import (
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display"
	"github.com/thelolagemann/gochip8/pkg/display/event"
	"golang.org/x/sys/unix"
	"os"
	"time"
)

func init() {
	driver := &termDriver{}
	display.Install("term", driver, []display.DriverOption{
		{
			Name:        "hold",
			Default:     0.2,
			Value:       &driver.hold,
			Type:        "float",
			Description: "Seconds a key stays held after it is typed, terminals report no key releases",
		},
	})
}

const (
	ctrlC     = 0x03
	backspace = 0x7F
)

// termDriver puts the controlling terminal into raw mode and
// redraws the screen in place.
type termDriver struct {
	hold float64
	emu  display.Emulator

	saved *unix.Termios
}

func (t *termDriver) Initialize(emu display.Emulator) {
	t.emu = emu
}

// Start blocks until Ctrl-C is typed, or the emulator quits.
func (t *termDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- keypad.Key) error {
	fd := int(os.Stdin.Fd())
	if err := t.makeRaw(fd); err != nil {
		return err
	}
	defer t.Stop()

	os.Stdout.WriteString(clearAll + hideCursor)
	os.Stdout.WriteString(render(make([]byte, types.FrameSize), display.Colours))

	input := make(chan byte, 16)
	go readInput(os.Stdin, input)

	held := newHeldKeys(time.Duration(t.hold * float64(time.Second)))
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()

	for {
		select {
		case f := <-frames:
			os.Stdout.WriteString(render(f, display.Colours))
		case e := <-evts:
			switch e.Type {
			case event.Title:
				// set the terminal window title
				os.Stdout.WriteString("\x1b]0;" + e.Data.(string) + "\a")
			case event.Quit:
				return nil
			}
		case c, ok := <-input:
			if !ok {
				return nil
			}
			switch c {
			case ctrlC:
				return nil
			case backspace:
				t.emu.SendCommand(display.Reset)
			case 'p', 'P':
				display.TogglePause(t.emu)
			default:
				if k, ok := display.KeyFor(rune(c)); ok && held.press(k, time.Now()) {
					pressed <- k
				}
			}
		case now := <-ticker.C:
			for _, k := range held.expire(now) {
				released <- k
			}
		}
	}
}

func readInput(f *os.File, input chan<- byte) {
	buf := make([]byte, 16)
	for {
		n, err := f.Read(buf)
		if err != nil {
			close(input)
			return
		}
		for _, c := range buf[:n] {
			input <- c
		}
	}
}

func (t *termDriver) makeRaw(fd int) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	saved := *termios
	t.saved = &saved

	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(fd, unix.TCSETS, termios)
}

// Stop restores the terminal.
func (t *termDriver) Stop() error {
	if t.saved == nil {
		return nil
	}
	os.Stdout.WriteString(reset + showCursor + "\r\n")
	err := unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, t.saved)
	t.saved = nil
	return err
}
