// Package chip8 composes the CHIP-8 components into a runnable
// machine, and drives it against the wall clock.
package chip8

import (
	"fmt"
	"github.com/thelolagemann/gochip8/internal/cpu"
	"github.com/thelolagemann/gochip8/internal/framebuffer"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/ram"
	"github.com/thelolagemann/gochip8/internal/timer"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display/event"
	"github.com/thelolagemann/gochip8/pkg/emulator"
	"github.com/thelolagemann/gochip8/pkg/log"
	"math/rand"
	"sync"
	"time"
)

const (
	// FrameTime is the interval at which the run loop advances
	// the machine and publishes frames.
	FrameTime = time.Second / types.TimerFrequency
	// maxElapsed bounds how much wall clock time a single
	// advance may catch up on, after the process was stalled.
	maxElapsed = time.Millisecond * 250
	// historySize is how many per second samples Performance keeps.
	historySize = 60
)

// Machine represents a CHIP-8 machine. It contains all the
// components of the machine and is the main entry point for
// the interpreter.
type Machine struct {
	CPU         *cpu.CPU
	RAM         *ram.RAM
	Framebuffer *framebuffer.Framebuffer
	Timer       *timer.Controller
	Keypad      *keypad.State

	log.Logger

	program []byte
	mode    types.Mode
	debug   bool
	seed    int64

	clockSpeed float64
	speed      float64

	// wall clock accounting since the last rate change
	span      time.Duration
	spanSteps uint64
	spanTicks uint64

	instructions uint64
	beeping      bool

	// instructions executed in each of the last historySize seconds
	history []float64

	mu     sync.Mutex
	status emulator.Status
	done   chan struct{}
	cmds   chan emulator.CommandPacket
	resp   chan emulator.ResponsePacket
}

// New returns a new Machine with the program loaded at 0x200.
// An error is returned if the program does not fit in memory.
func New(program []byte, opts ...Opt) (*Machine, error) {
	m := &Machine{
		Logger:     log.NewNullLogger(),
		mode:       types.Classic,
		seed:       time.Now().UnixNano(),
		clockSpeed: types.DefaultClockSpeed,
		speed:      1,
		status:     emulator.Halted,
		cmds:       make(chan emulator.CommandPacket),
		resp:       make(chan emulator.ResponsePacket),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.RAM = ram.NewRAM()
	if err := m.RAM.Load(program); err != nil {
		return nil, err
	}
	m.program = append([]byte(nil), program...)

	m.Framebuffer = framebuffer.New()
	m.Timer = timer.NewController()
	m.Keypad = keypad.New()
	m.CPU = cpu.NewCPU(m.RAM, m.Framebuffer, m.Timer, m.Keypad, m.mode, rand.New(rand.NewSource(m.seed)))
	m.CPU.Debug = m.debug
	m.CPU.Logger = m.Logger

	return m, nil
}

// Mode returns the quirk mode the machine was created with.
func (m *Machine) Mode() types.Mode {
	return m.mode
}

// Instructions returns the number of instructions executed
// since the machine was created or last reset.
func (m *Machine) Instructions() uint64 {
	return m.instructions
}

// Step executes a single instruction.
func (m *Machine) Step() error {
	if err := m.CPU.Step(); err != nil {
		return err
	}
	m.instructions++
	return nil
}

// TickTimers decrements the delay and sound timers once.
func (m *Machine) TickTimers() {
	m.Timer.Tick()
}

// Advance runs the machine for the given amount of wall clock
// time, executing clockSpeed*speed instructions and 60 timer
// ticks per second. Timer ticks are spread evenly between the
// instructions. Fractions left over are carried to the next
// call. The first instruction error stops the advance.
func (m *Machine) Advance(elapsed time.Duration) error {
	if elapsed <= 0 {
		return nil
	}
	m.span += elapsed

	wantSteps := uint64(float64(m.span) * m.clockSpeed * m.speed / float64(time.Second))
	wantTicks := uint64(m.span) * types.TimerFrequency / uint64(time.Second)

	steps := wantSteps - m.spanSteps
	ticks := wantTicks - m.spanTicks

	var done uint64
	for i := uint64(0); i < steps; i++ {
		if err := m.Step(); err != nil {
			return err
		}
		m.spanSteps++
		for done < (i+1)*ticks/steps {
			m.TickTimers()
			m.spanTicks++
			done++
		}
	}
	for ; done < ticks; done++ {
		m.TickTimers()
		m.spanTicks++
	}

	return nil
}

// SetSpeed changes the speed multiplier. The wall clock
// accounting restarts so that the new rate applies only from
// now on.
func (m *Machine) SetSpeed(multiplier float64) {
	if multiplier <= 0 {
		return
	}
	m.mu.Lock()
	m.speed = multiplier
	m.mu.Unlock()
	m.rebase()
}

// Speed returns the current speed multiplier.
func (m *Machine) Speed() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speed
}

func (m *Machine) rebase() {
	m.span, m.spanSteps, m.spanTicks = 0, 0, 0
}

// Reset returns the machine to its power on state and reloads
// the program it was created with.
func (m *Machine) Reset() {
	m.RAM.Reset()
	// the program already fit once, so this cannot fail
	_ = m.RAM.Load(m.program)
	m.Framebuffer.Clear()
	m.Timer.Reset()
	m.Keypad.Reset()
	m.CPU.Reset()
	m.instructions = 0
	m.beeping = false
	m.rebase()
}

// Frame returns a copy of the packed framebuffer.
func (m *Machine) Frame() []byte {
	return m.Framebuffer.Bytes()
}

// Status returns the status of the machine.
func (m *Machine) Status() emulator.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Machine) setStatus(s emulator.Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// SendCommand sends a command packet to the machine. While the
// run loop is active the command is handled between
// instructions, otherwise it is handled immediately.
func (m *Machine) SendCommand(command emulator.CommandPacket) emulator.ResponsePacket {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done != nil {
		select {
		case m.cmds <- command:
			return <-m.resp
		case <-done:
		}
	}

	resp, _ := m.handle(command)
	return resp
}

// handle applies a command, reporting whether the run loop
// should stop.
func (m *Machine) handle(command emulator.CommandPacket) (emulator.ResponsePacket, bool) {
	resp := emulator.ResponsePacket{Command: command.Command}
	switch command.Command {
	case emulator.CommandPause:
		if m.Status().IsRunning() {
			m.setStatus(emulator.Paused)
		}
	case emulator.CommandResume:
		if m.Status().IsPaused() {
			m.setStatus(emulator.Running)
		}
	case emulator.CommandReset:
		m.Reset()
		m.Logger.Infof("machine reset")
	case emulator.CommandClose:
		return resp, true
	case emulator.CommandSetSpeed:
		speed, ok := command.Speed()
		if !ok || speed <= 0 {
			resp.Error = fmt.Errorf("invalid speed packet %v", command.Data)
			break
		}
		m.SetSpeed(speed)
	default:
		resp.Error = emulator.ErrUnknownCommand
	}

	return resp, false
}

// Start runs the machine until it is closed or an instruction
// fails. Completed frames are sent on fb, and title and beep
// notifications on events. Keys received on pressed and
// released are applied between instructions.
func (m *Machine) Start(fb chan<- []byte, events chan<- event.Event, pressed, released <-chan keypad.Key) error {
	m.Logger.Infof("starting %s machine at %.0f instructions per second", m.mode, m.clockSpeed*m.speed)
	done := make(chan struct{})
	m.mu.Lock()
	m.status = emulator.Running
	m.done = done
	m.mu.Unlock()
	defer close(done)

	// draw the initial blank screen
	m.CPU.ClearDrawn()
	send(fb, m.Frame())

	ticker := time.NewTicker(FrameTime)
	defer ticker.Stop()

	last := time.Now()
	titleAt := last
	var executed uint64

	for {
		select {
		case k := <-pressed:
			m.Keypad.Press(k)
		case k := <-released:
			m.Keypad.Release(k)
		case c := <-m.cmds:
			resp, stop := m.handle(c)
			m.resp <- resp
			if stop {
				m.setStatus(emulator.Halted)
				m.Logger.Infof("machine closed")
				notify(events, event.Event{Type: event.Quit})
				return nil
			}
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if !m.Status().IsRunning() {
				continue
			}
			if elapsed > maxElapsed {
				elapsed = maxElapsed
			}

			before := m.instructions
			err := m.Advance(elapsed)
			executed += m.instructions - before
			m.publish(fb, events)
			if err != nil {
				m.setStatus(emulator.Errored)
				m.Logger.Errorf("machine stopped: %v", err)
				notify(events, event.Event{Type: event.Quit, Data: err})
				return err
			}

			if now.Sub(titleAt) >= time.Second {
				notify(events, event.Event{Type: event.Title, Data: fmt.Sprintf("gochip8 | %s | IPS: %d", m.mode, executed)})
				m.record(float64(executed))
				executed = 0
				titleAt = now
			}
		}
	}
}

func (m *Machine) record(ips float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == historySize {
		m.history = append(m.history[:0], m.history[1:]...)
	}
	m.history = append(m.history, ips)
}

// Performance returns the instructions executed per second over
// the last minute of running, oldest first.
func (m *Machine) Performance() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.history...)
}

// publish sends the framebuffer if it changed, and a beep event
// if the sound timer started or stopped.
func (m *Machine) publish(fb chan<- []byte, events chan<- event.Event) {
	if m.CPU.Drawn() && send(fb, m.Frame()) {
		m.CPU.ClearDrawn()
	}

	if beeping := m.Timer.Beeping(); beeping != m.beeping {
		m.beeping = beeping
		notify(events, event.Event{Type: event.Beep, Data: beeping})
	}
}

// send offers a frame without blocking the run loop. A frame
// that could not be delivered is retried on the next tick.
func send(fb chan<- []byte, frame []byte) bool {
	if fb == nil {
		return true
	}
	select {
	case fb <- frame:
		return true
	default:
		return false
	}
}

func notify(events chan<- event.Event, e event.Event) {
	if events == nil {
		return
	}
	select {
	case events <- e:
	default:
	}
}
