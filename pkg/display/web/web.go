// Package web provides a display driver that streams frames to
// browsers over a websocket, and accepts keypad input from them.
package web

import (
	"context"
	_ "embed"
	"errors"
	"github.com/thelolagemann/gochip8/internal/keypad"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/display"
	"github.com/thelolagemann/gochip8/pkg/display/event"
	"github.com/thelolagemann/gochip8/pkg/emulator"
	"github.com/thelolagemann/gochip8/pkg/log"
	"net/http"
	"sync"
	"time"
)

//go:embed index.html
var index []byte

func init() {
	driver := &webDriver{Logger: log.New()}
	display.Install("web", driver, []display.DriverOption{
		{
			Name:        "addr",
			Default:     ":8090",
			Value:       &driver.addr,
			Type:        "string",
			Description: "Address the web driver listens on",
		},
		{
			Name:        "compression",
			Default:     false,
			Value:       &driver.compression,
			Type:        "bool",
			Description: "Compress frames with brotli",
		},
		{
			Name:        "compression-level",
			Default:     7.0,
			Value:       &driver.quality,
			Type:        "float",
			Description: "Brotli quality, from 0 to 11",
		},
		{
			Name:        "cache",
			Default:     true,
			Value:       &driver.caching,
			Type:        "bool",
			Description: "Send repeated frames as cache references",
		},
	})
}

const cacheSize = 64

type webDriver struct {
	addr        string
	compression bool
	quality     float64
	caching     bool

	emu display.Emulator
	srv *http.Server
	log.Logger

	mu      sync.Mutex
	current []byte
	title   string
	beeping bool
}

func (w *webDriver) Initialize(emu display.Emulator) {
	w.emu = emu
}

// Start serves the stream and blocks until the emulator quits,
// or the server fails.
func (w *webDriver) Start(frames <-chan []byte, evts <-chan event.Event, pressed, released chan<- keypad.Key) error {
	size := 0
	if w.caching {
		size = cacheSize
	}
	enc := newEncoder(w.compression, int(w.quality), size)
	w.current = make([]byte, types.FrameSize)

	h := newHub(w.Logger)
	h.catchUp = func() [][]byte { return w.catchUp(enc) }
	h.info = func() []byte {
		status := emulator.Halted
		if w.emu != nil {
			status = w.emu.Status()
		}
		return []byte{ServerInfo, uint8(status), enc.flags()}
	}
	go h.run()
	defer h.stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/", func(wr http.ResponseWriter, r *http.Request) {
		wr.Header().Set("Content-Type", "text/html; charset=utf-8")
		wr.Write(index)
	})

	w.srv = &http.Server{Addr: w.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errs := make(chan error, 1)
	go func() {
		if err := w.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	defer w.Stop()
	w.Infof("streaming on http://%s", w.addr)

	for {
		select {
		case f := <-frames:
			w.mu.Lock()
			copy(w.current, f)
			w.mu.Unlock()

			msg, err := enc.encode(f)
			if err != nil {
				w.Errorf("unable to encode frame: %v", err)
				continue
			}
			h.broadcast <- msg
		case e := <-evts:
			switch e.Type {
			case event.Quit:
				return nil
			case event.Title:
				w.mu.Lock()
				w.title = e.Data.(string)
				w.mu.Unlock()
				h.broadcast <- append([]byte{TitleInfo}, e.Data.(string)...)
			case event.Beep:
				w.mu.Lock()
				w.beeping = e.Data.(bool)
				w.mu.Unlock()
				h.broadcast <- beepMessage(e.Data.(bool))
			}
		case msg := <-h.input:
			w.handleInput(msg, pressed, released)
		case err := <-errs:
			return err
		}
	}
}

// handleInput applies a message received from a client.
func (w *webDriver) handleInput(msg []byte, pressed, released chan<- keypad.Key) {
	if len(msg) < 2 {
		return
	}
	switch msg[0] {
	case KeyState:
		if len(msg) < 3 || msg[1] > keypad.KeyF {
			return
		}
		if msg[2] == 0 {
			released <- msg[1]
		} else {
			pressed <- msg[1]
		}
	case Control:
		if w.emu == nil {
			return
		}
		switch cmd := emulator.Command(msg[1]); cmd {
		case emulator.CommandPause, emulator.CommandResume, emulator.CommandReset:
			if resp := w.emu.SendCommand(emulator.CommandPacket{Command: cmd}); resp.Error != nil {
				w.Errorf("command %s failed: %v", cmd, resp.Error)
			}
		}
	}
}

// catchUp returns the current frame, title and beep state for a
// newly connected client.
func (w *webDriver) catchUp(enc *encoder) [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()

	frame, err := enc.payload(w.current)
	if err != nil {
		w.Errorf("unable to encode frame: %v", err)
		frame = nil
	}

	msgs := [][]byte{append([]byte{FrameSync}, frame...), beepMessage(w.beeping)}
	if w.title != "" {
		msgs = append(msgs, append([]byte{TitleInfo}, w.title...))
	}
	return msgs
}

func beepMessage(on bool) []byte {
	if on {
		return []byte{BeepInfo, 1}
	}
	return []byte{BeepInfo, 0}
}

// Stop shuts down the web server.
func (w *webDriver) Stop() error {
	if w.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return w.srv.Shutdown(ctx)
}
