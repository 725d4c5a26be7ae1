package web

import (
	"bytes"
	"github.com/go-test/deep"
	"github.com/google/brotli/go/cbrotli"
	"github.com/gorilla/websocket"
	"github.com/thelolagemann/gochip8/internal/types"
	"github.com/thelolagemann/gochip8/pkg/log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testFrame(b byte) []byte {
	return bytes.Repeat([]byte{b}, types.FrameSize)
}

func TestEncoder_Cache(t *testing.T) {
	enc := newEncoder(false, 0, 2)

	first, err := enc.encode(testFrame(0xAA))
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(first[:3], []byte{Frame, 0, 0}); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(first[3:], testFrame(0xAA)); diff != nil {
		t.Error(diff)
	}

	second, _ := enc.encode(testFrame(0xBB))
	if diff := deep.Equal(second[:3], []byte{Frame, 1, 0}); diff != nil {
		t.Error(diff)
	}

	// a repeated frame is sent as its slot
	again, _ := enc.encode(testFrame(0xAA))
	if diff := deep.Equal(again, []byte{FrameCache, 0, 0}); diff != nil {
		t.Error(diff)
	}

	// the ring evicts the oldest entry
	third, _ := enc.encode(testFrame(0xCC))
	if diff := deep.Equal(third[:3], []byte{Frame, 0, 0}); diff != nil {
		t.Error(diff)
	}
	if msg, _ := enc.encode(testFrame(0xAA)); msg[0] != Frame {
		t.Errorf("expected evicted frame to be resent, got type %d", msg[0])
	}
}

func TestEncoder_NoCache(t *testing.T) {
	enc := newEncoder(false, 0, 0)
	for i := 0; i < 2; i++ {
		msg, err := enc.encode(testFrame(0xAA))
		if err != nil {
			t.Fatal(err)
		}
		if msg[0] != Frame || len(msg) != 3+types.FrameSize {
			t.Errorf("expected full frame, got type %d of %d bytes", msg[0], len(msg))
		}
	}
	if enc.flags() != 0 {
		t.Errorf("expected no flags, got %08b", enc.flags())
	}
}

func TestEncoder_Compression(t *testing.T) {
	enc := newEncoder(true, 7, 4)
	frame := testFrame(0)
	frame[10] = 0x81

	msg, err := enc.encode(frame)
	if err != nil {
		t.Fatal(err)
	}
	got, err := cbrotli.Decode(msg[3:])
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, frame); diff != nil {
		t.Error(diff)
	}
	if enc.flags() != flagCompression|flagCaching {
		t.Errorf("unexpected flags %08b", enc.flags())
	}
}

func read(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestHub(t *testing.T) {
	h := newHub(log.NewNullLogger())
	h.infoEvery = time.Hour
	h.catchUp = func() [][]byte {
		return [][]byte{{FrameSync, 0x01}}
	}
	go h.run()
	defer h.stop()

	srv := httptest.NewServer(h)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if diff := deep.Equal(read(t, conn), []byte{ClientIdentify, 1}); diff != nil {
		t.Error(diff)
	}
	if diff := deep.Equal(read(t, conn), []byte{FrameSync, 0x01}); diff != nil {
		t.Error(diff)
	}

	h.broadcast <- []byte{TitleInfo, 'h', 'i'}
	if diff := deep.Equal(read(t, conn), []byte{TitleInfo, 'h', 'i'}); diff != nil {
		t.Error(diff)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{KeyState, 0x5, 1}); err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-h.input:
		if diff := deep.Equal(msg, []byte{KeyState, 0x5, 1}); diff != nil {
			t.Error(diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for input")
	}
}

func TestWebDriver_HandleInput(t *testing.T) {
	w := &webDriver{Logger: log.NewNullLogger()}
	pressed, released := make(chan uint8, 1), make(chan uint8, 1)

	w.handleInput([]byte{KeyState, 0xA, 1}, pressed, released)
	w.handleInput([]byte{KeyState, 0xB, 0}, pressed, released)
	// out of range keys and short messages are ignored
	w.handleInput([]byte{KeyState, 0x10, 1}, pressed, released)
	w.handleInput([]byte{KeyState}, pressed, released)

	if k := <-pressed; k != 0xA {
		t.Errorf("expected key A pressed, got %X", k)
	}
	if k := <-released; k != 0xB {
		t.Errorf("expected key B released, got %X", k)
	}
	if len(pressed) != 0 || len(released) != 0 {
		t.Errorf("expected ignored messages to not produce keys")
	}
}
