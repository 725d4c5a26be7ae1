package web

import (
	"encoding/binary"
	"github.com/cespare/xxhash"
	"github.com/google/brotli/go/cbrotli"
)

// encoder turns frames into Frame or FrameCache messages.
type encoder struct {
	compression bool
	quality     int
	frames      *cache
}

func newEncoder(compression bool, quality, cacheSize int) *encoder {
	return &encoder{
		compression: compression,
		quality:     quality,
		frames:      newCache(cacheSize),
	}
}

// payload returns the frame as it is sent on the wire.
func (e *encoder) payload(frame []byte) ([]byte, error) {
	if !e.compression {
		return frame, nil
	}
	return cbrotli.Encode(frame, cbrotli.WriterOptions{Quality: e.quality})
}

// encode returns the message for frame. Frames already in the
// cache are sent as their slot.
func (e *encoder) encode(frame []byte) ([]byte, error) {
	hash := xxhash.Sum64(frame)

	e.frames.Lock()
	defer e.frames.Unlock()

	if slot := e.frames.index(hash); slot != -1 {
		msg := []byte{FrameCache, 0, 0}
		binary.LittleEndian.PutUint16(msg[1:], uint16(slot))
		return msg, nil
	}

	output, err := e.payload(frame)
	if err != nil {
		return nil, err
	}

	msg := make([]byte, 3, 3+len(output))
	msg[0] = Frame
	if e.frames.enabled {
		binary.LittleEndian.PutUint16(msg[1:], uint16(e.frames.add(hash, output)))
	}

	return append(msg, output...), nil
}

// flags returns the stream flags for ServerInfo.
func (e *encoder) flags() uint8 {
	var f uint8
	if e.compression {
		f |= flagCompression
	}
	if e.frames.enabled {
		f |= flagCaching
	}
	return f
}
