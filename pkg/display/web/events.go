package web

// Type identifies a message sent from the server to a client.
// The first byte of every message is its Type.
type Type = uint8

const (
	// Frame carries a frame and the cache slot it was stored in:
	// [Frame][slot lo][slot hi][payload...]
	Frame Type = iota
	// FrameCache tells the client to redraw a cached frame:
	// [FrameCache][slot lo][slot hi]
	FrameCache
	// FrameSync carries the current frame to a newly connected
	// client: [FrameSync][payload...]
	FrameSync
	// ServerInfo carries the emulator status, the stream flags
	// and the latency of each client:
	// [ServerInfo][status][flags]([id][latency lo][latency hi])...
	ServerInfo
	// TitleInfo carries the window title as UTF-8.
	TitleInfo
	// BeepInfo carries the sound timer state: [BeepInfo][0|1]
	BeepInfo
	// ClientIdentify tells a client its ID: [ClientIdentify][id]
	ClientIdentify
)

// Event identifies a message sent from a client to the server.
type Event = uint8

const (
	// KeyState presses or releases a key: [KeyState][key][0|1]
	KeyState Event = iota
	// Control sends an emulator command: [Control][command]
	Control
	// KeepAlive is ignored by the server.
	KeepAlive = 254
	// Closing is sent by a client before it disconnects.
	Closing = 255
)

// stream flags carried by ServerInfo
const (
	flagCompression uint8 = 1 << iota
	flagCaching
)
