package emulator

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrUnknownCommand is returned in a ResponsePacket when the
// emulator does not understand the command.
var ErrUnknownCommand = errors.New("unknown command")

// CommandPacket is a command packet that is sent to the
// emulator to control it.
type CommandPacket struct {
	Command Command
	Data    []byte
}

// Command is a command that is sent to the emulator to
// control it.
type Command int

// ResponsePacket is a response packet that is sent
// from the emulator to the client.
type ResponsePacket struct {
	Command Command
	Data    []byte
	Error   error
}

const (
	// CommandPause pauses the emulator.
	CommandPause Command = iota
	// CommandResume resumes the emulator.
	CommandResume
	// CommandClose closes the emulator.
	CommandClose
	// CommandReset resets the emulator, reloading the program
	// it was started with.
	CommandReset
	// CommandSetSpeed sets the speed multiplier of the emulator.
	// Data holds the multiplier, see SpeedPacket.
	CommandSetSpeed
)

func (c Command) String() string {
	switch c {
	case CommandPause:
		return "Pause"
	case CommandResume:
		return "Resume"
	case CommandClose:
		return "Close"
	case CommandReset:
		return "Reset"
	case CommandSetSpeed:
		return "SetSpeed"
	default:
		return "Unknown"
	}
}

// SpeedPacket returns a CommandSetSpeed packet for the given
// multiplier, encoded as a little endian float64.
func SpeedPacket(speed float64) CommandPacket {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(speed))
	return CommandPacket{Command: CommandSetSpeed, Data: data}
}

// Speed decodes the multiplier of a CommandSetSpeed packet.
func (c CommandPacket) Speed() (float64, bool) {
	if c.Command != CommandSetSpeed || len(c.Data) != 8 {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(c.Data)), true
}
