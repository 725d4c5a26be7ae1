package emulator

// Status represents the status of the emulator's
// CPU. It can be one of the following:
//
//   - Running
//   - Paused
//   - Halted
//   - Errored
type Status int

const (
	// Running represents the status of the
	// CPU when it is running.
	Running Status = iota
	// Paused represents the status of the
	// CPU when it has been paused by a command.
	Paused
	// Halted represents the status of the
	// CPU when it has stopped, or has not been started.
	Halted
	// Errored represents the status of the
	// CPU when it has encountered a fatal error.
	Errored
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Halted:
		return "Halted"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

func (s Status) IsRunning() bool {
	return s == Running
}

func (s Status) IsPaused() bool {
	return s == Paused
}

func (s Status) IsHalted() bool {
	return s == Halted
}

func (s Status) IsErrored() bool {
	return s == Errored
}
