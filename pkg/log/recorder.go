package log

import (
	"fmt"
	"sync"
)

// Recorder is a Logger that keeps every line in memory. It is
// used by tests to assert on what a component logged.
type Recorder struct {
	mu    sync.Mutex
	Lines []string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Infof(format string, args ...interface{}) {
	r.add("INFO", format, args...)
}

func (r *Recorder) Errorf(format string, args ...interface{}) {
	r.add("ERROR", format, args...)
}

func (r *Recorder) Debugf(format string, args ...interface{}) {
	r.add("DEBUG", format, args...)
}

func (r *Recorder) add(level, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, fmt.Sprintf("[%s] "+format, append([]interface{}{level}, args...)...))
}

// Snapshot returns a copy of the recorded lines.
func (r *Recorder) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Lines...)
}
