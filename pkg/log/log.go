package log

import (
	"fmt"
	"os"
	"time"
)

// Logger is the logging interface used throughout the
// interpreter. Components receive a Logger through their
// options rather than logging to a global.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	debug bool
}

// New returns a Logger that writes level tagged lines to
// stdout. Debug lines are dropped.
func New() Logger {
	return &logger{}
}

// NewDebug returns a Logger that also writes debug lines.
func NewDebug() Logger {
	return &logger{debug: true}
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.printf("INFO", format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.printf("ERROR", format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.printf("DEBUG", format, args...)
}

func (l *logger) printf(level, format string, args ...interface{}) {
	fmt.Printf("%s [%s]\t"+format+"\n", append([]interface{}{time.Now().Format("15:04:05.000"), level}, args...)...)
}

// Fatal prints the message to stderr and exits the process with
// a non-zero status.
func Fatal(str string) {
	fmt.Fprintf(os.Stderr, "[FATAL]\t%s\n", str)
	os.Exit(1)
}
