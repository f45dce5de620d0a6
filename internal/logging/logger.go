// Package logging provides the leveled logger the rest of the codebase codes
// against, plus a stdlib-backed default and a no-op logger for tests.
package logging

import (
	"log"
	"os"
)

// Logger is the logging surface used across the session and world packages.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// StdLogger writes leveled lines through the standard log package.
type StdLogger struct {
	l       *log.Logger
	prefix  string
	verbose bool
}

// NewStdLogger returns a logger writing to stderr. When verbose is false,
// Debug lines are dropped.
func NewStdLogger(prefix string, verbose bool) *StdLogger {
	return &StdLogger{
		l:       log.New(os.Stderr, "", log.LstdFlags),
		prefix:  prefix,
		verbose: verbose,
	}
}

func (s *StdLogger) Debug(format string, v ...interface{}) {
	if !s.verbose {
		return
	}
	s.l.Printf("[DEBUG] "+s.prefix+": "+format, v...)
}

func (s *StdLogger) Info(format string, v ...interface{}) {
	s.l.Printf("[INFO] "+s.prefix+": "+format, v...)
}

func (s *StdLogger) Warn(format string, v ...interface{}) {
	s.l.Printf("[WARN] "+s.prefix+": "+format, v...)
}

func (s *StdLogger) Error(format string, v ...interface{}) {
	s.l.Printf("[ERROR] "+s.prefix+": "+format, v...)
}

// Nop discards everything. Tests that only need to satisfy the interface use it.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
