package dmap

import "log"

// Logger receives diagnostic messages about grow/rehash events. It is the
// map's only ambient observability hook; the map itself has no metrics or
// tracing since the core is meant to stay a small, dependency-light
// data structure.
type Logger interface {
	Debugf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}

// StdLogger adapts the standard library *log.Logger to the Logger interface.
type StdLogger struct {
	L *log.Logger
}

func (s StdLogger) Debugf(format string, args ...any) {
	if s.L == nil {
		return
	}
	s.L.Printf(format, args...)
}
