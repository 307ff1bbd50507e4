package dmap

import (
	"fmt"
	"log"
	"sync/atomic"
)

// ErrorKind classifies the fatal conditions the map can encounter. All of
// them are non-recoverable at the C source's API level; this package exposes
// them as a typed error AND still invokes the process-wide handler, so a
// caller can choose between "crash like the source does" (the default) and
// "get an error back" (install a handler that returns normally, then use the
// *Err family of operations).
type ErrorKind int

const (
	// ErrAllocation means an allocator call could not satisfy a grow request.
	ErrAllocation ErrorKind = iota
	// ErrKeySizeMismatch means a fixed-key map received a key of the wrong width.
	ErrKeySizeMismatch
	// ErrCapacityExceeded means growing the directory would exceed the int32
	// index space (math.MaxInt32 - 2).
	ErrCapacityExceeded
	// ErrDoubleInit means an already-initialized map handle was initialized again.
	ErrDoubleInit
	// ErrUnsupportedPlatform is retained for parity with the source's
	// virtual-memory allocator; this module has no VM-backed allocator, so
	// this kind is never actually raised.
	ErrUnsupportedPlatform
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAllocation:
		return "allocation failure"
	case ErrKeySizeMismatch:
		return "key size mismatch"
	case ErrCapacityExceeded:
		return "capacity exceeded"
	case ErrDoubleInit:
		return "double init"
	case ErrUnsupportedPlatform:
		return "platform unsupported"
	default:
		return "unknown"
	}
}

// Error is the error value passed to the installed ErrorHandler and returned
// by the *Err family of operations.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("dmap: %s: %s", e.Kind, e.Msg)
}

// ErrorHandler is invoked for every fatal condition the map raises. The
// default handler logs the error and terminates the process, matching the
// source's dmap_default_error_handler. A custom handler that returns
// normally (instead of calling os.Exit/panic) downgrades fatal conditions
// into recoverable ones for the *Err operation family; the non-Err
// operations still have no room in their signature for an error, so they
// fall back to the map's invalid-index sentinel in that case.
type ErrorHandler func(err *Error)

var errorHandler atomic.Pointer[ErrorHandler]

func init() {
	h := ErrorHandler(defaultErrorHandler)
	errorHandler.Store(&h)
}

func defaultErrorHandler(err *Error) {
	log.Fatalf("%s", err.Error())
}

// SetErrorHandler installs a process-wide handler for fatal map conditions,
// matching the source's dmap_set_error_handler. Passing nil restores the
// default (fatal) handler.
func SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = defaultErrorHandler
	}
	errorHandler.Store(&h)
}

// raise builds the error, invokes the installed handler, and returns the
// error so the *Err operation family can propagate it. If the installed
// handler terminates the process (the default), this never returns.
func raise(kind ErrorKind, format string, args ...any) *Error {
	err := &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	h := *errorHandler.Load()
	h(err)
	return err
}
