package flowio

import "errors"

var (
	// ErrInvalidArgument covers malformed timeout values and nil handles.
	ErrInvalidArgument = errors.New("flowio: invalid argument")
	// ErrOutOfRange is returned by GetGrain when the requested index has
	// already been overwritten by the writer (it's older than the ring's
	// current retention window).
	ErrOutOfRange = errors.New("flowio: grain index out of range (overwritten)")
	// ErrNotReady is returned by GetGrain when the requested index has
	// not been committed yet.
	ErrNotReady = errors.New("flowio: grain not yet committed")
	// ErrTimeout is returned by the blocking reader APIs when the
	// deadline elapses before the awaited condition becomes true.
	ErrTimeout = errors.New("flowio: timed out waiting for grain")
	// ErrClosed is returned when operating on a writer/reader whose
	// underlying flow handle has been closed.
	ErrClosed = errors.New("flowio: flow handle closed")
)
