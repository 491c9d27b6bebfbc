package flowio

import (
	"time"
)

// timeoutKind distinguishes the three documented timeoutMs values:
// 0 (non-blocking), a positive bound, and -1 (see resolveTimeout's doc
// comment for what -1 means to each caller).
type timeoutKind int

const (
	timeoutNonBlocking timeoutKind = iota
	timeoutBounded
	timeoutImmediateDiagnostic
)

// resolveTimeout interprets the timeoutMs convention: 0 is a single
// non-blocking check, a positive value is a bounded wait in
// milliseconds, and -1 is an immediate check on GetGrain (there it
// behaves exactly like 0: ErrOutOfRange for an index that has left the
// retention window, ErrNotReady otherwise) and an unbounded wait on
// WaitForNewGrain, since there's no window check to make there. Any
// other negative value is rejected.
func resolveTimeout(timeoutMs int) (kind timeoutKind, d time.Duration, err error) {
	switch {
	case timeoutMs == 0:
		return timeoutNonBlocking, 0, nil
	case timeoutMs > 0:
		return timeoutBounded, time.Duration(timeoutMs) * time.Millisecond, nil
	case timeoutMs == -1:
		return timeoutImmediateDiagnostic, 0, nil
	default:
		return 0, 0, ErrInvalidArgument
	}
}
