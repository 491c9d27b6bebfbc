//go:build linux && (amd64 || arm64)

package shmseg

import (
	"fmt"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux futex(2) operation codes. golang.org/x/sys/unix exposes SYS_FUTEX
// (the syscall number) but not these operation constants, so they are
// defined here per the kernel UAPI (linux/include/uapi/linux/futex.h).
const (
	futexWait = 0
	futexWake = 1
)

// Wait blocks until the uint32 at addr no longer equals val, another
// waiter on the same address calls Wake, or the wait is interrupted by a
// signal. It must only be called when the caller has already observed
// *addr == val; callers must re-check their logical condition after Wait
// returns, since wakeups can be spurious.
func Wait(addr *uint32, val uint32) error {
	if atomic.LoadUint32(addr) != val {
		return nil
	}
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWait,
		uintptr(val),
		0,
		0,
		0,
	)
	if errno != 0 {
		switch errno {
		case unix.EAGAIN, unix.EINTR:
			return nil
		default:
			return fmt.Errorf("shmseg: futex wait: %w", errno)
		}
	}
	return nil
}

// WaitTimeout is Wait bounded by timeout. It returns ErrFutexTimeout if
// the deadline elapses before *addr changes or a waker arrives.
func WaitTimeout(addr *uint32, val uint32, timeout time.Duration) error {
	if timeout <= 0 {
		return Wait(addr, val)
	}
	if atomic.LoadUint32(addr) != val {
		return nil
	}

	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWait,
		uintptr(val),
		uintptr(unsafe.Pointer(&ts)),
		0,
		0,
	)
	if errno != 0 {
		switch errno {
		case unix.EAGAIN, unix.EINTR:
			return nil
		case unix.ETIMEDOUT:
			return ErrFutexTimeout
		default:
			return fmt.Errorf("shmseg: futex wait timeout: %w", errno)
		}
	}
	return nil
}

// Wake wakes up to n goroutines (in any process) blocked in Wait on addr,
// returning the number actually woken.
func Wake(addr *uint32, n int) (int, error) {
	r1, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWake,
		uintptr(n),
		0,
		0,
		0,
	)
	if errno != 0 {
		return 0, fmt.Errorf("shmseg: futex wake: %w", errno)
	}
	return int(r1), nil
}
