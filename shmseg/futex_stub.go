//go:build !(linux && (amd64 || arm64))

package shmseg

import "time"

// Wait is unavailable on this platform; see ErrUnsupported.
func Wait(addr *uint32, val uint32) error {
	return ErrUnsupported
}

// WaitTimeout is unavailable on this platform; see ErrUnsupported.
func WaitTimeout(addr *uint32, val uint32, timeout time.Duration) error {
	return ErrUnsupported
}

// Wake is unavailable on this platform; see ErrUnsupported.
func Wake(addr *uint32, n int) (int, error) {
	return 0, ErrUnsupported
}
