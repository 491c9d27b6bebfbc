package flow

import "unsafe"

// addrOf returns an unsafe.Pointer to v, isolated in its own file so the
// use of unsafe in this package is easy to audit.
func addrOf(v *uint64) unsafe.Pointer {
	return unsafe.Pointer(v)
}
