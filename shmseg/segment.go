package shmseg

import (
	"os"
	"sync"
	"unsafe"
)

// AccessMode selects how Open maps an existing segment file.
type AccessMode int

const (
	// OpenReadWrite maps the segment PROT_READ|PROT_WRITE. Used by a flow
	// reader that also needs to advance its own read-side bookkeeping in
	// the header, or by a fabric target applying remote writes.
	OpenReadWrite AccessMode = iota
	// OpenReadOnly maps the segment PROT_READ only. Used by flow readers
	// that never mutate shared state directly.
	OpenReadOnly
	// CreateReadWrite names the mode a new flow is created under; it is
	// not a valid argument to Open, which only ever maps an existing
	// segment file.
	CreateReadWrite
)

// Segment is a file mapped into this process's address space. The first
// headerSize bytes are reserved for a caller-defined header struct
// accessed via Header(); the remainder is the payload region.
type Segment struct {
	File       *os.File
	Mem        []byte
	Path       string
	headerSize int

	closeOnce sync.Once
	closeErr  error
}

// Header returns an unsafe pointer to the start of the mapping, meant to
// be cast by the caller to its own header struct type, e.g.
//
//	hdr := (*flow.Header)(seg.Header())
func (s *Segment) Header() unsafe.Pointer {
	if len(s.Mem) == 0 {
		return nil
	}
	return unsafe.Pointer(&s.Mem[0])
}

// Payload returns the bytes following the header region.
func (s *Segment) Payload() []byte {
	if len(s.Mem) <= s.headerSize {
		return nil
	}
	return s.Mem[s.headerSize:]
}

// Size returns the total mapped size in bytes.
func (s *Segment) Size() int {
	return len(s.Mem)
}

// Close unmaps the memory and closes the backing file descriptor. It is
// safe to call more than once; only the first call's error is returned.
func (s *Segment) Close() error {
	s.closeOnce.Do(func() {
		var firstErr error
		if s.Mem != nil {
			if err := munmapImpl(s.Mem); err != nil {
				firstErr = err
			}
			s.Mem = nil
		}
		if s.File != nil {
			if err := s.File.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			s.File = nil
		}
		s.closeErr = firstErr
	})
	return s.closeErr
}
