//go:build unix

package shmseg

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Create creates a new segment file of the given total size (headerSize
// + payloadSize) and maps it PROT_READ|PROT_WRITE, MAP_SHARED. A freshly
// truncated file reads back as all zeros, which Create relies on instead
// of explicitly zeroing the mapping.
func Create(path string, headerSize, payloadSize int) (*Segment, error) {
	totalSize := headerSize + payloadSize

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return nil, fmt.Errorf("shmseg: create %s: %w", path, err)
	}

	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	if err := file.Truncate(int64(totalSize)); err != nil {
		cleanup()
		return nil, fmt.Errorf("shmseg: truncate %s: %w", path, err)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, totalSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("shmseg: mmap %s: %w", path, err)
	}

	return &Segment{File: file, Mem: mem, Path: path, headerSize: headerSize}, nil
}

// Open maps an existing segment file. sizeHint, if non-zero, is checked
// against the file's actual size and Open fails with ErrSizeMismatch if
// the file is smaller than expected.
func Open(path string, mode AccessMode, headerSize, sizeHint int) (*Segment, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("shmseg: open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("shmseg: stat %s: %w", path, err)
	}

	size := info.Size()
	if sizeHint > 0 && size < int64(sizeHint) {
		file.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, want at least %d", ErrSizeMismatch, path, size, sizeHint)
	}
	if size < int64(headerSize) {
		file.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, smaller than header size %d", ErrSizeMismatch, path, size, headerSize)
	}

	prot := unix.PROT_READ | unix.PROT_WRITE
	if mode == OpenReadOnly {
		prot = unix.PROT_READ
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("shmseg: mmap %s: %w", path, err)
	}

	return &Segment{File: file, Mem: mem, Path: path, headerSize: headerSize}, nil
}

func munmapImpl(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("shmseg: munmap: %w", err)
	}
	return nil
}

// Remove deletes a segment's backing file. Analogous to the teacher's
// RemoveSegment, simplified to a single well-known path per flow/grain
// rather than a /dev/shm-vs-tmp guess, since MXL segment paths are
// always caller-supplied (domain-rooted), not derived from a bare name.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("shmseg: remove %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a segment file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
