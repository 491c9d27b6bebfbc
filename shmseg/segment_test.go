package shmseg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.seg")

	seg, err := Create(path, 64, 256)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if seg.Size() != 64+256 {
		t.Fatalf("Size() = %d, want %d", seg.Size(), 64+256)
	}
	copy(seg.Payload(), []byte("hello"))
	if err := seg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	seg2, err := Open(path, OpenReadWrite, 64, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer seg2.Close()
	if string(seg2.Payload()[:5]) != "hello" {
		t.Fatalf("payload mismatch after reopen: %q", seg2.Payload()[:5])
	}
}

func TestCreateAlreadyExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.seg")

	seg, err := Create(path, 8, 8)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer seg.Close()

	if _, err := Create(path, 8, 8); err == nil {
		t.Fatal("expected error creating over existing segment")
	}
}

func TestOpenNotFound(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing.seg"), OpenReadWrite, 8, 0); err == nil {
		t.Fatal("expected error opening missing segment")
	}
}

func TestOpenSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.seg")
	if err := os.WriteFile(path, make([]byte, 4), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, OpenReadWrite, 64, 0); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.seg")
	seg, err := Create(path, 8, 8)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := seg.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := seg.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}
