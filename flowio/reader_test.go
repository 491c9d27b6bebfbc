package flowio

import (
	"sync"
	"testing"
	"time"

	"github.com/moleksy/mxl/shmseg"
)

// futexAvailable reports whether shmseg's blocking wait/wake is wired on
// this platform (linux/amd64 or linux/arm64); tests that depend on a
// writer's commit waking a blocked reader skip cleanly elsewhere.
func futexAvailable() bool {
	var v uint32
	_, err := shmseg.Wake(&v, 1)
	return err != shmseg.ErrUnsupported
}

func TestReaderGetGrainNonBlockingNotReady(t *testing.T) {
	dfd := newTestDiscreteFlow(t, 4, 64)
	defer dfd.Close()
	r := NewReader(dfd, nil)

	if _, _, err := r.GetGrain(0, 0); err != ErrNotReady {
		t.Fatalf("GetGrain = %v, want ErrNotReady", err)
	}
}

func TestReaderGetGrainImmediateDiagnosticDistinguishesOutOfRange(t *testing.T) {
	dfd := newTestDiscreteFlow(t, 2, 64)
	defer dfd.Close()
	w := NewWriter(dfd, nil)
	r := NewReader(dfd, nil)

	// grainCount=2; after committing indices 0, 1, 2 the window floor
	// advances to 1, pushing index 0 out of range.
	for i := uint64(0); i < 3; i++ {
		info, _, err := w.OpenGrain(i)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Commit(info); err != nil {
			t.Fatal(err)
		}
	}

	if _, _, err := r.GetGrain(0, -1); err != ErrOutOfRange {
		t.Fatalf("GetGrain(0, -1) = %v, want ErrOutOfRange", err)
	}
	// index 2 (the most recent write, aliasing slot 0) is still visible.
	info, _, err := r.GetGrain(2, -1)
	if err != nil {
		t.Fatalf("GetGrain(2, -1): %v", err)
	}
	if info.Index() != 2 {
		t.Fatalf("Index = %d, want 2", info.Index())
	}
}

func TestReaderGetGrainVisibleAfterCommit(t *testing.T) {
	dfd := newTestDiscreteFlow(t, 4, 64)
	defer dfd.Close()
	w := NewWriter(dfd, nil)
	r := NewReader(dfd, nil)

	info, payload, err := w.OpenGrain(0)
	if err != nil {
		t.Fatal(err)
	}
	copy(payload, []byte("grain-data"))
	if err := w.Commit(info); err != nil {
		t.Fatal(err)
	}

	gotInfo, gotPayload, err := r.GetGrain(0, 0)
	if err != nil {
		t.Fatalf("GetGrain: %v", err)
	}
	if gotInfo.Index() != 0 {
		t.Fatalf("Index = %d, want 0", gotInfo.Index())
	}
	if string(gotPayload[:10]) != "grain-data" {
		t.Fatalf("payload = %q", gotPayload[:10])
	}
}

func TestReaderGetGrainInvalidTimeout(t *testing.T) {
	dfd := newTestDiscreteFlow(t, 2, 64)
	defer dfd.Close()
	r := NewReader(dfd, nil)

	if _, _, err := r.GetGrain(0, -2); err != ErrInvalidArgument {
		t.Fatalf("GetGrain with timeoutMs=-2 = %v, want ErrInvalidArgument", err)
	}
}

func TestReaderGetGrainBoundedTimeoutExpires(t *testing.T) {
	dfd := newTestDiscreteFlow(t, 2, 64)
	defer dfd.Close()
	r := NewReader(dfd, nil)

	start := time.Now()
	_, _, err := r.GetGrain(0, 50)
	elapsed := time.Since(start)
	if err != ErrTimeout {
		t.Fatalf("GetGrain = %v, want ErrTimeout", err)
	}
	if elapsed < 40*time.Millisecond {
		t.Fatalf("returned too early: %v", elapsed)
	}
}

func TestReaderGetGrainBoundedTimeoutWokenByCommit(t *testing.T) {
	if !futexAvailable() {
		t.Skip("futex wait/wake unsupported on this platform")
	}

	dfd := newTestDiscreteFlow(t, 2, 64)
	defer dfd.Close()
	w := NewWriter(dfd, nil)
	r := NewReader(dfd, nil)

	done := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		info, _, err := w.OpenGrain(0)
		if err != nil {
			return
		}
		_ = w.Commit(info)
		close(done)
	}()

	info, _, err := r.GetGrain(0, 2000)
	<-done
	if err != nil {
		t.Fatalf("GetGrain: %v", err)
	}
	if info.Index() != 0 {
		t.Fatalf("Index = %d, want 0", info.Index())
	}
}

func TestReaderWaitForNewGrain(t *testing.T) {
	if !futexAvailable() {
		t.Skip("futex wait/wake unsupported on this platform")
	}

	dfd := newTestDiscreteFlow(t, 4, 64)
	defer dfd.Close()
	w := NewWriter(dfd, nil)
	r := NewReader(dfd, nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		info, _, err := w.OpenGrain(3)
		if err != nil {
			return
		}
		_ = w.Commit(info)
	}()

	info, _, idx, err := r.WaitForNewGrain(2000)
	if err != nil {
		t.Fatalf("WaitForNewGrain: %v", err)
	}
	if idx != 3 || info.Index() != 3 {
		t.Fatalf("idx = %d info.Index = %d, want 3", idx, info.Index())
	}
}

func TestReaderSetCompletionCallback(t *testing.T) {
	if !futexAvailable() {
		t.Skip("futex wait/wake unsupported on this platform")
	}

	dfd := newTestDiscreteFlow(t, 4, 64)
	defer dfd.Close()
	w := NewWriter(dfd, nil)
	r := NewReader(dfd, nil)
	defer r.Close()

	var mu sync.Mutex
	var seen []uint64
	done := make(chan struct{})
	r.SetCompletionCallback(func(index uint64) {
		mu.Lock()
		seen = append(seen, index)
		n := len(seen)
		mu.Unlock()
		if n == 2 {
			close(done)
		}
	})

	for i := uint64(0); i < 2; i++ {
		info, _, err := w.OpenGrain(i)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Commit(info); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion callbacks")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Fatalf("seen = %v, want [0 1]", seen)
	}
}

func TestDiagnoseStalledReader(t *testing.T) {
	dfd := newTestDiscreteFlow(t, 2, 64)
	defer dfd.Close()
	w := NewWriter(dfd, nil)

	for i := uint64(0); i < 4; i++ {
		info, _, err := w.OpenGrain(i)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Commit(info); err != nil {
			t.Fatal(err)
		}
	}

	diag := DiagnoseStalledReader(dfd, 0)
	if !diag.Stalled {
		t.Fatalf("expected stalled diagnosis, got %+v", diag)
	}

	diag = DiagnoseStalledReader(dfd, 3)
	if diag.Stalled {
		t.Fatalf("expected not stalled, got %+v", diag)
	}
}
