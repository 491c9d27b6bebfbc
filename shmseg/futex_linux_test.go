//go:build linux && (amd64 || arm64)

package shmseg

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitWakeRoundTrip(t *testing.T) {
	var cell uint32

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Wait(&cell, 0); err != nil {
			t.Errorf("Wait: %v", err)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	atomic.StoreUint32(&cell, 1)
	if _, err := Wake(&cell, 1); err != nil {
		t.Fatalf("Wake: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Wake")
	}
}

func TestWaitTimeoutExpires(t *testing.T) {
	var cell uint32
	err := WaitTimeout(&cell, 0, 20*time.Millisecond)
	if err != ErrFutexTimeout {
		t.Fatalf("WaitTimeout = %v, want ErrFutexTimeout", err)
	}
}

func TestWaitReturnsImmediatelyOnMismatch(t *testing.T) {
	var cell uint32 = 5
	if err := Wait(&cell, 0); err != nil {
		t.Fatalf("Wait on already-changed value: %v", err)
	}
}
