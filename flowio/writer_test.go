package flowio

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/shmseg"
)

func newTestDiscreteFlow(t *testing.T, grainCount uint64, payloadSize uint64) *flow.DiscreteFlowData {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "grains"), 0o755); err != nil {
		t.Fatal(err)
	}
	headerSeg, err := shmseg.Create(filepath.Join(dir, "data"), int(flow.HeaderSize), 0)
	if err != nil {
		t.Fatalf("Create header: %v", err)
	}
	dfd := flow.NewDiscreteFlowData(headerSeg, grainCount)
	dfd.Info().SetGrainCount(grainCount)
	dfd.Info().SetFormat(flow.FormatVideo)

	for i := uint64(0); i < grainCount; i++ {
		seg, err := shmseg.Create(filepath.Join(dir, fmt.Sprintf("grains/%d", i)), flow.GrainInfoSize, int(payloadSize))
		if err != nil {
			t.Fatalf("Create grain %d: %v", i, err)
		}
		if err := dfd.EmplaceGrain(i, seg, payloadSize); err != nil {
			t.Fatalf("EmplaceGrain(%d): %v", i, err)
		}
	}
	return dfd
}

func TestWriterOpenAndCommitVisibility(t *testing.T) {
	dfd := newTestDiscreteFlow(t, 4, 64)
	defer dfd.Close()

	w := NewWriter(dfd, nil)

	info, payload, err := w.OpenGrain(0)
	if err != nil {
		t.Fatalf("OpenGrain: %v", err)
	}
	if info.IsVisible() {
		t.Fatal("grain must not be visible before Commit")
	}
	copy(payload, []byte("hello"))

	if err := w.Commit(info); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !info.IsVisible() {
		t.Fatal("grain must be visible after Commit")
	}
	if dfd.Info().SyncCounter() != 1 {
		t.Fatalf("SyncCounter = %d, want 1", dfd.Info().SyncCounter())
	}
}

func TestWriterOpenGrainUnknownSlot(t *testing.T) {
	dir := t.TempDir()
	headerSeg, err := shmseg.Create(filepath.Join(dir, "data"), int(flow.HeaderSize), 0)
	if err != nil {
		t.Fatalf("Create header: %v", err)
	}
	dfd := flow.NewDiscreteFlowData(headerSeg, 2) // grain slots never emplaced
	defer dfd.Close()

	w := NewWriter(dfd, nil)
	if _, _, err := w.OpenGrain(0); err == nil {
		t.Fatal("expected error for unemplaced slot")
	}
}

func TestWriterCommitNilInfo(t *testing.T) {
	dfd := newTestDiscreteFlow(t, 2, 16)
	defer dfd.Close()
	w := NewWriter(dfd, nil)
	if err := w.Commit(nil); err == nil {
		t.Fatal("expected error committing nil grain info")
	}
}
