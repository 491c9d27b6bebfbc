package flowio

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/shmseg"
)

func newTestContinuousFlow(t *testing.T, channelCount, bufferLength, sampleWordSize uint64) *flow.ContinuousFlowData {
	t.Helper()
	dir := t.TempDir()
	headerSeg, err := shmseg.Create(filepath.Join(dir, "data"), int(flow.HeaderSize), 0)
	if err != nil {
		t.Fatalf("Create header: %v", err)
	}
	cfd := flow.NewContinuousFlowData(headerSeg)
	cfd.Info().SetFormat(flow.FormatAudio)
	cfd.Info().SetChannelCount(channelCount)
	cfd.Info().SetBufferLength(bufferLength)

	channelSize := int(channelCount * bufferLength * sampleWordSize)
	channelSeg, err := shmseg.Create(filepath.Join(dir, "channels"), 0, channelSize)
	if err != nil {
		t.Fatalf("Create channels: %v", err)
	}
	if err := cfd.OpenChannelBuffers(channelSeg, sampleWordSize); err != nil {
		t.Fatalf("OpenChannelBuffers: %v", err)
	}
	return cfd
}

func TestContinuousWriterWriteSamplesNoWrap(t *testing.T) {
	const bufferLength = 16
	const wordSize = 4
	cfd := newTestContinuousFlow(t, 2, bufferLength, wordSize)
	defer cfd.Close()

	w := NewContinuousWriter(cfd, nil)
	data := bytes.Repeat([]byte{0xAB}, 4*wordSize)
	if err := w.WriteSamples(0, 0, data); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}

	ch0, err := cfd.ChannelPointer(0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ch0[:len(data)], data) {
		t.Fatal("written bytes not found at start of channel 0")
	}

	ch1, err := cfd.ChannelPointer(1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ch1[:len(data)], make([]byte, len(data))) {
		t.Fatal("channel 1 must be untouched")
	}
}

func TestContinuousWriterWriteSamplesWrap(t *testing.T) {
	const bufferLength = 4
	const wordSize = 4
	cfd := newTestContinuousFlow(t, 1, bufferLength, wordSize)
	defer cfd.Close()

	w := NewContinuousWriter(cfd, nil)
	// bufferLength=4 samples; write 3 samples starting at index 2, so it
	// wraps: samples at slots 2,3 then wraps to slot 0.
	data := []byte{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}
	if err := w.WriteSamples(0, 2, data); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}

	ch0, err := cfd.ChannelPointer(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		3, 3, 3, 3, // slot 0 (wrapped tail)
		0, 0, 0, 0, // slot 1 (untouched)
		1, 1, 1, 1, // slot 2
		2, 2, 2, 2, // slot 3
	}
	if !bytes.Equal(ch0, want) {
		t.Fatalf("channel 0 = %v, want %v", ch0, want)
	}
}

func TestContinuousWriterCommitBlockAdvancesCounter(t *testing.T) {
	cfd := newTestContinuousFlow(t, 1, 8, 4)
	defer cfd.Close()

	w := NewContinuousWriter(cfd, nil)
	if err := w.CommitBlock(8); err != nil {
		t.Fatalf("CommitBlock: %v", err)
	}
	if cfd.Info().SyncCounter() != 1 {
		t.Fatalf("SyncCounter = %d, want 1", cfd.Info().SyncCounter())
	}
}

func TestContinuousWriterWriteSamplesRejectsUnalignedData(t *testing.T) {
	cfd := newTestContinuousFlow(t, 1, 8, 4)
	defer cfd.Close()

	w := NewContinuousWriter(cfd, nil)
	if err := w.WriteSamples(0, 0, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for data length not a multiple of sample word size")
	}
}
