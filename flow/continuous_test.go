package flow

import (
	"path/filepath"
	"testing"

	"github.com/moleksy/mxl/shmseg"
)

func TestContinuousFlowDataChannelPointers(t *testing.T) {
	dir := t.TempDir()
	headerSeg, err := shmseg.Create(filepath.Join(dir, "data"), int(HeaderSize), 0)
	if err != nil {
		t.Fatalf("Create header: %v", err)
	}
	cfd := NewContinuousFlowData(headerSeg)
	cfd.Info().SetChannelCount(2)
	cfd.Info().SetBufferLength(4096)

	const sampleWordSize = 4
	channelSize := int(2 * 4096 * sampleWordSize)
	channelSeg, err := shmseg.Create(filepath.Join(dir, "channels"), 0, channelSize)
	if err != nil {
		t.Fatalf("Create channels: %v", err)
	}
	if err := cfd.OpenChannelBuffers(channelSeg, sampleWordSize); err != nil {
		t.Fatalf("OpenChannelBuffers: %v", err)
	}
	defer cfd.Close()

	if !cfd.IsValid() {
		t.Fatal("expected valid ContinuousFlowData")
	}

	ch0, err := cfd.ChannelPointer(0)
	if err != nil {
		t.Fatalf("ChannelPointer(0): %v", err)
	}
	ch1, err := cfd.ChannelPointer(1)
	if err != nil {
		t.Fatalf("ChannelPointer(1): %v", err)
	}
	if len(ch0) != 4096*sampleWordSize || len(ch1) != 4096*sampleWordSize {
		t.Fatalf("channel lengths = %d, %d, want %d each", len(ch0), len(ch1), 4096*sampleWordSize)
	}

	ch0[0] = 0xAB
	if ch1[0] == 0xAB {
		t.Fatal("channel buffers must not overlap")
	}

	if _, err := cfd.ChannelPointer(2); err == nil {
		t.Fatal("expected error for out-of-range channel")
	}
}
