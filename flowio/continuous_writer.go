package flowio

import (
	"fmt"
	"log/slog"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/shmseg"
	"github.com/moleksy/mxl/timing"
)

// ContinuousWriter is the single-producer sample API over a continuous flow.
type ContinuousWriter struct {
	data *flow.ContinuousFlowData
	log  *slog.Logger
}

// NewContinuousWriter wraps a continuous flow's data for writing.
func NewContinuousWriter(data *flow.ContinuousFlowData, logger *slog.Logger) *ContinuousWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContinuousWriter{data: data, log: logger}
}

// WriteSamples writes data into channel ch's ring starting at
// absoluteSampleIndex mod bufferLength, wrapping around the end of the
// ring in a single split copy if necessary.
func (w *ContinuousWriter) WriteSamples(ch uint64, absoluteSampleIndex uint64, data []byte) error {
	buf, err := w.data.ChannelPointer(ch)
	if err != nil {
		return err
	}
	bufferLength := w.data.Info().BufferLength()
	wordSize := w.data.SampleWordSize()
	if wordSize == 0 {
		return fmt.Errorf("%w: sample word size is zero", ErrInvalidArgument)
	}
	sampleCount := uint64(len(data)) / wordSize
	if sampleCount*wordSize != uint64(len(data)) {
		return fmt.Errorf("%w: data length %d not a multiple of sample word size %d", ErrInvalidArgument, len(data), wordSize)
	}

	start := (absoluteSampleIndex % bufferLength) * wordSize
	remaining := (bufferLength - (absoluteSampleIndex % bufferLength)) * wordSize

	if uint64(len(data)) <= remaining {
		copy(buf[start:], data)
	} else {
		copy(buf[start:], data[:remaining])
		copy(buf[:uint64(len(data))-remaining], data[remaining:])
	}
	return nil
}

// CommitBlock advances the header's SyncCounter once, covering the
// sampleCount samples most recently written on every channel, and wakes
// any blocked readers. sampleCount is informational bookkeeping for
// callers; the counter itself is a single monotonic edge per block, same
// as the discrete writer's per-grain commit.
func (w *ContinuousWriter) CommitBlock(sampleCount uint64) error {
	header := w.data.Info()
	header.SetLastWriteTime(timing.Now())
	header.IncrementSyncCounter()
	if _, err := shmseg.Wake(header.SyncCounterAddr(), int(^uint32(0)>>1)); err != nil {
		w.log.Warn("wake readers after commit block failed", "err", err)
	}
	return nil
}
