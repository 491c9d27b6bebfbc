package flowio

import (
	"fmt"
	"log/slog"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/shmseg"
	"github.com/moleksy/mxl/timing"
)

// Writer is the single-producer grain API over a discrete flow.
type Writer struct {
	data *flow.DiscreteFlowData
	log  *slog.Logger
}

// NewWriter wraps a discrete flow's data for writing.
func NewWriter(data *flow.DiscreteFlowData, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{data: data, log: logger}
}

// OpenGrain selects slot absoluteIndex mod grainCount, marks it not yet
// committed, and returns its header and payload for the caller to fill
// in. It is advisory-only misuse, not a protocol violation, to reopen an
// index a reader may still be observing.
func (w *Writer) OpenGrain(absoluteIndex uint64) (*flow.GrainInfo, []byte, error) {
	g := w.data.Grain(absoluteIndex)
	if g == nil {
		return nil, nil, fmt.Errorf("%w: no grain slot for index %d", ErrInvalidArgument, absoluteIndex)
	}
	g.Info.SetIndex(absoluteIndex)
	g.Info.SetCommittedSize(0)
	g.Info.SetTimestamp(timing.Now())
	return g.Info, g.Payload(), nil
}

// Commit makes the most recently opened grain visible: release-stores
// CommittedSize = GrainSize, advances the header's LastWriteTime and
// SyncCounter, then wakes any readers blocked on the counter.
func (w *Writer) Commit(info *flow.GrainInfo) error {
	if info == nil {
		return fmt.Errorf("%w: nil grain info", ErrInvalidArgument)
	}
	info.SetCommittedSize(info.GrainSize())

	header := w.data.Info()
	header.SetLastWriteTime(timing.Now())
	header.IncrementSyncCounter()

	if _, err := shmseg.Wake(header.SyncCounterAddr(), int(^uint32(0)>>1)); err != nil {
		w.log.Warn("wake readers after commit failed", "err", err)
	}
	return nil
}
