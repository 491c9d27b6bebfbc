package flowio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/shmseg"
	"github.com/moleksy/mxl/timing"
)

// FlowInfo is a point-in-time snapshot of a flow header, safe to read
// without further synchronization since every field was captured via an
// atomic load.
type FlowInfo struct {
	Format        flow.Format
	GrainRate     flow.Rate
	GrainCount    uint64
	SampleRate    flow.Rate
	ChannelCount  uint64
	BufferLength  uint64
	LastWriteTime uint64
	LastReadTime  uint64
	SyncCounter   uint64
}

// Reader is the many-readers-per-flow API over a discrete flow.
type Reader struct {
	data *flow.DiscreteFlowData
	log  *slog.Logger

	closed   atomic.Bool
	mu       sync.Mutex
	callback func(index uint64)
	events   chan uint64
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewReader wraps a discrete flow's data for reading.
func NewReader(data *flow.DiscreteFlowData, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{data: data, log: logger}
}

// GetInfo returns a snapshot of the flow header.
func (r *Reader) GetInfo() FlowInfo {
	h := r.data.Info()
	h.SetLastReadTime(timing.Now())
	return FlowInfo{
		Format:        h.Format(),
		GrainRate:     h.GrainRate(),
		GrainCount:    h.GrainCount(),
		LastWriteTime: h.LastWriteTime(),
		LastReadTime:  h.LastReadTime(),
		SyncCounter:   h.SyncCounter(),
	}
}

func (r *Reader) windowFloor(syncCounter, grainCount uint64) uint64 {
	if syncCounter == 0 {
		return 0
	}
	head := syncCounter - 1
	if head+1 <= grainCount {
		return 0
	}
	return head + 1 - grainCount
}

// checkVisible returns the grain if absoluteIndex is currently visible
// (committed and its stored index still matches), or an error
// classifying why not: ErrOutOfRange if it's fallen out of the
// retention window, ErrNotReady otherwise.
func (r *Reader) checkVisible(absoluteIndex uint64) (*flow.GrainInfo, []byte, error) {
	header := r.data.Info()
	grainCount := header.GrainCount()
	g := r.data.Grain(absoluteIndex)
	if g == nil {
		return nil, nil, fmt.Errorf("%w: no grain slot for index %d", ErrInvalidArgument, absoluteIndex)
	}
	if g.Info.IsVisible() && g.Info.Index() == absoluteIndex {
		return g.Info, g.Payload(), nil
	}

	syncCounter := header.SyncCounter()
	floor := r.windowFloor(syncCounter, grainCount)
	if absoluteIndex < floor {
		return nil, nil, ErrOutOfRange
	}
	return nil, nil, ErrNotReady
}

// GetGrain fetches grain absoluteIndex. See resolveTimeout for the exact
// meaning of timeoutMs.
func (r *Reader) GetGrain(absoluteIndex uint64, timeoutMs int) (*flow.GrainInfo, []byte, error) {
	if r.closed.Load() {
		return nil, nil, ErrClosed
	}
	kind, d, err := resolveTimeout(timeoutMs)
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case timeoutNonBlocking, timeoutImmediateDiagnostic:
		info, payload, err := r.checkVisible(absoluteIndex)
		return info, payload, err

	case timeoutBounded:
		deadline := timing.Now() + uint64(d.Nanoseconds())
		for {
			info, payload, err := r.checkVisible(absoluteIndex)
			if err == nil {
				return info, payload, nil
			}
			if err == ErrOutOfRange {
				return nil, nil, err
			}
			now := timing.Now()
			if now >= deadline {
				return nil, nil, ErrTimeout
			}
			remaining := time.Duration(deadline-now) * time.Nanosecond
			header := r.data.Info()
			before := uint32(header.SyncCounter())
			waitErr := shmseg.WaitTimeout(header.SyncCounterAddr(), before, remaining)
			if waitErr != nil && waitErr != shmseg.ErrFutexTimeout {
				return nil, nil, fmt.Errorf("flowio: wait for grain %d: %w", absoluteIndex, waitErr)
			}
		}
	default:
		return nil, nil, ErrInvalidArgument
	}
}

// WaitForNewGrain blocks until the next commit after the reader's last
// observed SyncCounter value, then returns the most recently committed
// grain. timeoutMs follows resolveTimeout's convention, with -1 meaning
// an unbounded wait (there is no "window" check to make here, unlike
// GetGrain, so -1 behaves as a true infinite wait rather than an
// immediate diagnostic check).
func (r *Reader) WaitForNewGrain(timeoutMs int) (*flow.GrainInfo, []byte, uint64, error) {
	if r.closed.Load() {
		return nil, nil, 0, ErrClosed
	}
	header := r.data.Info()
	start := header.SyncCounter()

	kind, d, err := resolveTimeout(timeoutMs)
	if err != nil {
		return nil, nil, 0, err
	}
	if kind == timeoutNonBlocking && header.SyncCounter() == start {
		return nil, nil, 0, ErrNotReady
	}

	var deadline uint64
	hasDeadline := kind == timeoutBounded
	if hasDeadline {
		deadline = timing.Now() + uint64(d.Nanoseconds())
	}

	for {
		current := header.SyncCounter()
		if current != start {
			// The most recently committed grain is the visible slot with
			// the highest absolute index.
			var latest *flow.GrainSegment
			for slot := uint64(0); slot < header.GrainCount(); slot++ {
				g := r.data.Grain(slot)
				if g != nil && g.Info.IsVisible() && (latest == nil || g.Info.Index() > latest.Info.Index()) {
					latest = g
				}
			}
			if latest != nil {
				return latest.Info, latest.Payload(), latest.Info.Index(), nil
			}
			// Counter moved but no slot is visible yet; fall through and
			// wait for the next edge.
			start = current
		}

		before := uint32(current)
		var waitErr error
		if hasDeadline {
			now := timing.Now()
			if now >= deadline {
				return nil, nil, 0, ErrTimeout
			}
			waitErr = shmseg.WaitTimeout(header.SyncCounterAddr(), before, time.Duration(deadline-now)*time.Nanosecond)
		} else {
			waitErr = shmseg.Wait(header.SyncCounterAddr(), before)
		}
		if waitErr == shmseg.ErrFutexTimeout {
			return nil, nil, 0, ErrTimeout
		}
		if waitErr != nil {
			return nil, nil, 0, fmt.Errorf("flowio: wait for new grain: %w", waitErr)
		}
	}
}

// SetCompletionCallback registers fn to be invoked, on a dedicated
// goroutine, once per commit observed after this call. fn must not
// block. Calling SetCompletionCallback again replaces the previous
// callback and its dispatch goroutine.
func (r *Reader) SetCompletionCallback(fn func(index uint64)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopDispatch()
	if fn == nil {
		return
	}
	r.callback = fn
	r.events = make(chan uint64, 64)
	r.stop = make(chan struct{})

	r.wg.Add(2)
	go r.dispatchLoop(fn)
	go r.watchLoop(r.data.Info().SyncCounter())
}

// stopDispatch must be called with r.mu held.
func (r *Reader) stopDispatch() {
	if r.stop != nil {
		close(r.stop)
		r.wg.Wait()
		r.stop = nil
		r.events = nil
		r.callback = nil
	}
}

// watchLoop blocks on SyncCounter edges and posts each new head index to
// the events channel, generalizing the teacher's frame-demux reader
// goroutine from (header/message/trailer) frame kinds to a single
// "new grain" event kind.
func (r *Reader) watchLoop(last uint64) {
	defer r.wg.Done()
	header := r.data.Info()
	for {
		select {
		case <-r.stop:
			return
		default:
		}
		before := uint32(last)
		// Bounded so a stop request is noticed even when no commit arrives;
		// re-check below regardless of timeout or spurious wake.
		_ = shmseg.WaitTimeout(header.SyncCounterAddr(), before, 50*time.Millisecond)
		current := header.SyncCounter()
		for current != last {
			last++
			select {
			case r.events <- last - 1:
			case <-r.stop:
				return
			}
		}
		select {
		case <-r.stop:
			return
		default:
		}
	}
}

func (r *Reader) dispatchLoop(fn func(index uint64)) {
	defer r.wg.Done()
	for {
		select {
		case idx := <-r.events:
			fn(idx)
		case <-r.stop:
			return
		}
	}
}

// Close stops any completion-callback dispatch goroutines. It does not
// close the underlying FlowData; callers own that separately.
func (r *Reader) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.mu.Lock()
	r.stopDispatch()
	r.mu.Unlock()
	return nil
}
