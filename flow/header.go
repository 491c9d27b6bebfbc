package flow

import (
	"sync/atomic"
)

// HeaderVersion is the current FlowHeader layout version.
const HeaderVersion = uint32(1)

// Rate is a rational frames/samples-per-second cadence. It has the same
// field types as timing.Rational but different field names, so moving a
// value between the two is a field-by-field copy.
type Rate struct {
	Num uint32
	Den uint32
}

// Header is the canonical FlowHeader: a common section every flow has,
// plus both variant sections side by side. Only one variant is
// meaningful for a given flow, selected by Common.Format via
// IsDiscreteFormat/IsContinuousFormat — unlike the C original's real
// union, both variants occupy distinct, fixed offsets here, trading a
// few dozen wasted bytes for layout simplicity and race-free Go field
// access.
type Header struct {
	version uint32
	size    uint32

	id            [16]byte
	format        uint32
	lastWriteTime uint64
	lastReadTime  uint64

	// Discrete variant.
	grainRateNum uint32
	grainRateDen uint32
	grainCount   uint64
	syncCounter  uint64

	// Continuous variant.
	sampleRateNum uint32
	sampleRateDen uint32
	channelCount  uint64
	bufferLength  uint64
}

// HeaderSize is the fixed size in bytes of Header, used by callers
// sizing the header region of a segment.
const HeaderSize = 96

func (h *Header) Version() uint32      { return atomic.LoadUint32(&h.version) }
func (h *Header) SetVersion(v uint32)  { atomic.StoreUint32(&h.version, v) }
func (h *Header) Size() uint32         { return atomic.LoadUint32(&h.size) }
func (h *Header) SetSize(v uint32)     { atomic.StoreUint32(&h.size, v) }
func (h *Header) ID() [16]byte         { return h.id }
func (h *Header) SetID(id [16]byte)    { h.id = id }
func (h *Header) Format() Format       { return Format(atomic.LoadUint32(&h.format)) }
func (h *Header) SetFormat(f Format)   { atomic.StoreUint32(&h.format, uint32(f)) }

func (h *Header) LastWriteTime() uint64     { return atomic.LoadUint64(&h.lastWriteTime) }
func (h *Header) SetLastWriteTime(ns uint64) { atomic.StoreUint64(&h.lastWriteTime, ns) }
func (h *Header) LastReadTime() uint64      { return atomic.LoadUint64(&h.lastReadTime) }
func (h *Header) SetLastReadTime(ns uint64) { atomic.StoreUint64(&h.lastReadTime, ns) }

func (h *Header) GrainRate() Rate {
	return Rate{Num: atomic.LoadUint32(&h.grainRateNum), Den: atomic.LoadUint32(&h.grainRateDen)}
}
func (h *Header) SetGrainRate(r Rate) {
	atomic.StoreUint32(&h.grainRateNum, r.Num)
	atomic.StoreUint32(&h.grainRateDen, r.Den)
}
func (h *Header) GrainCount() uint64     { return atomic.LoadUint64(&h.grainCount) }
func (h *Header) SetGrainCount(n uint64) { atomic.StoreUint64(&h.grainCount, n) }

// SyncCounter is the monotonic commit/wake counter: readers block on its
// value changing, writers increment it with release semantics exactly
// once per successful full grain commit.
func (h *Header) SyncCounter() uint64 { return atomic.LoadUint64(&h.syncCounter) }

// IncrementSyncCounter advances the counter by one and returns the new
// value, for use immediately before waking blocked readers.
func (h *Header) IncrementSyncCounter() uint64 {
	return atomic.AddUint64(&h.syncCounter, 1)
}

func (h *Header) SampleRate() Rate {
	return Rate{Num: atomic.LoadUint32(&h.sampleRateNum), Den: atomic.LoadUint32(&h.sampleRateDen)}
}
func (h *Header) SetSampleRate(r Rate) {
	atomic.StoreUint32(&h.sampleRateNum, r.Num)
	atomic.StoreUint32(&h.sampleRateDen, r.Den)
}
func (h *Header) ChannelCount() uint64     { return atomic.LoadUint64(&h.channelCount) }
func (h *Header) SetChannelCount(n uint64) { atomic.StoreUint64(&h.channelCount, n) }
func (h *Header) BufferLength() uint64     { return atomic.LoadUint64(&h.bufferLength) }
func (h *Header) SetBufferLength(n uint64) { atomic.StoreUint64(&h.bufferLength, n) }

// SyncCounterAddr returns the address of the sync counter's low 32 bits
// for use with shmseg.Wait/Wake, which operate on uint32 cells. The
// counter only ever increases, so waiters comparing against a uint32
// snapshot observe a spurious-wake-safe edge even across a 32-bit wrap of
// just that half; callers always re-read SyncCounter() (the full 64-bit
// value) after waking to decide whether real progress occurred.
func (h *Header) SyncCounterAddr() *uint32 {
	return (*uint32)(addrOf(&h.syncCounter))
}
