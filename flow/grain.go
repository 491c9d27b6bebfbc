package flow

import "sync/atomic"

// GrainInfo is the fixed-size header at the start of every grains/<i>
// file, immediately followed by grainSize bytes of payload.
type GrainInfo struct {
	version       uint32
	size          uint32
	grainSize     uint64
	committedSize uint64
	deviceIndex   int32
	flags         uint32
	timestamp     uint64
	index         uint64
}

// GrainInfoSize is the fixed size in bytes of GrainInfo.
const GrainInfoSize = 48

func (g *GrainInfo) Version() uint32     { return atomic.LoadUint32(&g.version) }
func (g *GrainInfo) SetVersion(v uint32) { atomic.StoreUint32(&g.version, v) }
func (g *GrainInfo) Size() uint32        { return atomic.LoadUint32(&g.size) }
func (g *GrainInfo) SetSize(v uint32)    { atomic.StoreUint32(&g.size, v) }

func (g *GrainInfo) GrainSize() uint64     { return atomic.LoadUint64(&g.grainSize) }
func (g *GrainInfo) SetGrainSize(v uint64) { atomic.StoreUint64(&g.grainSize, v) }

// CommittedSize is atomically store-released by the writer in Commit and
// atomically load-acquired by readers; a grain is visible iff
// CommittedSize() == GrainSize().
func (g *GrainInfo) CommittedSize() uint64     { return atomic.LoadUint64(&g.committedSize) }
func (g *GrainInfo) SetCommittedSize(v uint64) { atomic.StoreUint64(&g.committedSize, v) }

func (g *GrainInfo) DeviceIndex() int32     { return atomic.LoadInt32(&g.deviceIndex) }
func (g *GrainInfo) SetDeviceIndex(v int32) { atomic.StoreInt32(&g.deviceIndex, v) }
func (g *GrainInfo) Flags() uint32          { return atomic.LoadUint32(&g.flags) }
func (g *GrainInfo) SetFlags(v uint32)      { atomic.StoreUint32(&g.flags, v) }
func (g *GrainInfo) Timestamp() uint64      { return atomic.LoadUint64(&g.timestamp) }
func (g *GrainInfo) SetTimestamp(v uint64)  { atomic.StoreUint64(&g.timestamp, v) }
func (g *GrainInfo) Index() uint64          { return atomic.LoadUint64(&g.index) }
func (g *GrainInfo) SetIndex(v uint64)      { atomic.StoreUint64(&g.index, v) }

// IsVisible reports whether this grain has a fully committed payload.
func (g *GrainInfo) IsVisible() bool {
	return g.CommittedSize() == g.GrainSize() && g.GrainSize() > 0
}
