package flow

import (
	"fmt"

	"github.com/moleksy/mxl/shmseg"
)

// GrainSegment pairs a mapped segment with a typed view of its
// GrainInfo header.
type GrainSegment struct {
	Segment *shmseg.Segment
	Info    *GrainInfo
}

func (g *GrainSegment) Payload() []byte {
	return g.Segment.Payload()
}

func (g *GrainSegment) Close() error {
	if g.Segment == nil {
		return nil
	}
	return g.Segment.Close()
}

// DiscreteFlowData owns a flow's header segment plus one mapped segment
// per grain slot, analogous to the teacher's Segment owning a header
// view plus two ring views, generalized from two fixed rings to
// grainCount independently sized slots.
type DiscreteFlowData struct {
	headerSeg *shmseg.Segment
	header    *Header
	grains    []*GrainSegment
}

// NewDiscreteFlowData wraps an already-mapped header segment. Grain
// slots are attached afterward via EmplaceGrain, mirroring the order the
// flow manager builds them in (header first, then grains/<i> files).
func NewDiscreteFlowData(headerSeg *shmseg.Segment, grainCount uint64) *DiscreteFlowData {
	return &DiscreteFlowData{
		headerSeg: headerSeg,
		header:    headerFrom(headerSeg),
		grains:    make([]*GrainSegment, grainCount),
	}
}

// EmplaceGrain attaches the segment backing slot index. payloadSize > 0
// means "just created, initialize its GrainInfo"; payloadSize == 0 means
// "just opened an existing slot, keep the GrainInfo stored in the file".
func (d *DiscreteFlowData) EmplaceGrain(index uint64, seg *shmseg.Segment, payloadSize uint64) error {
	if index >= uint64(len(d.grains)) {
		return fmt.Errorf("flow: grain index %d out of range [0,%d)", index, len(d.grains))
	}
	info := (*GrainInfo)(seg.Header())
	if payloadSize > 0 {
		info.SetVersion(HeaderVersion)
		info.SetSize(GrainInfoSize)
		info.SetGrainSize(payloadSize)
		info.SetCommittedSize(0)
		info.SetDeviceIndex(-1)
	}
	d.grains[index] = &GrainSegment{Segment: seg, Info: info}
	return nil
}

// Grain returns the segment for absoluteIndex mod grainCount.
func (d *DiscreteFlowData) Grain(absoluteIndex uint64) *GrainSegment {
	if len(d.grains) == 0 {
		return nil
	}
	return d.grains[absoluteIndex%uint64(len(d.grains))]
}

func (d *DiscreteFlowData) Info() *Header { return d.header }

func (d *DiscreteFlowData) IsValid() bool {
	if d.header == nil {
		return false
	}
	for _, g := range d.grains {
		if g == nil {
			return false
		}
	}
	return true
}

func (d *DiscreteFlowData) Close() error {
	var firstErr error
	for _, g := range d.grains {
		if g == nil {
			continue
		}
		if err := g.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.headerSeg != nil {
		if err := d.headerSeg.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
