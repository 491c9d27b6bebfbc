package flow

import (
	"fmt"

	"github.com/moleksy/mxl/shmseg"
)

// ContinuousFlowData owns a flow's header segment plus one large
// segment holding a contiguous per-channel sample ring.
type ContinuousFlowData struct {
	headerSeg  *shmseg.Segment
	header     *Header
	channelSeg *shmseg.Segment
	sampleWord uint64
}

// NewContinuousFlowData wraps an already-mapped header segment.
func NewContinuousFlowData(headerSeg *shmseg.Segment) *ContinuousFlowData {
	return &ContinuousFlowData{headerSeg: headerSeg, header: headerFrom(headerSeg)}
}

// OpenChannelBuffers attaches the channel-data segment. sampleWordSize is
// the byte width of one sample on one channel (e.g. 4 for float32 audio).
func (c *ContinuousFlowData) OpenChannelBuffers(seg *shmseg.Segment, sampleWordSize uint64) error {
	if sampleWordSize == 0 {
		return fmt.Errorf("flow: sample word size must be > 0")
	}
	c.channelSeg = seg
	c.sampleWord = sampleWordSize
	return nil
}

// ChannelPointer returns the byte slice backing channel ch's ring:
// bufferLength*sampleWordSize bytes starting at
// ch*bufferLength*sampleWordSize within the channel-data segment.
func (c *ContinuousFlowData) ChannelPointer(ch uint64) ([]byte, error) {
	if c.channelSeg == nil {
		return nil, fmt.Errorf("flow: channel buffers not opened")
	}
	count := c.header.ChannelCount()
	if ch >= count {
		return nil, fmt.Errorf("flow: channel %d out of range [0,%d)", ch, count)
	}
	stride := c.header.BufferLength() * c.sampleWord
	start := ch * stride
	payload := c.channelSeg.Payload()
	if start+stride > uint64(len(payload)) {
		return nil, fmt.Errorf("flow: channel %d range exceeds mapped payload", ch)
	}
	return payload[start : start+stride], nil
}

// SampleWordSize returns the configured per-sample byte width.
func (c *ContinuousFlowData) SampleWordSize() uint64 { return c.sampleWord }

func (c *ContinuousFlowData) Info() *Header { return c.header }

func (c *ContinuousFlowData) IsValid() bool {
	return c.header != nil && c.channelSeg != nil
}

func (c *ContinuousFlowData) Close() error {
	var firstErr error
	if c.channelSeg != nil {
		if err := c.channelSeg.Close(); err != nil {
			firstErr = err
		}
	}
	if c.headerSeg != nil {
		if err := c.headerSeg.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
