package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/shmseg"
)

// Open maps an existing published flow for reading (or read-write, for
// a fabric target applying remote writes). CreateReadWrite is not a
// valid mode here — use CreateDiscrete/CreateContinuous to create a new
// flow instead.
func (m *Manager) Open(id uuid.UUID, mode shmseg.AccessMode) (flow.FlowData, error) {
	if mode == shmseg.CreateReadWrite {
		return nil, fmt.Errorf("%w: CreateReadWrite is not a valid Open mode", ErrInvalidArgument)
	}

	path := m.flowPath(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("domain: stat %s: %w", path, err)
	}

	headerSeg, err := shmseg.Open(filepath.Join(path, dataFileName), mode, int(flow.HeaderSize), int(flow.HeaderSize))
	if err != nil {
		return nil, fmt.Errorf("domain: open header for %s: %w", id, err)
	}
	header := (*flow.Header)(headerSeg.Header())

	format := header.Format()
	switch {
	case flow.IsDiscreteFormat(format):
		return m.openDiscrete(path, headerSeg, mode)
	case flow.IsContinuousFormat(format):
		return m.openContinuous(path, headerSeg, mode)
	default:
		headerSeg.Close()
		return nil, fmt.Errorf("%w: flow %s has unrecognized format %v", ErrUnsupportedFormat, id, format)
	}
}

func (m *Manager) openDiscrete(flowDir string, headerSeg *shmseg.Segment, mode shmseg.AccessMode) (*flow.DiscreteFlowData, error) {
	header := (*flow.Header)(headerSeg.Header())
	grainCount := header.GrainCount()

	dfd := flow.NewDiscreteFlowData(headerSeg, grainCount)

	grainsDir := filepath.Join(flowDir, grainsDirName)
	entries, err := os.ReadDir(grainsDir)
	if err != nil {
		dfd.Close()
		return nil, fmt.Errorf("domain: list grains directory: %w", err)
	}
	for _, e := range entries {
		index, err := strconv.ParseUint(e.Name(), 10, 64)
		if err != nil || index >= grainCount {
			continue
		}
		seg, err := shmseg.Open(filepath.Join(grainsDir, e.Name()), mode, flow.GrainInfoSize, flow.GrainInfoSize)
		if err != nil {
			dfd.Close()
			return nil, fmt.Errorf("domain: open grain %d: %w", index, err)
		}
		if err := dfd.EmplaceGrain(index, seg, 0); err != nil {
			seg.Close()
			dfd.Close()
			return nil, err
		}
	}

	if !dfd.IsValid() {
		dfd.Close()
		return nil, fmt.Errorf("domain: flow has fewer grain slots than grainCount=%d", grainCount)
	}
	return dfd, nil
}

func (m *Manager) openContinuous(flowDir string, headerSeg *shmseg.Segment, mode shmseg.AccessMode) (*flow.ContinuousFlowData, error) {
	cfd := flow.NewContinuousFlowData(headerSeg)
	header := cfd.Info()

	channelSeg, err := shmseg.Open(filepath.Join(flowDir, channelsFileName), mode, 0, 0)
	if err != nil {
		cfd.Close()
		return nil, fmt.Errorf("domain: open channels: %w", err)
	}

	// sampleWordSize is not stored in the header; infer it from the
	// mapped channel segment's total size divided by channelCount*bufferLength.
	total := uint64(channelSeg.Size())
	denom := header.ChannelCount() * header.BufferLength()
	sampleWordSize := uint64(0)
	if denom > 0 {
		sampleWordSize = total / denom
	}
	if err := cfd.OpenChannelBuffers(channelSeg, sampleWordSize); err != nil {
		channelSeg.Close()
		cfd.Close()
		return nil, err
	}
	return cfd, nil
}
