package domain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/shmseg"
	"github.com/moleksy/mxl/timing"
)

const descriptorFileName = "descriptor.json"
const accessFileName = "access"
const dataFileName = "data"
const grainsDirName = "grains"
const channelsFileName = "channels"

// createStaging makes a hidden, uniquely-named directory under the
// domain that cannot collide with any published flow name (it never
// ends in FlowSuffix), mirroring mkdtemp(".mxl-tmp-XXXXXXXXXXXXXXXX").
func (m *Manager) createStaging() (string, error) {
	dir, err := os.MkdirTemp(m.domain, stagingPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("domain: create staging directory: %w", err)
	}
	return dir, nil
}

// publish chmods the staging directory group/other readable+executable
// and atomically renames it to its final flow name. Both steps mirror
// publishFlowDirectory exactly.
func (m *Manager) publish(staging string, id uuid.UUID) error {
	if err := os.Chmod(staging, 0o755); err != nil {
		return fmt.Errorf("domain: chmod staging directory: %w", err)
	}
	if err := os.Rename(staging, m.flowPath(id)); err != nil {
		return fmt.Errorf("domain: publish flow %s: %w", id, err)
	}
	return nil
}

func (m *Manager) rollback(staging string) {
	if staging == "" {
		return
	}
	if err := os.RemoveAll(staging); err != nil {
		m.log.Error("rollback staging directory failed", "path", staging, "err", err)
	}
}

func writeDescriptor(dir string, descriptor []byte) error {
	if err := os.WriteFile(filepath.Join(dir, descriptorFileName), descriptor, 0o644); err != nil {
		return fmt.Errorf("domain: write descriptor: %w", err)
	}
	return nil
}

func touchAccess(dir string) error {
	f, err := os.OpenFile(filepath.Join(dir, accessFileName), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("domain: touch access file: %w", err)
	}
	return f.Close()
}

func initCommon(h *flow.Header, id uuid.UUID, format flow.Format) {
	now := timing.Now()
	var raw [16]byte
	copy(raw[:], id[:])
	h.SetID(raw)
	h.SetVersion(flow.HeaderVersion)
	h.SetSize(flow.HeaderSize)
	h.SetFormat(format)
	h.SetLastWriteTime(now)
	h.SetLastReadTime(now)
}

// CreateDiscrete builds and publishes a new discrete (grain-indexed)
// flow. On any failure the staging directory is fully rolled back and
// no trace of the flow is left in the domain.
func (m *Manager) CreateDiscrete(id uuid.UUID, descriptor []byte, format flow.Format, grainCount uint64, grainRate flow.Rate, grainPayloadSize uint64) (*flow.DiscreteFlowData, error) {
	format = flow.SanitizeFormat(format)
	if !flow.IsDiscreteFormat(format) {
		return nil, fmt.Errorf("%w: format %v is not discrete", ErrUnsupportedFormat, format)
	}
	if grainCount == 0 || grainPayloadSize == 0 {
		return nil, fmt.Errorf("%w: grainCount and grainPayloadSize must be > 0", ErrInvalidArgument)
	}
	if m.exists(id) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, id)
	}

	staging, err := m.createStaging()
	if err != nil {
		return nil, err
	}

	dfd, err := m.buildDiscrete(staging, id, descriptor, format, grainCount, grainRate, grainPayloadSize)
	if err != nil {
		m.rollback(staging)
		return nil, err
	}

	if err := m.publish(staging, id); err != nil {
		dfd.Close()
		m.rollback(staging)
		return nil, err
	}
	return dfd, nil
}

func (m *Manager) buildDiscrete(staging string, id uuid.UUID, descriptor []byte, format flow.Format, grainCount uint64, grainRate flow.Rate, grainPayloadSize uint64) (*flow.DiscreteFlowData, error) {
	if err := writeDescriptor(staging, descriptor); err != nil {
		return nil, err
	}
	if err := touchAccess(staging); err != nil {
		return nil, err
	}

	headerSeg, err := shmseg.Create(filepath.Join(staging, dataFileName), int(flow.HeaderSize), 0)
	if err != nil {
		return nil, fmt.Errorf("domain: create header segment: %w", err)
	}

	dfd := flow.NewDiscreteFlowData(headerSeg, grainCount)
	initCommon(dfd.Info(), id, format)
	dfd.Info().SetGrainRate(grainRate)
	dfd.Info().SetGrainCount(grainCount)

	grainsDir := filepath.Join(staging, grainsDirName)
	if err := os.Mkdir(grainsDir, 0o755); err != nil {
		dfd.Close()
		return nil, fmt.Errorf("domain: create grains directory: %w", err)
	}

	for i := uint64(0); i < grainCount; i++ {
		seg, err := shmseg.Create(filepath.Join(grainsDir, fmt.Sprintf("%d", i)), flow.GrainInfoSize, int(grainPayloadSize))
		if err != nil {
			dfd.Close()
			return nil, fmt.Errorf("domain: create grain %d: %w", i, err)
		}
		if err := dfd.EmplaceGrain(i, seg, grainPayloadSize); err != nil {
			seg.Close()
			dfd.Close()
			return nil, err
		}
	}

	return dfd, nil
}

// CreateContinuous builds and publishes a new continuous (sample-indexed)
// flow, with the same rollback-on-any-failure contract as CreateDiscrete.
func (m *Manager) CreateContinuous(id uuid.UUID, descriptor []byte, format flow.Format, sampleRate flow.Rate, channelCount, sampleWordSize, bufferLength uint64) (*flow.ContinuousFlowData, error) {
	format = flow.SanitizeFormat(format)
	if !flow.IsContinuousFormat(format) {
		return nil, fmt.Errorf("%w: format %v is not continuous", ErrUnsupportedFormat, format)
	}
	if channelCount == 0 || sampleWordSize == 0 || bufferLength == 0 {
		return nil, fmt.Errorf("%w: channelCount, sampleWordSize and bufferLength must be > 0", ErrInvalidArgument)
	}
	if m.exists(id) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, id)
	}

	staging, err := m.createStaging()
	if err != nil {
		return nil, err
	}

	cfd, err := m.buildContinuous(staging, id, descriptor, format, sampleRate, channelCount, sampleWordSize, bufferLength)
	if err != nil {
		m.rollback(staging)
		return nil, err
	}

	if err := m.publish(staging, id); err != nil {
		cfd.Close()
		m.rollback(staging)
		return nil, err
	}
	return cfd, nil
}

func (m *Manager) buildContinuous(staging string, id uuid.UUID, descriptor []byte, format flow.Format, sampleRate flow.Rate, channelCount, sampleWordSize, bufferLength uint64) (*flow.ContinuousFlowData, error) {
	if err := writeDescriptor(staging, descriptor); err != nil {
		return nil, err
	}
	if err := touchAccess(staging); err != nil {
		return nil, err
	}

	headerSeg, err := shmseg.Create(filepath.Join(staging, dataFileName), int(flow.HeaderSize), 0)
	if err != nil {
		return nil, fmt.Errorf("domain: create header segment: %w", err)
	}

	cfd := flow.NewContinuousFlowData(headerSeg)
	initCommon(cfd.Info(), id, format)
	cfd.Info().SetSampleRate(sampleRate)
	cfd.Info().SetChannelCount(channelCount)
	cfd.Info().SetBufferLength(bufferLength)

	channelSize := int(channelCount * bufferLength * sampleWordSize)
	channelSeg, err := shmseg.Create(filepath.Join(staging, channelsFileName), 0, channelSize)
	if err != nil {
		cfd.Close()
		return nil, fmt.Errorf("domain: create channel segment: %w", err)
	}
	if err := cfd.OpenChannelBuffers(channelSeg, sampleWordSize); err != nil {
		channelSeg.Close()
		cfd.Close()
		return nil, err
	}

	return cfd, nil
}
