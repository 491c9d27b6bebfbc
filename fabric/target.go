package fabric

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/flowio"
)

// Target receives remote writes for one discrete flow and applies each
// into the matching local grain slot through the same writer path a
// local producer uses, so a reader downstream of a target cannot tell a
// grain arrived over the network. One completion-handling goroutine
// services a target, managed through an errgroup so Close joins it
// cleanly.
type Target struct {
	data     *flow.DiscreteFlowData
	writer   *flowio.Writer
	provider Provider
	endpoint ProviderEndpoint
	log      *slog.Logger

	mu       sync.Mutex
	callback func(index uint64, err error)

	cancel context.CancelFunc
	group  *errgroup.Group
}

// TargetSetup binds kind's provider on addr and starts applying any
// remote writes addressed to data. grainPayloadSize is not used here;
// the payload size that sizes the published TargetInfo's Length field is
// passed to Info.
func TargetSetup(ctx context.Context, data *flow.DiscreteFlowData, kind ProviderKind, addr Endpoint, grainPayloadSize uint64, logger *slog.Logger) (*Target, error) {
	if logger == nil {
		logger = slog.Default()
	}
	provider := newProvider(kind)
	endpoint, err := provider.BindEndpoint(ctx, addr)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	group, runCtx := errgroup.WithContext(runCtx)

	t := &Target{
		data:     data,
		writer:   flowio.NewWriter(data, logger),
		provider: provider,
		endpoint: endpoint,
		log:      logger,
		cancel:   cancel,
		group:    group,
	}

	group.Go(func() error {
		return provider.PollCompletions(runCtx, t.apply)
	})

	return t, nil
}

func (t *Target) apply(evt CompletionEvent) {
	var applyErr error
	if evt.Err != nil {
		applyErr = evt.Err
	} else {
		applyErr = t.applyGrain(evt.Offset, evt.Data)
	}

	t.mu.Lock()
	cb := t.callback
	t.mu.Unlock()
	if cb != nil {
		cb(evt.Offset, applyErr)
	}
	if applyErr != nil {
		t.log.Warn("apply remote grain write failed", "index", evt.Offset, "err", applyErr)
	}
}

func (t *Target) applyGrain(index uint64, data []byte) error {
	info, payload, err := t.writer.OpenGrain(index)
	if err != nil {
		return err
	}
	if uint64(len(data)) != info.GrainSize() {
		return fmt.Errorf("fabric: remote grain %d payload is %d bytes, local slot is %d bytes", index, len(data), info.GrainSize())
	}
	copy(payload, data)
	return t.writer.Commit(info)
}

// SetCompletionCallback registers fn to be invoked once per applied (or
// failed) remote write, with err nil on success.
func (t *Target) SetCompletionCallback(fn func(index uint64, err error)) {
	t.mu.Lock()
	t.callback = fn
	t.mu.Unlock()
}

// Info describes this target for publication to an Initiator.
func (t *Target) Info(kind ProviderKind, grainPayloadSize uint64) TargetInfo {
	local := t.endpoint.LocalEndpoint()
	header := t.data.Info()
	return TargetInfo{
		Provider: kind,
		Node:     local.Node,
		Service:  local.Service,
		Base:     0,
		Length:   header.GrainCount() * grainPayloadSize,
		RKey:     0,
		FlowID:   uuid.UUID(header.ID()),
	}
}

// Close stops accepting new remote writes and joins the completion
// goroutine.
func (t *Target) Close() error {
	t.cancel()
	err := t.endpoint.Close()
	_ = t.group.Wait()
	return err
}
