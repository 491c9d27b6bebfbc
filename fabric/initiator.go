package fabric

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/moleksy/mxl/flow"
)

// Initiator owns a reader-side discrete flow and a registry of remote
// targets, and fans a grain out to every registered target concurrently.
// A per-target failure is reported back to the caller for that target
// only; it does not cancel delivery to the others.
type Initiator struct {
	data *flow.DiscreteFlowData
	log  *slog.Logger

	mu      sync.RWMutex
	targets map[string]registeredTarget
}

type registeredTarget struct {
	info     TargetInfo
	provider Provider
}

// InitiatorSetup wraps a reader-side discrete flow for fan-out transfer.
func InitiatorSetup(data *flow.DiscreteFlowData, logger *slog.Logger) *Initiator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Initiator{data: data, log: logger, targets: make(map[string]registeredTarget)}
}

// AddTarget registers a remote target described by info, keyed by its
// string encoding so the same target can't be added twice under
// different in-memory TargetInfo values.
func (in *Initiator) AddTarget(info TargetInfo) string {
	key := TargetInfoToString(info)
	in.mu.Lock()
	in.targets[key] = registeredTarget{info: info, provider: newProvider(info.Provider)}
	in.mu.Unlock()
	return key
}

// RemoveTarget unregisters the target previously returned by AddTarget.
// It reports whether a target was actually removed.
func (in *Initiator) RemoveTarget(key string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.targets[key]; !ok {
		return false
	}
	delete(in.targets, key)
	return true
}

// TransferResult reports one target's outcome from a fan-out transfer.
type TransferResult struct {
	Key string
	Err error
}

// TransferGrain reads grain absoluteIndex locally (it must already be
// committed) and posts it to every registered target concurrently,
// returning one result per target regardless of individual failures.
func (in *Initiator) TransferGrain(ctx context.Context, absoluteIndex uint64) ([]TransferResult, error) {
	g := in.data.Grain(absoluteIndex)
	if g == nil || !g.Info.IsVisible() || g.Info.Index() != absoluteIndex {
		return nil, fmt.Errorf("fabric: grain %d is not committed locally", absoluteIndex)
	}
	payload := g.Payload()[:g.Info.GrainSize()]

	in.mu.RLock()
	keys := make([]string, 0, len(in.targets))
	for k := range in.targets {
		keys = append(keys, k)
	}
	in.mu.RUnlock()

	results := make([]TransferResult, len(keys))
	group, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		group.Go(func() error {
			err := in.transferTo(gctx, key, absoluteIndex, payload)
			results[i] = TransferResult{Key: key, Err: err}
			return nil // per-target errors never cancel the group
		})
	}
	_ = group.Wait()
	return results, nil
}

// TransferGrainToTarget posts grain absoluteIndex to a single
// previously registered target.
func (in *Initiator) TransferGrainToTarget(ctx context.Context, key string, absoluteIndex uint64) error {
	g := in.data.Grain(absoluteIndex)
	if g == nil || !g.Info.IsVisible() || g.Info.Index() != absoluteIndex {
		return fmt.Errorf("fabric: grain %d is not committed locally", absoluteIndex)
	}
	payload := g.Payload()[:g.Info.GrainSize()]
	return in.transferTo(ctx, key, absoluteIndex, payload)
}

func (in *Initiator) transferTo(ctx context.Context, key string, absoluteIndex uint64, payload []byte) error {
	in.mu.RLock()
	rt, ok := in.targets[key]
	in.mu.RUnlock()
	if !ok {
		return ErrTargetNotFound
	}

	token := RegionToken{
		Provider: ProviderToString(rt.info.Provider),
		Node:     rt.info.Node,
		Service:  rt.info.Service,
		Base:     rt.info.Base,
		Length:   rt.info.Length,
		RKey:     rt.info.RKey,
	}
	return rt.provider.PostRemoteWrite(ctx, token, absoluteIndex, payload)
}
