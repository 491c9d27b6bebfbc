package fabric

import "context"

// stubProvider satisfies Provider for transports this module cannot
// drive without CGo bindings to a real fabric library. It exists so
// ProviderFromString/ToString and a Provider-typed registry stay total
// over all four provider kinds; every operation reports
// ErrProviderUnavailable.
type stubProvider struct {
	name string
}

func newStubProvider(name string) *stubProvider { return &stubProvider{name: name} }

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) BindEndpoint(ctx context.Context, addr Endpoint) (ProviderEndpoint, error) {
	return nil, &FabricError{Provider: p.name, Op: "bind", Err: ErrProviderUnavailable}
}

func (p *stubProvider) RegisterRegion(mem []byte) (RegionToken, error) {
	return RegionToken{}, &FabricError{Provider: p.name, Op: "register region", Err: ErrProviderUnavailable}
}

func (p *stubProvider) PostRemoteWrite(ctx context.Context, target RegionToken, offset uint64, data []byte) error {
	return &FabricError{Provider: p.name, Op: "post remote write", Err: ErrProviderUnavailable}
}

func (p *stubProvider) PollCompletions(ctx context.Context, onComplete func(CompletionEvent)) error {
	return &FabricError{Provider: p.name, Op: "poll completions", Err: ErrProviderUnavailable}
}
