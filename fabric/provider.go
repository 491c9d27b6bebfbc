package fabric

import "context"

// Endpoint names a bindable or dialable network location.
type Endpoint struct {
	Node    string
	Service string
}

// ProviderEndpoint is a bound, listening local endpoint a remote side
// can write to, once it holds a RegionToken naming it.
type ProviderEndpoint interface {
	// LocalEndpoint reports the resolved node/service this endpoint is
	// actually bound on (useful when Service was "0" / ephemeral).
	LocalEndpoint() Endpoint
	// Close stops accepting new remote writes.
	Close() error
}

// RegionToken identifies a remote endpoint and memory region a provider
// can post one-sided writes to — the fields an Initiator needs, taken
// straight off a peer's published TargetInfo. Base/Length/RKey are
// opaque outside the issuing provider, the way the source's remote-key
// handle is.
type RegionToken struct {
	Provider string
	Node     string
	Service  string
	Base     uint64
	Length   uint64
	RKey     uint64
}

// CompletionEvent reports one applied remote write: Offset addresses
// which unit within the region the write targeted (a grain's absolute
// index, for the flows this package moves), and Data is the payload
// that arrived.
type CompletionEvent struct {
	Offset uint64
	Length uint32
	Data   []byte
	Err    error
}

// Provider is the capability set every fabric transport implements:
// bind a local endpoint, register memory for remote writes, post a
// one-sided write to a remote region, and poll for completions that
// arrived on endpoints this provider instance bound.
type Provider interface {
	Name() string
	BindEndpoint(ctx context.Context, addr Endpoint) (ProviderEndpoint, error)
	RegisterRegion(mem []byte) (RegionToken, error)
	PostRemoteWrite(ctx context.Context, target RegionToken, offset uint64, data []byte) error
	PollCompletions(ctx context.Context, onComplete func(CompletionEvent)) error
}
