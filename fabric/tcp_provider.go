package fabric

import (
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
)

// tcpProvider is the one fully working Provider: a one-sided remote
// write is a length-prefixed frame carrying {grain index, payload},
// read off a plain TCP connection and surfaced through
// PollCompletions. A single provider instance backs at most one bound
// endpoint, mirroring one Target owning one provider.
type tcpProvider struct {
	events chan CompletionEvent
}

func newTCPProvider() *tcpProvider {
	return &tcpProvider{events: make(chan CompletionEvent, 64)}
}

func (p *tcpProvider) Name() string { return "tcp" }

// RegisterRegion returns a token describing mem's extent. tcpProvider
// needs no out-of-band registration step; Base/RKey carry no meaning
// here and are left zero — the Node/Service filled in by the caller
// (via the endpoint BindEndpoint returned) are what actually address
// the region.
func (p *tcpProvider) RegisterRegion(mem []byte) (RegionToken, error) {
	return RegionToken{Provider: p.Name(), Length: uint64(len(mem))}, nil
}

type tcpEndpoint struct {
	listener net.Listener
	events   chan<- CompletionEvent
	closed   atomic.Bool
	wg       sync.WaitGroup
}

func (p *tcpProvider) BindEndpoint(ctx context.Context, addr Endpoint) (ProviderEndpoint, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(addr.Node, addr.Service))
	if err != nil {
		return nil, &FabricError{Provider: p.Name(), Op: "bind", Err: err}
	}
	ep := &tcpEndpoint{listener: ln, events: p.events}
	ep.wg.Add(1)
	go ep.acceptLoop()
	return ep, nil
}

func (e *tcpEndpoint) LocalEndpoint() Endpoint {
	addr := e.listener.Addr().(*net.TCPAddr)
	return Endpoint{Node: addr.IP.String(), Service: strconv.Itoa(addr.Port)}
}

func (e *tcpEndpoint) acceptLoop() {
	defer e.wg.Done()
	for {
		conn, err := e.listener.Accept()
		if err != nil {
			if e.closed.Load() {
				return
			}
			continue
		}
		e.wg.Add(1)
		go e.serveConn(conn)
	}
}

func (e *tcpEndpoint) serveConn(conn net.Conn) {
	defer e.wg.Done()
	defer conn.Close()

	var hdrBuf [writeFrameHeaderSize]byte
	for {
		if _, err := io.ReadFull(conn, hdrBuf[:]); err != nil {
			return
		}
		h, err := decodeWriteFrameHeader(hdrBuf[:])
		if err != nil {
			return
		}
		payload := make([]byte, h.Length)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}

		evt := CompletionEvent{Offset: h.RegionOffset, Length: h.Length, Data: payload}
		if e.closed.Load() {
			return
		}
		e.events <- evt
	}
}

func (e *tcpEndpoint) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := e.listener.Close()
	e.wg.Wait()
	return err
}

// PollCompletions delivers events posted by any endpoint this provider
// bound until ctx is cancelled.
func (p *tcpProvider) PollCompletions(ctx context.Context, onComplete func(CompletionEvent)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt := <-p.events:
			onComplete(evt)
		}
	}
}

// PostRemoteWrite dials target's endpoint fresh for each write (the
// reference implementation favors simplicity over connection reuse). It
// returns once the frame header and payload have been written to the
// connection; it does not wait for the target to apply the write.
func (p *tcpProvider) PostRemoteWrite(ctx context.Context, target RegionToken, offset uint64, data []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(target.Node, target.Service))
	if err != nil {
		return &FabricError{Provider: p.Name(), Op: "dial", Err: err}
	}
	defer conn.Close()

	var hdrBuf [writeFrameHeaderSize]byte
	encodeWriteFrameHeader(&hdrBuf, writeFrameHeader{RegionOffset: offset, Length: uint32(len(data))})
	if _, err := conn.Write(hdrBuf[:]); err != nil {
		return &FabricError{Provider: p.Name(), Op: "write header", Err: err}
	}
	if _, err := conn.Write(data); err != nil {
		return &FabricError{Provider: p.Name(), Op: "write payload", Err: err}
	}
	return nil
}
