// Package peer implements a bidirectional JSON-RPC 2.0 peer.
package peer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/felixgeelhaar/birpc-go/middleware"
	"github.com/felixgeelhaar/birpc-go/protocol"
	"github.com/felixgeelhaar/birpc-go/transport"
)

// RequestHandler handles an inbound request. The returned value becomes
// the response result; a nil value defaults to an empty positional list
// so the response always carries a result. Returning a *protocol.Error
// sends that error to the remote side verbatim; any other error becomes
// a fixed Internal Error response and the original is surfaced on the
// fault channel.
type RequestHandler func(ctx context.Context, params json.RawMessage) (any, error)

// NotificationHandler handles an inbound notification. No response may
// ever be sent for a notification; a returned error is surfaced on the
// fault channel only.
type NotificationHandler func(ctx context.Context, params json.RawMessage) error

// FaultHandler observes local faults: handler errors, panics, and write
// failures. It never sees protocol-level errors that were reported to
// the remote side as deliberate error responses.
type FaultHandler func(err error)

// outcome carries a settled call result from the read loop to the caller.
type outcome struct {
	result json.RawMessage
	err    *protocol.Error
}

// Peer is a bidirectional JSON-RPC 2.0 endpoint over a line transport.
// It acts as requester and responder at once: the read loop classifies
// each inbound line as a request, notification or response, dispatches
// requests and notifications to registered handlers, and correlates
// responses against calls in flight.
//
// Client and server roles are symmetric; two peers wired back-to-back
// over a transport pair differ only in which handlers they register.
type Peer struct {
	transport transport.Transport

	fault  FaultHandler
	logger middleware.Logger
	chain  []middleware.Middleware

	// nextID is never reset while the peer is alive, even across
	// restarts of the read loop, so correlation IDs are unique for the
	// peer's lifetime.
	nextID atomic.Int64

	mu            sync.Mutex
	requests      map[string]RequestHandler
	notifications map[string]NotificationHandler
	pending       map[int64]chan outcome
	running       bool
	done          chan struct{}
	err           error
}

// Option configures a Peer.
type Option func(*Peer)

// WithFaultHandler sets the callback that observes local handler and
// transport faults. By default faults are logged through the peer's
// logger.
func WithFaultHandler(fn FaultHandler) Option {
	return func(p *Peer) {
		p.fault = fn
	}
}

// WithLogger sets the structured logger used for faults and lifecycle
// events.
func WithLogger(l middleware.Logger) Option {
	return func(p *Peer) {
		p.logger = l
	}
}

// WithMiddleware installs middleware around inbound request dispatch.
// Notifications are not routed through the chain.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(p *Peer) {
		p.chain = append(p.chain, mw...)
	}
}

// New creates a peer over the given transport. The transport is
// borrowed, not owned: stopping the peer leaves it open.
func New(t transport.Transport, opts ...Option) *Peer {
	p := &Peer{
		transport:     t,
		logger:        middleware.NopLogger{},
		requests:      make(map[string]RequestHandler),
		notifications: make(map[string]NotificationHandler),
		pending:       make(map[int64]chan outcome),
		done:          make(chan struct{}),
	}
	close(p.done) // a peer that was never started is already quiescent

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// OnRequest registers a handler for request-style calls on method.
// Registering a second handler for the same method is a configuration
// error.
func (p *Peer) OnRequest(method string, h RequestHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.requests[method]; dup {
		return fmt.Errorf("peer: request handler already registered for %q", method)
	}
	p.requests[method] = h
	return nil
}

// OnNotification registers a handler for notification-style calls on
// method. Registering a second handler for the same method is a
// configuration error.
func (p *Peer) OnNotification(method string, h NotificationHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.notifications[method]; dup {
		return fmt.Errorf("peer: notification handler already registered for %q", method)
	}
	p.notifications[method] = h
	return nil
}

// Call sends a request and blocks until the matching response arrives or
// ctx is done. The pending entry is registered before the request is
// written, so a reply cannot outrun the local bookkeeping. The core
// imposes no timeout of its own: a peer that never replies leaves the
// call waiting until ctx cancels it.
//
// On success the raw result is returned; a remote error response is
// returned as a *protocol.Error.
func (p *Peer) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := p.nextID.Add(1)

	paramsRaw, err := marshalParams(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	ch := make(chan outcome, 1)
	p.mu.Lock()
	p.pending[id] = ch
	p.mu.Unlock()

	msg := &protocol.Message{
		JSONRPC: protocol.Version,
		ID:      protocol.NumericID(id),
		Method:  method,
		Params:  paramsRaw,
	}
	if err := p.write(ctx, msg); err != nil {
		p.abandon(id)
		return nil, err
	}

	select {
	case <-ctx.Done():
		p.abandon(id)
		return nil, ctx.Err()
	case out := <-ch:
		if out.err != nil {
			return nil, out.err
		}
		return out.result, nil
	}
}

// Notify sends a notification. It does not wait for any reply and keeps
// no correlation bookkeeping.
func (p *Peer) Notify(ctx context.Context, method string, params any) error {
	paramsRaw, err := marshalParams(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	msg := &protocol.Message{
		JSONRPC: protocol.Version,
		Method:  method,
		Params:  paramsRaw,
	}
	return p.write(ctx, msg)
}

// Reply sends a response for the given correlation ID. This is a
// low-level primitive, normally only used internally; it is exposed for
// custom dispatch. Exactly one of result and rpcErr is transmitted:
// the protocol forbids both, so the error wins when both are supplied.
func (p *Peer) Reply(ctx context.Context, id int64, result any, rpcErr *protocol.Error) error {
	if rpcErr != nil {
		return p.writeResponse(ctx, protocol.NewErrorResponse(protocol.NumericID(id), rpcErr))
	}

	raw, err := marshalResult(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return p.writeResponse(ctx, protocol.NewResponse(protocol.NumericID(id), raw))
}

// Start begins the read loop. Calling Start on a running peer is a
// no-op. The loop reads lines sequentially and dispatches each without
// waiting for its handler to finish, so initiation order follows
// arrival order while completion order is unconstrained.
func (p *Peer) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.done = make(chan struct{})
	p.err = nil
	handle := p.buildHandler()
	done := p.done
	p.mu.Unlock()

	go p.readLoop(ctx, handle, done)
}

// Stop clears the running flag. The read loop observes it before its
// next read and exits; an in-flight read is not forcibly cancelled, so
// the peer may stay blocked until the transport unblocks it. Calling
// Stop on a stopped peer is a no-op. Pending calls are left unresolved.
func (p *Peer) Stop() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}

// Done returns a channel that is closed once the read loop has exited.
func (p *Peer) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Err returns the terminal transport error that stopped the read loop,
// if any. End-of-stream and context cancellation are not errors.
func (p *Peer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// abandon drops a pending entry without resolving it, after a failed
// write or a caller giving up. Removal is guarded by the same lock as
// settlement, so a late response for the ID hits the not-found branch.
func (p *Peer) abandon(id int64) {
	p.mu.Lock()
	delete(p.pending, id)
	p.mu.Unlock()
}

// readLoop owns exactly one done channel and closes it on exit. The
// channel identity also marks loop ownership: a restart hands the peer
// to a new loop, and a stale loop must not clear its running flag.
func (p *Peer) readLoop(ctx context.Context, handle middleware.HandlerFunc, done chan struct{}) {
	defer func() {
		p.mu.Lock()
		if p.done == done {
			p.running = false
		}
		p.mu.Unlock()
		close(done)
	}()

	for {
		p.mu.Lock()
		running := p.running && p.done == done
		p.mu.Unlock()
		if !running {
			return
		}

		line, err := p.transport.Read(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				p.mu.Lock()
				p.err = err
				p.mu.Unlock()
				p.reportFault(fmt.Errorf("peer: transport read: %w", err))
			}
			return
		}
		if line == "" {
			continue
		}

		p.route(ctx, handle, line)
	}
}

func (p *Peer) write(ctx context.Context, msg *protocol.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.transport.Write(ctx, string(data))
}

func (p *Peer) writeResponse(ctx context.Context, resp *protocol.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	return p.transport.Write(ctx, string(data))
}

func (p *Peer) reportFault(err error) {
	p.logger.Error("fault", middleware.F("error", err.Error()))
	if p.fault != nil {
		p.fault(err)
	}
}

// marshalParams renders params for the wire. A nil value omits the
// params field entirely.
func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	if raw, ok := params.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(params)
}

// marshalResult renders a handler result for the wire. A nil value
// defaults to an empty positional list so the response always carries a
// result, as the protocol requires on success.
func marshalResult(result any) (json.RawMessage, error) {
	if result == nil {
		return json.RawMessage(`[]`), nil
	}
	if raw, ok := result.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(result)
}
