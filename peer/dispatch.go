package peer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/birpc-go/middleware"
	"github.com/felixgeelhaar/birpc-go/protocol"
)

// route classifies one decoded line and invokes exactly one of the three
// handling paths. Requests and notifications run their handlers on their
// own goroutine so the read loop never waits on handler completion;
// response settlement is cheap and stays on the loop.
func (p *Peer) route(ctx context.Context, handle middleware.HandlerFunc, line string) {
	var msg protocol.Message
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		// Not raised to the loop: a malformed line answers itself with
		// a null-ID parse error and the loop moves on.
		if werr := p.writeResponse(ctx, protocol.NewErrorResponse(nil, protocol.NewParseError())); werr != nil {
			p.reportFault(fmt.Errorf("peer: write parse error response: %w", werr))
		}
		return
	}

	switch msg.Kind() {
	case protocol.KindRequest:
		req := msg.Request()
		req.ID = normalizeID(req.ID)
		go p.dispatchRequest(ctx, handle, req)
	case protocol.KindNotification:
		go p.dispatchNotification(ctx, msg.Method, msg.Params)
	case protocol.KindResponse:
		p.settle(&msg)
	default:
		// No reserved code cleanly covers an ambiguous shape without
		// risking masking a legitimate message, so it is dropped.
	}
}

// dispatchRequest runs the middleware chain and the registered handler
// for one inbound request and writes exactly one response for it.
func (p *Peer) dispatchRequest(ctx context.Context, handle middleware.HandlerFunc, req *protocol.Request) {
	resp, err := func() (resp *protocol.Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return handle(ctx, req)
	}()

	if err != nil {
		var rpcErr *protocol.Error
		if errors.As(err, &rpcErr) {
			// Deliberate protocol or application error for the remote
			// side; not a local fault.
			resp = protocol.NewErrorResponse(req.ID, rpcErr)
		} else {
			// The original failure stays local; the remote side only
			// sees the fixed Internal Error.
			p.reportFault(fmt.Errorf("peer: request handler %q: %w", req.Method, err))
			resp = protocol.NewErrorResponse(req.ID, protocol.NewInternalError())
		}
	}

	if resp == nil {
		return
	}
	if werr := p.writeResponse(ctx, resp); werr != nil {
		p.reportFault(fmt.Errorf("peer: write response for %q: %w", req.Method, werr))
	}
}

// dispatchNotification runs the registered notification handler, if any.
// An unknown method is not a fault: the sender cannot observe failures,
// so there is nothing to report and nothing to reply.
func (p *Peer) dispatchNotification(ctx context.Context, method string, params json.RawMessage) {
	p.mu.Lock()
	h, ok := p.notifications[method]
	p.mu.Unlock()
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.reportFault(fmt.Errorf("peer: notification handler %q: panic: %v", method, r))
		}
	}()

	if err := h(ctx, params); err != nil {
		p.reportFault(fmt.Errorf("peer: notification handler %q: %w", method, err))
	}
}

// settle resolves the pending call matching an inbound response. The
// entry is removed atomically with resolution, so a late duplicate for
// the same ID is guaranteed to miss. Unknown IDs are discarded silently:
// the remote side's behavior is not this peer's to police.
func (p *Peer) settle(msg *protocol.Message) {
	id, ok := protocol.ParseID(msg.ID)
	if !ok {
		return
	}

	p.mu.Lock()
	ch, ok := p.pending[id]
	if ok {
		delete(p.pending, id)
	}
	p.mu.Unlock()
	if !ok {
		return
	}

	if msg.Error != nil {
		ch <- outcome{err: msg.Error}
	} else {
		ch <- outcome{result: msg.Result}
	}
}

// buildHandler composes the middleware chain around registry lookup.
// Called under p.mu.
func (p *Peer) buildHandler() middleware.HandlerFunc {
	base := middleware.HandlerFunc(p.handleRequest)
	if len(p.chain) == 0 {
		return base
	}
	return middleware.Chain(p.chain...)(base)
}

// handleRequest is the innermost request handler: registry lookup,
// handler invocation, result marshalling.
func (p *Peer) handleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	p.mu.Lock()
	h, ok := p.requests[req.Method]
	p.mu.Unlock()
	if !ok {
		return nil, protocol.NewMethodNotFound()
	}

	result, err := h(ctx, req.Params)
	if err != nil {
		return nil, err
	}

	raw, err := marshalResult(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return protocol.NewResponse(req.ID, raw), nil
}

// normalizeID coerces a textual wire ID to numeric form before it is
// echoed back, since correlation tables on the remote side are keyed by
// numeric IDs only. IDs that are not numeric at all are echoed as they
// arrived.
func normalizeID(raw json.RawMessage) json.RawMessage {
	if id, ok := protocol.ParseID(raw); ok {
		return protocol.NumericID(id)
	}
	return raw
}
