// Package birpc provides a bidirectional JSON-RPC 2.0 peer for Go.
//
// birpc-go treats both ends of a connection as equals: each side can
// issue calls, send notifications, and serve incoming requests over a
// single line-oriented transport. It provides:
//   - A symmetric peer with outbound call correlation
//   - Gin-style middleware chains for inbound requests
//   - Pluggable transports (stdio, in-memory pipe, WebSocket)
//   - Production-ready defaults
//
// Basic usage:
//
//	p := birpc.New(birpc.NewStdioTransport())
//
//	p.OnRequest("add", func(ctx context.Context, params json.RawMessage) (any, error) {
//	    var in struct{ A, B int }
//	    if err := json.Unmarshal(params, &in); err != nil {
//	        return nil, birpc.NewInvalidParams()
//	    }
//	    return in.A + in.B, nil
//	})
//
//	p.Start(ctx)
//	result, err := p.Call(ctx, "remote.method", map[string]int{"x": 1})
package birpc

import (
	"context"
	"time"

	"github.com/felixgeelhaar/birpc-go/middleware"
	"github.com/felixgeelhaar/birpc-go/peer"
	"github.com/felixgeelhaar/birpc-go/protocol"
	"github.com/felixgeelhaar/birpc-go/transport"
)

// Re-export core types for convenience

// Peer is a bidirectional JSON-RPC 2.0 endpoint.
type Peer = peer.Peer

// Option configures a Peer.
type Option = peer.Option

// RequestHandler serves an incoming request and produces its result.
type RequestHandler = peer.RequestHandler

// NotificationHandler serves an incoming notification.
type NotificationHandler = peer.NotificationHandler

// FaultHandler receives locally observed faults that have no caller to
// report to.
type FaultHandler = peer.FaultHandler

// Error is a JSON-RPC 2.0 error object.
type Error = protocol.Error

// Transport carries newline-delimited JSON-RPC messages.
type Transport = transport.Transport

// Peer option re-exports.
var (
	WithFaultHandler = peer.WithFaultHandler
	WithLogger       = peer.WithLogger
	WithMiddleware   = peer.WithMiddleware
)

// Error factory re-exports.
var (
	NewError          = protocol.NewError
	NewParseError     = protocol.NewParseError
	NewInvalidRequest = protocol.NewInvalidRequest
	NewMethodNotFound = protocol.NewMethodNotFound
	NewInvalidParams  = protocol.NewInvalidParams
	NewInternalError  = protocol.NewInternalError
)

// Reserved error codes.
const (
	CodeParseError     = protocol.CodeParseError
	CodeInvalidRequest = protocol.CodeInvalidRequest
	CodeMethodNotFound = protocol.CodeMethodNotFound
	CodeInvalidParams  = protocol.CodeInvalidParams
	CodeInternalError  = protocol.CodeInternalError
)

// Middleware types
type Middleware = middleware.Middleware
type MiddlewareHandlerFunc = middleware.HandlerFunc
type Logger = middleware.Logger
type LogField = middleware.Field

// RateLimit re-exports for convenience.
type RateLimitOption = middleware.RateLimitOption

var (
	RateLimit            = middleware.RateLimit
	RateLimitByMethod    = middleware.RateLimitByMethod
	WithRateLimitKeyFunc = middleware.WithRateLimitKeyFunc
	WithRateLimitLogger  = middleware.WithRateLimitLogger
)

// SizeLimit re-exports for convenience.
type SizeLimitOption = middleware.SizeLimitOption

var (
	SizeLimit           = middleware.SizeLimit
	WithSizeLimitLogger = middleware.WithSizeLimitLogger
)

// Size limit presets.
const (
	KB = middleware.KB
	MB = middleware.MB
)

// New creates a peer over the given transport.
func New(t Transport, opts ...Option) *Peer {
	return peer.New(t, opts...)
}

// StdioOption configures the stdio transport.
type StdioOption = transport.StdioOption

// NewStdioTransport creates a transport over standard input and output.
func NewStdioTransport(opts ...StdioOption) *transport.Stdio {
	return transport.NewStdio(opts...)
}

// StdioPeer creates a peer over standard input and output, the usual
// arrangement for a subprocess speaking JSON-RPC with its parent.
func StdioPeer(opts ...Option) *Peer {
	return peer.New(transport.NewStdio(), opts...)
}

// Pipe creates a connected in-memory transport pair, useful for tests
// and in-process peers.
func Pipe() (*transport.PipeEnd, *transport.PipeEnd) {
	return transport.Pipe()
}

// WebSocketOption configures the WebSocket transport.
type WebSocketOption = transport.WebSocketOption

// DialWebSocket connects to a WebSocket endpoint and returns a peer
// over the connection.
func DialWebSocket(ctx context.Context, url string, peerOpts []Option, wsOpts ...WebSocketOption) (*Peer, error) {
	t, err := transport.DialWebSocket(ctx, url, wsOpts...)
	if err != nil {
		return nil, err
	}
	return peer.New(t, peerOpts...), nil
}

// WithWebSocketReadTimeout sets the read timeout for WebSocket messages.
func WithWebSocketReadTimeout(d time.Duration) WebSocketOption {
	return transport.WithWebSocketReadTimeout(d)
}

// WithWebSocketWriteTimeout sets the write timeout for WebSocket messages.
func WithWebSocketWriteTimeout(d time.Duration) WebSocketOption {
	return transport.WithWebSocketWriteTimeout(d)
}

// Middleware re-exports

// Chain composes multiple middleware into a single middleware.
func Chain(middlewares ...Middleware) Middleware {
	return middleware.Chain(middlewares...)
}

// Recover returns middleware that catches panics in request handlers.
func Recover() Middleware {
	return middleware.Recover()
}

// Timeout returns middleware that enforces a request deadline.
func Timeout(d time.Duration) Middleware {
	return middleware.Timeout(d)
}

// RequestID returns middleware that injects a unique request ID into the context.
func RequestID() Middleware {
	return middleware.RequestID()
}

// RequestIDFromContext returns the request ID from the context, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	return middleware.RequestIDFromContext(ctx)
}

// Logging returns middleware that logs request details.
func Logging(logger Logger) Middleware {
	return middleware.Logging(logger)
}

// DefaultMiddleware returns the recommended production middleware stack.
func DefaultMiddleware(logger Logger) []Middleware {
	return middleware.DefaultStack(logger)
}

// DefaultMiddlewareWithTimeout returns the default stack with a timeout middleware.
func DefaultMiddlewareWithTimeout(logger Logger, timeout time.Duration) []Middleware {
	return middleware.DefaultStackWithTimeout(logger, timeout)
}

// LogF creates a new log field with the given key and value.
func LogF(key string, value any) LogField {
	return middleware.F(key, value)
}
