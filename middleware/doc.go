// Package middleware provides composable middleware for inbound request
// dispatch on a birpc peer.
//
// Middleware wrap the peer's request handler chain and run on every
// inbound request before the registered method handler:
//
//	p := peer.New(t,
//	    peer.WithMiddleware(
//	        middleware.Recover(),
//	        middleware.RequestID(),
//	        middleware.Logging(logger),
//	    ),
//	)
//
// Available middleware:
//
//   - Recover: catches handler panics and converts them to errors
//   - RequestID: injects a unique ID into the request context
//   - Logging: structured request logging via the Logger interface
//   - Timeout: enforces a per-request deadline
//   - RateLimit: token-bucket limiting backed by fortify
//   - SizeLimit: rejects oversized params
//   - OTel: OpenTelemetry tracing and metrics
//
// Notifications bypass the chain: the protocol forbids replying to them,
// so rejecting or transforming them here would be unobservable anyway.
package middleware
