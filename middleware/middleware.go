package middleware

import "time"

// DefaultStack returns the recommended middleware for a production peer.
// Panic recovery sits outermost; request ID injection runs before
// logging so logged entries carry the request ID.
func DefaultStack(logger Logger) []Middleware {
	return []Middleware{
		Recover(),
		RequestID(),
		Logging(logger),
	}
}

// DefaultStackWithTimeout is DefaultStack with a per-request deadline
// inserted ahead of the handler.
func DefaultStackWithTimeout(logger Logger, timeout time.Duration) []Middleware {
	return []Middleware{
		Recover(),
		RequestID(),
		Timeout(timeout),
		Logging(logger),
	}
}
