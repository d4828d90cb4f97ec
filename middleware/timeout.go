package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/birpc-go/protocol"
)

// Timeout returns middleware that enforces a deadline on inbound request
// handling. The core imposes no timeout of its own on handlers; this is
// the embedder-side bound for handlers that may suspend indefinitely.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}
