// Package transport provides line-oriented transports for birpc peers.
package transport

import "context"

// Transport is the byte-oriented line stream a peer reads from and writes
// to. The peer borrows the transport for its lifetime but never owns it:
// closing the underlying stream is the embedder's job.
//
// Read blocks until a full line is available and returns it without the
// trailing newline; it returns io.EOF once the stream is exhausted.
// Write blocks until the line has been accepted by the underlying sink.
type Transport interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, line string) error
}
