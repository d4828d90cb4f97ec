package transport

import (
	"context"
	"io"
	"sync"
)

// Pipe returns two connected in-memory transports. Lines written to one
// end are read from the other, which makes a loopback pair for wiring
// two peers back-to-back in tests or in-process embeddings.
func Pipe() (*PipeEnd, *PipeEnd) {
	ab := make(chan string)
	ba := make(chan string)
	a := &PipeEnd{in: ba, out: ab, done: make(chan struct{})}
	b := &PipeEnd{in: ab, out: ba, done: make(chan struct{})}
	a.peer = b
	b.peer = a
	return a, b
}

// PipeEnd is one side of an in-memory transport pair.
type PipeEnd struct {
	in   <-chan string
	out  chan<- string
	done chan struct{}
	peer *PipeEnd

	closeOnce sync.Once
}

// Read returns the next line written by the other end. It returns io.EOF
// once either end is closed.
func (p *PipeEnd) Read(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.done:
		return "", io.EOF
	case <-p.peer.done:
		return "", io.EOF
	case line := <-p.in:
		return line, nil
	}
}

// Write delivers one line to the other end, blocking until it is read.
func (p *PipeEnd) Write(ctx context.Context, line string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return io.ErrClosedPipe
	case <-p.peer.done:
		return io.ErrClosedPipe
	case p.out <- line:
		return nil
	}
}

// Close marks this end closed. Blocked reads on both ends observe
// end-of-stream and blocked writes fail.
func (p *PipeEnd) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	return nil
}
