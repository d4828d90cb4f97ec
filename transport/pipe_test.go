package transport_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/felixgeelhaar/birpc-go/transport"
)

func TestPipe(t *testing.T) {
	t.Run("lines cross between ends", func(t *testing.T) {
		a, b := transport.Pipe()
		ctx := context.Background()

		go func() {
			_ = a.Write(ctx, "ping")
		}()

		line, err := b.Read(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line != "ping" {
			t.Errorf("Read() = %q, want %q", line, "ping")
		}

		go func() {
			_ = b.Write(ctx, "pong")
		}()

		line, err = a.Read(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line != "pong" {
			t.Errorf("Read() = %q, want %q", line, "pong")
		}
	})

	t.Run("close delivers EOF to both ends", func(t *testing.T) {
		a, b := transport.Pipe()
		_ = a.Close()

		if _, err := b.Read(context.Background()); !errors.Is(err, io.EOF) {
			t.Errorf("Read() error = %v, want io.EOF", err)
		}
		if _, err := a.Read(context.Background()); !errors.Is(err, io.EOF) {
			t.Errorf("Read() error = %v, want io.EOF", err)
		}
		if err := b.Write(context.Background(), "late"); !errors.Is(err, io.ErrClosedPipe) {
			t.Errorf("Write() error = %v, want io.ErrClosedPipe", err)
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		a, _ := transport.Pipe()
		_ = a.Close()
		_ = a.Close()
	})

	t.Run("read honors context", func(t *testing.T) {
		a, _ := transport.Pipe()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if _, err := a.Read(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Read() error = %v, want context.DeadlineExceeded", err)
		}
	})
}
