package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/birpc-go/protocol"
)

func TestTimeout(t *testing.T) {
	t.Run("completes fast handlers", func(t *testing.T) {
		handler := HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return nil, nil
		})

		wrapped := Timeout(time.Second)(handler)
		_, err := wrapped(context.Background(), &protocol.Request{Method: "test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("cancels slow handlers", func(t *testing.T) {
		handler := HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			select {
			case <-time.After(time.Second):
				return nil, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})

		wrapped := Timeout(20 * time.Millisecond)(handler)
		_, err := wrapped(context.Background(), &protocol.Request{Method: "test"})

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error = %v, want context.DeadlineExceeded", err)
		}
	})
}
