package middleware

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/birpc-go/protocol"
)

func TestChain(t *testing.T) {
	t.Run("executes middleware in order", func(t *testing.T) {
		var order []string

		mw := func(name string) Middleware {
			return func(next HandlerFunc) HandlerFunc {
				return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
					order = append(order, name+":before")
					resp, err := next(ctx, req)
					order = append(order, name+":after")
					return resp, err
				}
			}
		}

		handler := HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			order = append(order, "handler")
			return protocol.NewResponse(req.ID, json.RawMessage(`"ok"`)), nil
		})

		wrapped := Chain(mw("first"), mw("second"))(handler)
		_, err := wrapped(context.Background(), &protocol.Request{Method: "test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"first:before", "second:before", "handler", "second:after", "first:after"}
		if len(order) != len(want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
			}
		}
	})

	t.Run("empty chain returns handler unchanged", func(t *testing.T) {
		called := false
		handler := HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			called = true
			return nil, nil
		})

		wrapped := Chain()(handler)
		_, _ = wrapped(context.Background(), &protocol.Request{Method: "test"})

		if !called {
			t.Error("expected handler to be called")
		}
	})
}

func TestMiddlewareChain_Fluent(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	handler := HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		order = append(order, "handler")
		return nil, nil
	})

	wrapped := Use(mw("a")).Append(mw("b")).Then(handler)
	_, _ = wrapped(context.Background(), &protocol.Request{Method: "test"})

	want := []string{"a", "b", "handler"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}
