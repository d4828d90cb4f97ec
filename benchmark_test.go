// Package birpc provides benchmarks for key operations.
package birpc_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/birpc-go"
	"github.com/felixgeelhaar/birpc-go/middleware"
	"github.com/felixgeelhaar/birpc-go/protocol"
)

// BenchmarkCall measures a full call round trip over an in-memory wire.
func BenchmarkCall(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	left, right := birpc.Pipe()
	client := birpc.New(left)
	server := birpc.New(right)

	_ = server.OnRequest("add", func(ctx context.Context, params json.RawMessage) (any, error) {
		var in struct{ A, B int }
		if err := json.Unmarshal(params, &in); err != nil {
			return nil, birpc.NewInvalidParams()
		}
		return in.A + in.B, nil
	})

	client.Start(ctx)
	server.Start(ctx)
	defer client.Stop()
	defer server.Stop()

	params := map[string]int{"A": 2, "B": 3}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Call(ctx, "add", params); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCall_WithMiddleware measures the round trip with the default
// middleware stack applied on the serving side.
func BenchmarkCall_WithMiddleware(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	left, right := birpc.Pipe()
	client := birpc.New(left)
	server := birpc.New(right, birpc.WithMiddleware(birpc.DefaultMiddleware(middleware.NopLogger{})...))

	_ = server.OnRequest("echo", func(ctx context.Context, params json.RawMessage) (any, error) {
		return params, nil
	})

	client.Start(ctx)
	server.Start(ctx)
	defer client.Stop()
	defer server.Stop()

	params := json.RawMessage(`{"payload":"x"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Call(ctx, "echo", params); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkNotify measures one-way notification throughput.
func BenchmarkNotify(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	left, right := birpc.Pipe()
	client := birpc.New(left)
	server := birpc.New(right)

	_ = server.OnNotification("tick", func(ctx context.Context, params json.RawMessage) error {
		return nil
	})

	client.Start(ctx)
	server.Start(ctx)
	defer client.Stop()
	defer server.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := client.Notify(ctx, "tick", i); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkClassify measures message classification without a wire.
func BenchmarkClassify(b *testing.B) {
	lines := [][]byte{
		[]byte(`{"jsonrpc":"2.0","id":1,"method":"add","params":[1,2]}`),
		[]byte(`{"jsonrpc":"2.0","method":"tick"}`),
		[]byte(`{"jsonrpc":"2.0","id":1,"result":3}`),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var msg protocol.Message
		if err := json.Unmarshal(lines[i%len(lines)], &msg); err != nil {
			b.Fatal(err)
		}
		_ = msg.Kind()
	}
}
