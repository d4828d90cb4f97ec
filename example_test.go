package birpc_test

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/birpc-go"
)

// Example demonstrates two peers talking JSON-RPC 2.0 in both
// directions over an in-memory transport.
func Example() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	left, right := birpc.Pipe()
	client := birpc.New(left)
	server := birpc.New(right)

	// The "server" side registers a request handler.
	_ = server.OnRequest("sum", func(ctx context.Context, params json.RawMessage) (any, error) {
		var nums []int
		if err := json.Unmarshal(params, &nums); err != nil {
			return nil, birpc.NewInvalidParams()
		}
		total := 0
		for _, n := range nums {
			total += n
		}
		return total, nil
	})

	// The "client" side can serve notifications too.
	notified := make(chan struct{})
	_ = client.OnNotification("progress", func(ctx context.Context, params json.RawMessage) error {
		var pct int
		_ = json.Unmarshal(params, &pct)
		fmt.Printf("progress: %d%%\n", pct)
		close(notified)
		return nil
	})

	client.Start(ctx)
	server.Start(ctx)
	defer client.Stop()
	defer server.Stop()

	_ = server.Notify(ctx, "progress", 50)
	<-notified

	result, err := client.Call(ctx, "sum", []int{1, 2, 3})
	if err != nil {
		fmt.Println("call failed:", err)
		return
	}
	fmt.Println("sum:", string(result))

	// Output:
	// progress: 50%
	// sum: 6
}
