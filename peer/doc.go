// Package peer implements a bidirectional JSON-RPC 2.0 peer over a
// line-oriented transport.
//
// A Peer acts as requester and responder at once. Its read loop pulls
// newline-delimited JSON objects from the transport, classifies each as
// a request, notification or response, and routes it: requests and
// notifications go to registered handlers, responses settle calls in
// flight. Handlers run concurrently with the loop, so a slow handler
// never stalls inbound traffic.
//
//	a, b := transport.Pipe()
//
//	server := peer.New(a)
//	server.OnRequest("echo", func(ctx context.Context, params json.RawMessage) (any, error) {
//	    return params, nil
//	})
//	server.Start(ctx)
//
//	client := peer.New(b)
//	client.Start(ctx)
//	result, err := client.Call(ctx, "echo", "hello")
//
// Correlation IDs are assigned from a strictly increasing counter that
// is never reused for the peer's lifetime. A pending call is registered
// before its request reaches the transport, so even an instant reply
// finds its entry. The core enforces no timeouts anywhere: bounding a
// call is the caller's job via its context.
package peer
