// Package testutil provides testing utilities for birpc peers.
//
// This package helps developers write tests against a real wire: it
// spins up connected peers over an in-memory transport pair so request
// routing, correlation and error mapping are exercised end to end
// without sockets or subprocesses.
//
// Example usage:
//
//	func TestMyService(t *testing.T) {
//	    pair := testutil.NewPeerPair(t)
//	    _ = pair.Server.OnRequest("greet", func(ctx context.Context, params json.RawMessage) (any, error) {
//	        return "hello", nil
//	    })
//
//	    result := pair.Call(t, "greet", nil)
//	    // result is the raw JSON the client saw
//	}
package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/birpc-go/peer"
	"github.com/felixgeelhaar/birpc-go/transport"
)

// CallTimeout bounds calls issued through the pair helpers. The core
// itself never times out a call, so tests must.
const CallTimeout = 5 * time.Second

// PeerPair is a client and server peer wired back-to-back over an
// in-memory transport. Both roles are symmetric; the names only mark
// which side a test usually registers handlers on.
type PeerPair struct {
	Client *peer.Peer
	Server *peer.Peer

	clientEnd *transport.PipeEnd
	serverEnd *transport.PipeEnd
}

// NewPeerPair creates two connected peers and starts both read loops.
// Options apply to both peers. Everything is torn down via t.Cleanup.
func NewPeerPair(t testing.TB, opts ...peer.Option) *PeerPair {
	t.Helper()

	clientEnd, serverEnd := transport.Pipe()
	pair := &PeerPair{
		Client:    peer.New(clientEnd, opts...),
		Server:    peer.New(serverEnd, opts...),
		clientEnd: clientEnd,
		serverEnd: serverEnd,
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		pair.Client.Stop()
		pair.Server.Stop()
		_ = clientEnd.Close()
		_ = serverEnd.Close()
		cancel()
		<-pair.Client.Done()
		<-pair.Server.Done()
	})

	pair.Client.Start(ctx)
	pair.Server.Start(ctx)

	return pair
}

// Call issues a client call and fails the test on error.
func (p *PeerPair) Call(t testing.TB, method string, params any) json.RawMessage {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()

	result, err := p.Client.Call(ctx, method, params)
	if err != nil {
		t.Fatalf("call %q failed: %v", method, err)
	}
	return result
}

// CallErr issues a client call and fails the test unless it errors.
func (p *PeerPair) CallErr(t testing.TB, method string, params any) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()

	_, err := p.Client.Call(ctx, method, params)
	if err == nil {
		t.Fatalf("call %q succeeded, expected error", method)
	}
	return err
}

// Notify sends a client notification and fails the test on error.
func (p *PeerPair) Notify(t testing.TB, method string, params any) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), CallTimeout)
	defer cancel()

	if err := p.Client.Notify(ctx, method, params); err != nil {
		t.Fatalf("notify %q failed: %v", method, err)
	}
}
