// Package transport provides line-oriented transports for birpc peers.
//
// A transport carries newline-delimited JSON-RPC 2.0 objects, one per
// line. The Transport interface is deliberately small, a blocking Read
// and a blocking Write, so any byte stream that can be framed into
// lines can back a peer.
//
// Three implementations ship with the package:
//
//   - Stdio: lines over an io.Reader/io.Writer pair, stdin/stdout by
//     default. The usual choice for subprocess peers.
//   - Pipe: a connected in-memory pair for loopback peers in tests and
//     in-process embeddings.
//   - WebSocket: one text message per line over a gorilla/websocket
//     connection, with Dial and Upgrade helpers for either role.
//
// Transports are borrowed by peers, never owned: stopping a peer leaves
// its transport open, and closing the underlying stream is always the
// embedder's responsibility.
package transport
