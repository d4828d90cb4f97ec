package transport

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket adapts an established WebSocket connection to the line
// transport interface, carrying one JSON object per text message. Both
// peer roles use the same adapter; which side dialed is irrelevant.
type WebSocket struct {
	conn *websocket.Conn

	readTimeout  time.Duration
	writeTimeout time.Duration

	mu sync.Mutex
}

// WebSocketOption configures a WebSocket transport.
type WebSocketOption func(*WebSocket)

// WithWebSocketReadTimeout sets the read timeout for WebSocket messages.
// Zero means no timeout.
func WithWebSocketReadTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.readTimeout = d
	}
}

// WithWebSocketWriteTimeout sets the write timeout for WebSocket messages.
func WithWebSocketWriteTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.writeTimeout = d
	}
}

// NewWebSocket wraps an established WebSocket connection.
func NewWebSocket(conn *websocket.Conn, opts ...WebSocketOption) *WebSocket {
	ws := &WebSocket{
		conn:         conn,
		writeTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(ws)
	}

	return ws
}

// DialWebSocket dials url and returns the connection wrapped as a line
// transport. The caller owns the connection and must close it.
func DialWebSocket(ctx context.Context, url string, opts ...WebSocketOption) (*WebSocket, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return NewWebSocket(conn, opts...), nil
}

// Upgrade upgrades an inbound HTTP request to a WebSocket line transport.
func Upgrade(w http.ResponseWriter, r *http.Request, opts ...WebSocketOption) (*WebSocket, error) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocket(conn, opts...), nil
}

// Conn returns the underlying WebSocket connection.
func (ws *WebSocket) Conn() *websocket.Conn {
	return ws.conn
}

// Read returns the next text message as a line. It returns io.EOF once
// the connection closes normally.
func (ws *WebSocket) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if ws.readTimeout > 0 {
		_ = ws.conn.SetReadDeadline(time.Now().Add(ws.readTimeout))
	}

	_, data, err := ws.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return "", io.EOF
		}
		return "", err
	}
	return string(data), nil
}

// Write sends one line as a text message.
func (ws *WebSocket) Write(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.writeTimeout > 0 {
		_ = ws.conn.SetWriteDeadline(time.Now().Add(ws.writeTimeout))
	}
	return ws.conn.WriteMessage(websocket.TextMessage, []byte(line))
}
