package protocol

import (
	"encoding/json"
	"strconv"
)

// Version is the JSON-RPC protocol version.
const Version = "2.0"

// Kind classifies a decoded wire message.
type Kind int

const (
	// KindInvalid marks a message that carries neither a method nor an ID.
	KindInvalid Kind = iota
	// KindRequest is a call expecting a reply (method and ID present).
	KindRequest
	// KindNotification is a call with no reply possible (method, no ID).
	KindNotification
	// KindResponse is a reply to an earlier request (ID, no method).
	KindResponse
)

// Message is the combined wire form of a JSON-RPC 2.0 object. A single
// decode into Message is enough to classify any inbound line; ID, params
// and result stay raw so classification never depends on their contents.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Kind classifies the message by which fields are present on the wire.
// Presence of an ID is the sole discriminator between a request and a
// notification; a message with an ID and no method is a response.
func (m *Message) Kind() Kind {
	switch {
	case m.Method != "" && len(m.ID) > 0:
		return KindRequest
	case m.Method != "":
		return KindNotification
	case len(m.ID) > 0:
		return KindResponse
	default:
		return KindInvalid
	}
}

// Request returns the request view of the message.
func (m *Message) Request() *Request {
	return &Request{
		JSONRPC: m.JSONRPC,
		ID:      m.ID,
		Method:  m.Method,
		Params:  m.Params,
	}
}

// Request represents a JSON-RPC 2.0 request or notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification returns true if this request has no ID (is a notification).
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response represents a JSON-RPC 2.0 response. The ID field is always
// emitted: a nil ID marshals as null, which is the required form for
// replies to messages that could not be correlated.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResponse creates a successful response.
func NewResponse(id json.RawMessage, result json.RawMessage) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id json.RawMessage, err *Error) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   err,
	}
}

// ParseID extracts a numeric correlation ID from its raw wire form.
// IDs that arrived as JSON strings are coerced to numeric form, since
// correlation tables are keyed by integers only. Returns false for
// absent, null, or non-numeric IDs.
func ParseID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		// Unmarshalling the null token into an int64 is a no-op that
		// reports success, so it must be rejected up front.
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// NumericID renders a correlation ID in its canonical wire form.
func NumericID(id int64) json.RawMessage {
	return json.RawMessage(strconv.FormatInt(id, 10))
}
