// Package protocol defines the JSON-RPC 2.0 message types and error codes.
package protocol

import "fmt"

// Standard JSON-RPC 2.0 error codes. Codes in the reserved band
// (-32768 to -32000) belong to the protocol; application-defined codes
// must fall outside it.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Implementation-defined server error codes (-32000 to -32099).
const (
	CodeRateLimited = -32003
)

// Reserved band boundaries.
const (
	reservedCodeMin = -32768
	reservedCodeMax = -32000
)

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: %s (code: %d)", e.Message, e.Code)
}

// Is implements errors.Is comparison by error code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithData returns a copy of the error with additional data attached.
func (e *Error) WithData(data any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Data:    data,
	}
}

// Reserved returns true if the code falls in the protocol-reserved band.
func Reserved(code int) bool {
	return code >= reservedCodeMin && code <= reservedCodeMax
}

// The reserved-error factories return value-equal error objects with the
// protocol's fixed message strings and no data attached. Detail that must
// not be leaked to the peer belongs on the local fault channel, not here.

// NewParseError creates a parse error (-32700).
func NewParseError() *Error {
	return &Error{Code: CodeParseError, Message: "Parse error"}
}

// NewInvalidRequest creates an invalid request error (-32600).
func NewInvalidRequest() *Error {
	return &Error{Code: CodeInvalidRequest, Message: "Invalid Request"}
}

// NewMethodNotFound creates a method not found error (-32601).
func NewMethodNotFound() *Error {
	return &Error{Code: CodeMethodNotFound, Message: "Method not found"}
}

// NewInvalidParams creates an invalid params error (-32602).
func NewInvalidParams() *Error {
	return &Error{Code: CodeInvalidParams, Message: "Invalid params"}
}

// NewInternalError creates an internal error (-32603).
func NewInternalError() *Error {
	return &Error{Code: CodeInternalError, Message: "Internal error"}
}

// NewError creates an application-level error with an arbitrary code,
// message and optional structured diagnostic data. Application codes
// should fall outside the reserved band; see Reserved.
func NewError(code int, message string, data any) *Error {
	return &Error{Code: code, Message: message, Data: data}
}
