// Package protocol defines the JSON-RPC 2.0 message types, classification
// rules and error codes used by birpc-go.
//
// This package provides the low-level wire structures. Most users should
// use the higher-level birpc package instead.
//
// # Message Classification
//
// Every inbound line decodes into a single Message, whose Kind method
// classifies it by field presence alone:
//
//	method + id  -> KindRequest       (a reply is expected)
//	method only  -> KindNotification  (no reply may ever be sent)
//	id only      -> KindResponse      (correlates to an earlier request)
//	neither      -> KindInvalid
//
// # Error Codes
//
// Standard JSON-RPC 2.0 error codes are defined as constants:
//
//	CodeParseError     = -32700  // Invalid JSON
//	CodeInvalidRequest = -32600  // Invalid Request object
//	CodeMethodNotFound = -32601  // Method not found
//	CodeInvalidParams  = -32602  // Invalid method parameters
//	CodeInternalError  = -32603  // Internal error
//
// The matching factories return error objects with fixed messages and no
// data, so local failure detail is never leaked to the peer:
//
//	err := protocol.NewMethodNotFound()
//	err := protocol.NewInternalError()
//
// Application errors use NewError with a code outside the reserved band:
//
//	err := protocol.NewError(1001, "order not found", map[string]any{"id": 7})
package protocol
