package mcp

import "encoding/json"

// JSON-RPC 2.0 message types. The request ID is kept as a raw value so a
// client's choice of string or numeric IDs is echoed back untouched.

// Request is a JSON-RPC 2.0 request or notification (nil ID).
type Request struct {
	ID      json.RawMessage `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no ID.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
}

// ResponseError is a JSON-RPC 2.0 error object.
type ResponseError struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// RPCError is an error that maps onto a JSON-RPC error response.
type RPCError struct {
	Message string
	Code    int
}

func (e *RPCError) Error() string {
	return e.Message
}

// InvalidParams creates an invalid-params RPC error.
func InvalidParams(message string) *RPCError {
	return &RPCError{Code: CodeInvalidParams, Message: message}
}

// InternalError creates an internal-error RPC error.
func InternalError(message string) *RPCError {
	return &RPCError{Code: CodeInternalError, Message: message}
}

// newResponse creates a successful response for id.
func newResponse(id json.RawMessage, result interface{}) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

// newErrorResponse creates an error response for id.
func newErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &ResponseError{
			Code:    code,
			Message: message,
		},
	}
}
