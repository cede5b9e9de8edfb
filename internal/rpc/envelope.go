package rpc

import (
	"encoding/json"
	"fmt"
)

// Version is the JSON-RPC protocol version stamped on every envelope
const Version = "2.0"

// Wire error codes
const (
	CodeParseError     = -32700
	CodeInvalidParams  = -32602
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is one framed request envelope. ID is a pointer so that
// notifications and error replies without a known id serialize as null.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is one framed response envelope. Exactly one of Result or
// Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the error member of a response envelope
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// NewRequest builds a request envelope with marshaled params.
// A nil params value produces an envelope without a params member.
func NewRequest(id int64, method string, params any) (*Request, error) {
	req := &Request{
		JSONRPC: Version,
		ID:      NewID(id),
		Method:  method,
	}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params for %s: %w", method, err)
		}
		req.Params = data
	}
	return req, nil
}

// NewResult builds a success response envelope for the given request id
func NewResult(id *int64, result any) (*Response, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &Response{JSONRPC: Version, ID: id, Result: data}, nil
}

// NewError builds an error response envelope. id may be nil when the
// failing request's id could not be determined (parse errors).
func NewError(id *int64, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}

// NewID returns a pointer to the given correlation id
func NewID(n int64) *int64 {
	return &n
}
