// Package protocol implements the newline-delimited JSON request protocol
// spoken over the motor's unix socket.
//
// Every request carries an id echoed back on the response, a method name
// and optional params. Responses carry either a result or an error object,
// never both.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Supported methods.
const (
	MethodAnalyze  = "analyze"
	MethodFileTree = "file_tree"
	MethodShutdown = "shutdown"
)

var (
	// ErrMalformedRequest is returned for unparseable JSON or a request
	// missing its id or method.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnknownMethod is returned for a method outside the protocol.
	ErrUnknownMethod = errors.New("unknown method")
)

// Params holds the optional request parameters. Root selects the directory
// to operate on; Extensions overrides the configured extension list when
// non-empty.
type Params struct {
	Root       string   `json:"root"`
	Extensions []string `json:"extensions"`
}

// Request is a parsed protocol request.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params Params `json:"params"`
}

// ParseRequest decodes and validates one request line. The id and method
// keys must both be present; params may be omitted entirely.
func ParseRequest(data []byte) (*Request, error) {
	var raw struct {
		ID     *string `json:"id"`
		Method *string `json:"method"`
		Params Params  `json:"params"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if raw.ID == nil || raw.Method == nil {
		return nil, fmt.Errorf("%w: id and method are required", ErrMalformedRequest)
	}

	switch *raw.Method {
	case MethodAnalyze, MethodFileTree, MethodShutdown:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, *raw.Method)
	}

	return &Request{
		ID:     *raw.ID,
		Method: *raw.Method,
		Params: raw.Params,
	}, nil
}

type errorBody struct {
	Message string `json:"message"`
}

type response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  *errorBody  `json:"error,omitempty"`
}

// SuccessResponse serializes a result envelope for the given request id.
func SuccessResponse(id string, result interface{}) []byte {
	data, err := json.Marshal(response{ID: id, Result: result})
	if err != nil {
		return ErrorResponse(id, "failed to serialize response: "+err.Error())
	}
	return data
}

// ErrorResponse serializes an error envelope. The id may be empty when the
// request could not be parsed far enough to recover one.
func ErrorResponse(id, message string) []byte {
	data, _ := json.Marshal(response{ID: id, Error: &errorBody{Message: message}})
	return data
}

// FileTreeResult is the result payload of the file_tree method.
type FileTreeResult struct {
	Files      []string `json:"files"`
	TotalFiles int      `json:"total_files"`
}

// ShutdownResult is the result payload of the shutdown method.
type ShutdownResult struct {
	Status string `json:"status"`
}
