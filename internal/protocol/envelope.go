// Package protocol defines the JSON-RPC envelope spoken by the ToyDB API.
//
// The interactive client forwards whatever the user typed; these types are
// used when a request is built programmatically (the select command and the
// editor template) and when a reply is pretty-printed.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Version is the JSON-RPC version sent in every envelope
const Version = "2.0"

// MethodSelect reads rows from a table
const MethodSelect = "select"

// Request is a JSON-RPC 2.0 call
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// SelectParams are the parameters of a select call
type SelectParams struct {
	DBName    string `json:"db_name"`
	TableName string `json:"table_name"`
	Filter    *Expr  `json:"filter,omitempty"`
}

// RPCError is the error member of a failed call
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Response is a JSON-RPC 2.0 reply
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// ErrMissingTable is returned when a select names no database or table
var ErrMissingTable = errors.New("db name and table name are required")

// NewSelect builds a select request with a fresh id. filter may be nil.
func NewSelect(db, table string, filter *Expr) (Request, error) {
	if db == "" || table == "" {
		return Request{}, ErrMissingTable
	}
	return Request{
		JSONRPC: Version,
		ID:      uuid.NewString(),
		Method:  MethodSelect,
		Params: SelectParams{
			DBName:    db,
			TableName: table,
			Filter:    filter,
		},
	}, nil
}

// Encode renders the request as compact JSON
func (r Request) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	return string(data), nil
}

// DecodeResponse parses a reply envelope. A reply carrying an error member
// decodes successfully; callers inspect Response.Error.
func DecodeResponse(body string) (*Response, error) {
	var resp Response
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.JSONRPC != Version {
		return nil, fmt.Errorf("unexpected jsonrpc version %q", resp.JSONRPC)
	}
	return &resp, nil
}

// Pretty indents text when it is valid JSON and returns it unchanged otherwise
func Pretty(text string) string {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return text
	}
	var out bytes.Buffer
	if err := json.Indent(&out, trimmed, "", "  "); err != nil {
		return text
	}
	return out.String()
}

// SelectTemplate is inserted into the editor as a starting point
func SelectTemplate() string {
	req := Request{
		JSONRPC: Version,
		ID:      "1",
		Method:  MethodSelect,
		Params:  SelectParams{DBName: "people", TableName: "friends"},
	}
	data, _ := json.MarshalIndent(req, "", "  ")
	return string(data)
}
