package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.ListingQuerier over a Unix domain socket.
//
//   Method      Params              Result
//   ─────────   ─────────────────   ─────────────────────
//   Listings    {Filter: string}    []Listing
//   Listing     {ID: string}        Listing
//   Health      (none)              {listing_count: int64}
//
// Filter takes the wire values "all", "rent" and "buy"; empty or null params
// mean "all".
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params (including unknown filters)
//   -32603  Internal error (marshal failure)
//   -32000  Application error (query failure)
//   -32004  Listing not found

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
	codeApplication    = -32000
	codeNotFound       = -32004
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// Is maps the not-found code onto model.ErrNotFound.
func (e *RPCError) Is(target error) bool {
	return target == model.ErrNotFound && e.Code == codeNotFound
}

// ListingsParams are the params of the Listings method.
type ListingsParams struct {
	Filter string
}

// ListingParams are the params of the Listing method.
type ListingParams struct {
	ID string
}

// HealthResult is the result of the Health method.
type HealthResult struct {
	ListingCount int64 `json:"listing_count"`
}

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/marsestate/marsestate.sock, falling back to
// ~/.local/state/marsestate/marsestate.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "marsestate", "marsestate.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/marsestate.sock"
	}
	return filepath.Join(home, ".local", "state", "marsestate", "marsestate.sock")
}
