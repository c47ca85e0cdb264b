package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/printlab/filagrid/internal/project"
)

// Server handles MCP protocol communication
type Server struct {
	session *project.Session
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance with an empty session.
func New() *Server {
	return &Server{
		session: project.NewSession(),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.run(os.Stdin, os.Stdout)
}

// run is the protocol loop. Tool calls are handled off the read loop
// so a later request can reach the task runner while an earlier tool
// is still working; that is what lets a repeated artwork_quantize or
// stl_export supersede the in-flight one instead of queuing behind it.
// Responses are serialized onto the writer and may arrive out of
// request order, which JSON-RPC permits (clients match by id).
func (s *Server) run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)
	var encMu sync.Mutex
	emit := func(resp *MCPResponse) {
		if resp == nil {
			return
		}
		encMu.Lock()
		defer encMu.Unlock()
		if err := encoder.Encode(resp); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}

	var wg sync.WaitGroup
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		// The scanner reuses its buffer between lines and Params keeps
		// a reference into the decoded bytes, so handlers that outlive
		// this iteration need their own copy.
		line := append([]byte(nil), scanner.Bytes()...)

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		if req.Method == "tools/call" {
			wg.Add(1)
			go func() {
				defer wg.Done()
				emit(s.handleRequest(&req))
			}()
			continue
		}
		emit(s.handleRequest(&req))
	}
	wg.Wait()

	s.session.Tasks.CancelAll()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "filagrid-mcp",
				"version": "0.1.0",
			},
		},
	}
}
