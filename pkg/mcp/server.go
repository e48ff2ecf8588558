package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// State tracks where the server is in the MCP lifecycle
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateServing
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateServing:
		return "serving"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// RPCError carries an explicit JSON-RPC error code out of a handler. Any
// other handler error is reported as an internal error.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return e.Message
}

// NewInvalidParamsError creates a handler error that maps to code -32602
func NewInvalidParamsError(format string, args ...interface{}) *RPCError {
	return &RPCError{Code: ErrCodeInvalidParams, Message: fmt.Sprintf(format, args...)}
}

// Server is an MCP protocol server
type Server struct {
	transport *StdioTransport
	handlers  map[string]HandlerFunc
	info      ServerInfo
	caps      ServerCapabilities
	state     State
}

// NewServer creates a new MCP server on the process stdio
func NewServer(name, version string) *Server {
	return NewServerWithTransport(name, version, NewStdioTransport())
}

// NewServerWithTransport creates a new MCP server over an explicit transport
func NewServerWithTransport(name, version string, transport *StdioTransport) *Server {
	return &Server{
		transport: transport,
		handlers:  make(map[string]HandlerFunc),
		info: ServerInfo{
			Name:    name,
			Version: version,
		},
		caps: ServerCapabilities{
			Tools: make(map[string]interface{}),
		},
		state: StateUninitialized,
	}
}

// SetHandler registers a handler for a method
func (s *Server) SetHandler(method string, handler HandlerFunc) {
	s.handlers[method] = handler
}

// SetCapabilities sets server capabilities
func (s *Server) SetCapabilities(caps ServerCapabilities) {
	s.caps = caps
}

// State returns the current lifecycle state
func (s *Server) State() State {
	return s.state
}

// HandleInitialize handles the initialize request
func (s *Server) HandleInitialize(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req InitializeRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, NewInvalidParamsError("failed to parse initialize request: %v", err)
		}
	}

	return InitializeResponse{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    s.caps,
		ServerInfo:      s.info,
	}, nil
}

// Run starts the server and processes messages until the input stream
// closes or the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	s.SetHandler("initialize", s.HandleInitialize)

	for {
		select {
		case <-ctx.Done():
			s.state = StateStopped
			return ctx.Err()
		default:
			line, err := s.transport.ReadLine()
			if err != nil {
				if errors.Is(err, io.EOF) {
					s.state = StateStopped
					return nil
				}
				// A scanner error is sticky (oversized line, broken
				// pipe), so the transport is dead. Stop instead of
				// retrying the same failure forever.
				s.transport.WriteError(err)
				s.state = StateStopped
				return err
			}

			req, err := ParseRequest(line)
			if err != nil {
				resp := CreateErrorResponse(json.RawMessage("null"), ErrCodeParseError,
					fmt.Sprintf("parse error: %v", err), nil)
				if werr := s.transport.WriteMessage(resp); werr != nil {
					s.transport.WriteError(werr)
				}
				continue
			}

			// Notifications never get a response, regardless of outcome
			if req.IsNotification() {
				s.handleNotification(req)
				continue
			}

			resp := s.handleRequest(ctx, req)
			if err := s.transport.WriteMessage(resp); err != nil {
				s.transport.WriteError(err)
				continue
			}
		}
	}
}

func (s *Server) handleNotification(req *JSONRPCRequest) {
	switch req.Method {
	case "notifications/initialized":
		if s.state == StateInitializing {
			s.state = StateServing
		}
	default:
		// Unknown notifications are silently ignored
	}
}

func (s *Server) handleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	if err := ValidateRequest(req); err != nil {
		return CreateErrorResponse(req.ID, ErrCodeInvalidRequest, err.Error(), nil)
	}

	if req.Method == "initialize" {
		if s.state != StateUninitialized {
			return CreateErrorResponse(req.ID, ErrCodeInvalidRequest,
				"server already initialized", nil)
		}
		resp := s.executeHandler(ctx, req)
		if resp.Error == nil {
			s.state = StateInitializing
		}
		return resp
	}

	// Ping is answered in every state
	if req.Method == "ping" {
		return CreateResponse(req.ID, map[string]interface{}{})
	}

	if s.state != StateServing {
		return CreateErrorResponse(req.ID, ErrCodeInvalidRequest,
			fmt.Sprintf("server not initialized: state is %s", s.state), nil)
	}

	return s.executeHandler(ctx, req)
}

func (s *Server) executeHandler(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	handler, exists := s.handlers[req.Method]
	if !exists {
		return CreateErrorResponse(req.ID, ErrCodeMethodNotFound,
			fmt.Sprintf("method not found: %s", req.Method), nil)
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return CreateErrorResponse(req.ID, rpcErr.Code, rpcErr.Message, nil)
		}
		return CreateErrorResponse(req.ID, ErrCodeInternalError, err.Error(), nil)
	}

	return CreateResponse(req.ID, result)
}
