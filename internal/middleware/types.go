package middleware

import "context"

// MCPRequest is a tool invocation travelling through the chain. Method
// carries the tool name, Params the decoded tool arguments.
type MCPRequest struct {
	Method   string                 `json:"method"`
	Params   map[string]interface{} `json:"params,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// MCPResponse is the tool-call response produced at the end of the chain
type MCPResponse struct {
	Content  []ContentBlock         `json:"content,omitempty"`
	IsError  bool                   `json:"isError,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ContentBlock represents a content block in a response
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Handler is a function that handles a request
type Handler func(ctx context.Context) (*MCPResponse, error)

// Middleware is the interface that all middleware must implement
type Middleware interface {
	Name() string
	Order() int
	Enabled() bool
	Execute(ctx context.Context, req *MCPRequest, next Handler) (*MCPResponse, error)
}
