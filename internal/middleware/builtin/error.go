package builtin

import (
	"context"

	"github.com/pgmcp/postgres-mcp/internal/logging"
	"github.com/pgmcp/postgres-mcp/internal/middleware"
)

// ErrorHandlingMiddleware converts handler errors into error responses
// so the protocol layer never sees a bare error from a tool call. It
// runs last so every other middleware observes the converted response.
type ErrorHandlingMiddleware struct {
	logger *logging.Logger
}

// NewErrorHandlingMiddleware creates a new error handling middleware
func NewErrorHandlingMiddleware(logger *logging.Logger) *ErrorHandlingMiddleware {
	return &ErrorHandlingMiddleware{
		logger: logger,
	}
}

// Name returns the middleware name
func (m *ErrorHandlingMiddleware) Name() string {
	return "error-handling"
}

// Order returns the execution order
func (m *ErrorHandlingMiddleware) Order() int {
	return 100
}

// Enabled returns whether the middleware is enabled
func (m *ErrorHandlingMiddleware) Enabled() bool {
	return true
}

// Execute executes the middleware
func (m *ErrorHandlingMiddleware) Execute(ctx context.Context, req *middleware.MCPRequest, next middleware.Handler) (*middleware.MCPResponse, error) {
	resp, err := next(ctx)
	if err != nil {
		m.logger.Error("Unhandled error", err, map[string]interface{}{
			"tool": req.Method,
		})

		return &middleware.MCPResponse{
			Content: []middleware.ContentBlock{
				{Type: "text", Text: "Error: " + err.Error()},
			},
			IsError: true,
			Metadata: map[string]interface{}{
				"error": map[string]interface{}{
					"message": err.Error(),
				},
			},
		}, nil
	}

	return resp, nil
}
