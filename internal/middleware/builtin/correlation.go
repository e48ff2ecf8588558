package builtin

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgmcp/postgres-mcp/internal/logging"
	"github.com/pgmcp/postgres-mcp/internal/middleware"
)

// CorrelationIDKey is the context key for the correlation ID
type CorrelationIDKey struct{}

// CorrelationMiddleware tags every tool call with a unique ID so log
// lines from one call can be tied together
type CorrelationMiddleware struct {
	logger *logging.Logger
}

// NewCorrelationMiddleware creates a new correlation middleware
func NewCorrelationMiddleware(logger *logging.Logger) *CorrelationMiddleware {
	return &CorrelationMiddleware{
		logger: logger,
	}
}

// Name returns the middleware name
func (m *CorrelationMiddleware) Name() string {
	return "correlation"
}

// Order returns the execution order. Runs before everything else.
func (m *CorrelationMiddleware) Order() int {
	return -1
}

// Enabled returns whether the middleware is enabled
func (m *CorrelationMiddleware) Enabled() bool {
	return true
}

// Execute executes the middleware
func (m *CorrelationMiddleware) Execute(ctx context.Context, req *middleware.MCPRequest, next middleware.Handler) (*middleware.MCPResponse, error) {
	correlationID := uuid.NewString()
	ctx = context.WithValue(ctx, CorrelationIDKey{}, correlationID)

	if req.Metadata == nil {
		req.Metadata = make(map[string]interface{})
	}
	req.Metadata["correlationId"] = correlationID

	if m.logger != nil {
		m.logger.Debug("Request received", map[string]interface{}{
			"correlationId": correlationID,
			"tool":          req.Method,
		})
	}

	resp, err := next(ctx)

	if resp != nil {
		if resp.Metadata == nil {
			resp.Metadata = make(map[string]interface{})
		}
		resp.Metadata["correlationId"] = correlationID
	}

	return resp, err
}

// CorrelationIDFromContext extracts the correlation ID, if present
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CorrelationIDKey{}).(string)
	return id, ok
}
