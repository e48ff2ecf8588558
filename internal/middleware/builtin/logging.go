package builtin

import (
	"context"
	"time"

	"github.com/pgmcp/postgres-mcp/internal/logging"
	"github.com/pgmcp/postgres-mcp/internal/middleware"
)

// LoggingMiddleware logs tool calls and their outcomes
type LoggingMiddleware struct {
	logger                *logging.Logger
	enableRequestLogging  bool
	enableResponseLogging bool
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *logging.Logger, enableRequest, enableResponse bool) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger:                logger,
		enableRequestLogging:  enableRequest,
		enableResponseLogging: enableResponse,
	}
}

// Name returns the middleware name
func (m *LoggingMiddleware) Name() string {
	return "logging"
}

// Order returns the execution order
func (m *LoggingMiddleware) Order() int {
	return 2
}

// Enabled returns whether the middleware is enabled
func (m *LoggingMiddleware) Enabled() bool {
	return true
}

// Execute executes the middleware
func (m *LoggingMiddleware) Execute(ctx context.Context, req *middleware.MCPRequest, next middleware.Handler) (*middleware.MCPResponse, error) {
	start := time.Now()

	if m.enableRequestLogging {
		m.logger.Info("Tool call", map[string]interface{}{
			"tool":     req.Method,
			"params":   req.Params,
			"metadata": req.Metadata,
		})
	}

	resp, err := next(ctx)
	duration := time.Since(start)

	if err != nil {
		m.logger.Error("Tool call failed", err, map[string]interface{}{
			"tool":        req.Method,
			"duration_ms": duration.Milliseconds(),
		})
		return nil, err
	}

	if m.enableResponseLogging {
		m.logger.Info("Tool call completed", map[string]interface{}{
			"tool":        req.Method,
			"duration_ms": duration.Milliseconds(),
			"success":     !resp.IsError,
			"metadata":    resp.Metadata,
		})
	}

	return resp, nil
}
