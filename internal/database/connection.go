package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgmcp/postgres-mcp/internal/config"
	"github.com/pgmcp/postgres-mcp/internal/logging"
)

// Client runs operations against PostgreSQL. Every operation opens a
// fresh connection and closes it before returning, so the server holds
// no connection between requests.
type Client struct {
	cfg    *config.DatabaseConfig
	logger *logging.Logger
}

// NewClient creates a new database client
func NewClient(cfg *config.DatabaseConfig, logger *logging.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

// ValidationError reports a statement rejected before reaching the
// database.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// connect opens a session and applies the configured statement timeout.
// Failures here are connection failures, distinct from query failures
// reported by the operations themselves.
func (c *Client) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, c.cfg.ConnString())
	if err != nil {
		c.logger.Error("database connection failed", err, map[string]interface{}{
			"host":  c.cfg.GetHost(),
			"port":  c.cfg.GetPort(),
			"stage": "connect",
		})
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	if timeout := c.cfg.GetStatementTimeout(); timeout > 0 {
		if _, err := conn.Exec(ctx, fmt.Sprintf("SET statement_timeout = %d", timeout.Milliseconds())); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("connection failed: %w", err)
		}
	}

	return conn, nil
}

// Ping verifies that the database is reachable
func (c *Client) Ping(ctx context.Context) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	return conn.Ping(ctx)
}

// queryRows opens a connection, runs a query and scans every row.
func (c *Client) queryRows(ctx context.Context, sql string, args ...interface{}) ([]Row, []string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		c.logger.Error("query execution failed", err, map[string]interface{}{"stage": "query"})
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}

	scanned, columns, err := scanRows(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	return scanned, columns, nil
}
