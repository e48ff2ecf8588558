package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgmcp/postgres-mcp/internal/validation"
)

// QueryResult is the outcome of a successful query execution
type QueryResult struct {
	Success      bool     `json:"success"`
	Rows         []Row    `json:"rows"`
	RowCount     int      `json:"row_count"`
	Columns      []string `json:"columns,omitempty"`
	RowsAffected int64    `json:"rows_affected,omitempty"`
	Truncated    bool     `json:"truncated,omitempty"`
}

// ExplainResult is the outcome of an explain operation
type ExplainResult struct {
	Success bool        `json:"success"`
	Plan    interface{} `json:"plan"`
}

// ExecuteQuery validates and runs a single SQL statement. The statement
// is validated before any connection is opened; maxRows of zero means
// no row cap.
func (c *Client) ExecuteQuery(ctx context.Context, sql string, allowWrite bool, maxRows int) (*QueryResult, error) {
	verdict := validation.Validate(sql, allowWrite)
	if !verdict.Allowed {
		c.logger.Warn("query rejected by validation", map[string]interface{}{
			"kind":   string(verdict.Kind),
			"reason": verdict.Reason,
		})
		return nil, &ValidationError{Reason: verdict.Reason}
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	if verdict.Kind == validation.KindWrite {
		return c.executeWrite(ctx, conn, sql)
	}

	rows, err := conn.Query(ctx, sql)
	if err != nil {
		c.logger.Error("query execution failed", err, map[string]interface{}{"stage": "query"})
		return nil, fmt.Errorf("query failed: %w", err)
	}

	scanned, columns, err := scanRows(rows)
	if err != nil {
		c.logger.Error("query execution failed", err, map[string]interface{}{"stage": "scan"})
		return nil, fmt.Errorf("query failed: %w", err)
	}

	result := &QueryResult{
		Success: true,
		Rows:    scanned,
		Columns: columns,
	}
	if maxRows > 0 && len(result.Rows) > maxRows {
		result.Rows = result.Rows[:maxRows]
		result.Truncated = true
	}
	result.RowCount = len(result.Rows)

	return result, nil
}

// executeWrite runs a data-modifying statement inside a transaction.
// Any failure rolls back before the connection is released.
func (c *Client) executeWrite(ctx context.Context, conn *pgx.Conn, sql string) (*QueryResult, error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, sql)
	if err != nil {
		c.logger.Error("query execution failed", err, map[string]interface{}{"stage": "exec"})
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return &QueryResult{
		Success:      true,
		Rows:         []Row{},
		RowsAffected: tag.RowsAffected(),
	}, nil
}

// ExplainQuery returns the JSON plan for a statement. When analyze is
// set the statement actually executes, so writes are refused the same
// way they would be for direct execution.
func (c *Client) ExplainQuery(ctx context.Context, sql string, analyze bool) (*ExplainResult, error) {
	verdict := validation.Validate(sql, false)
	if !verdict.Allowed {
		return nil, &ValidationError{Reason: verdict.Reason}
	}

	explainSQL := "EXPLAIN (FORMAT JSON) " + sql
	if analyze {
		explainSQL = "EXPLAIN (ANALYZE, FORMAT JSON) " + sql
	}

	rows, _, err := c.queryRows(ctx, explainSQL)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].Len() == 0 {
		return nil, fmt.Errorf("explain produced no plan")
	}

	plan, _ := rows[0].Get(rows[0].Columns()[0])
	return &ExplainResult{Success: true, Plan: plan}, nil
}
