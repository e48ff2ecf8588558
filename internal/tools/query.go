package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgmcp/postgres-mcp/internal/database"
	"github.com/pgmcp/postgres-mcp/internal/logging"
)

// ExecuteQueryTool runs a single validated SQL statement. When the call
// carries no max_rows, the configured default cap applies (zero means
// no cap).
type ExecuteQueryTool struct {
	*BaseTool
	querier        Querier
	logger         *logging.Logger
	defaultMaxRows int
}

// NewExecuteQueryTool creates the query tool
func NewExecuteQueryTool(querier Querier, logger *logging.Logger, defaultMaxRows int) *ExecuteQueryTool {
	return &ExecuteQueryTool{
		BaseTool: NewBaseTool(
			"query",
			"Execute a single SQL statement. Reads are always allowed; INSERT, UPDATE, DELETE and MERGE require allow_write. DDL and transaction control are rejected.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"sql": map[string]interface{}{
						"type":        "string",
						"description": "SQL statement to execute",
					},
					"allow_write": map[string]interface{}{
						"type":        "boolean",
						"description": "Permit data-modifying statements",
						"default":     false,
					},
					"max_rows": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of rows to return (0 for no limit)",
						"minimum":     float64(0),
					},
				},
				"required": []interface{}{"sql"},
			},
		),
		querier:        querier,
		logger:         logger,
		defaultMaxRows: defaultMaxRows,
	}
}

// Execute runs the query
func (t *ExecuteQueryTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	sql, _ := params["sql"].(string)
	allowWrite := boolParam(params, "allow_write", false)
	maxRows := intParam(params, "max_rows", t.defaultMaxRows)

	result, err := t.querier.ExecuteQuery(ctx, sql, allowWrite, maxRows)
	if err != nil {
		return queryErrorResult(err), nil
	}

	return Success(result, map[string]interface{}{"row_count": result.RowCount}), nil
}

// ExplainQueryTool returns the execution plan for a statement
type ExplainQueryTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewExplainQueryTool creates the explain_query tool
func NewExplainQueryTool(querier Querier, logger *logging.Logger) *ExplainQueryTool {
	return &ExplainQueryTool{
		BaseTool: NewBaseTool(
			"explain_query",
			"Show the PostgreSQL execution plan for a statement in JSON format. With analyze the statement is executed and actual timings are included.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"sql": map[string]interface{}{
						"type":        "string",
						"description": "SQL statement to explain",
					},
					"analyze": map[string]interface{}{
						"type":        "boolean",
						"description": "Execute the statement and report actual times",
						"default":     false,
					},
				},
				"required": []interface{}{"sql"},
			},
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute produces the plan
func (t *ExplainQueryTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	sql, _ := params["sql"].(string)
	analyze := boolParam(params, "analyze", false)

	result, err := t.querier.ExplainQuery(ctx, sql, analyze)
	if err != nil {
		return queryErrorResult(err), nil
	}

	return Success(result, nil), nil
}

// queryErrorResult maps a database error to a tool error result,
// keeping validation rejections distinguishable from execution
// failures.
func queryErrorResult(err error) *ToolResult {
	var verr *database.ValidationError
	if errors.As(err, &verr) {
		return Error(verr.Error(), "VALIDATION_ERROR", nil)
	}
	return Error(err.Error(), "EXECUTION_ERROR", nil)
}
