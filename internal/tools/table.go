package tools

import (
	"context"
	"fmt"

	"github.com/pgmcp/postgres-mcp/internal/logging"
)

func tableParamSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"table_name": map[string]interface{}{
				"type":        "string",
				"description": "Table name",
			},
			"schema": map[string]interface{}{
				"type":        "string",
				"description": "Schema name",
				"default":     "public",
			},
		},
		"required": []interface{}{"table_name"},
	}
}

// tableParams extracts the common table/schema parameter pair.
func tableParams(params map[string]interface{}) (string, string) {
	table, _ := params["table_name"].(string)
	return table, stringParam(params, "schema", "public")
}

// DescribeTableTool returns the full structure of a table
type DescribeTableTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewDescribeTableTool creates the describe_table tool
func NewDescribeTableTool(querier Querier, logger *logging.Logger) *DescribeTableTool {
	return &DescribeTableTool{
		BaseTool: NewBaseTool(
			"describe_table",
			"Describe the columns, primary keys and foreign keys of a table.",
			tableParamSchema(),
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute describes the table
func (t *DescribeTableTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	table, schema := tableParams(params)
	desc, err := t.querier.DescribeTable(ctx, table, schema)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(desc, nil), nil
}

// ListIndexesTool lists the indexes of a table
type ListIndexesTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewListIndexesTool creates the list_indexes tool
func NewListIndexesTool(querier Querier, logger *logging.Logger) *ListIndexesTool {
	return &ListIndexesTool{
		BaseTool: NewBaseTool(
			"list_indexes",
			"List the indexes of a table with their definitions.",
			tableParamSchema(),
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute lists the indexes
func (t *ListIndexesTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	table, schema := tableParams(params)
	rows, err := t.querier.ListIndexes(ctx, table, schema)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(rows, map[string]interface{}{"table": table, "count": len(rows)}), nil
}

// ListConstraintsTool lists the constraints of a table
type ListConstraintsTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewListConstraintsTool creates the list_constraints tool
func NewListConstraintsTool(querier Querier, logger *logging.Logger) *ListConstraintsTool {
	return &ListConstraintsTool{
		BaseTool: NewBaseTool(
			"list_constraints",
			"List the constraints of a table with their types and columns.",
			tableParamSchema(),
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute lists the constraints
func (t *ListConstraintsTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	table, schema := tableParams(params)
	rows, err := t.querier.ListConstraints(ctx, table, schema)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(rows, map[string]interface{}{"table": table, "count": len(rows)}), nil
}

// GetTableStatsTool returns size and row count estimates for a table
type GetTableStatsTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewGetTableStatsTool creates the get_table_stats tool
func NewGetTableStatsTool(querier Querier, logger *logging.Logger) *GetTableStatsTool {
	return &GetTableStatsTool{
		BaseTool: NewBaseTool(
			"table_stats",
			"Show the estimated row count and total on-disk size of a table. The row count is the planner estimate, not an exact count.",
			tableParamSchema(),
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute fetches the stats
func (t *GetTableStatsTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	table, schema := tableParams(params)
	stats, err := t.querier.GetTableStats(ctx, table, schema)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(stats, nil), nil
}
