package tools

import (
	"context"
	"fmt"

	"github.com/pgmcp/postgres-mcp/internal/logging"
)

func schemaParamSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"schema": map[string]interface{}{
				"type":        "string",
				"description": "Schema name",
				"default":     "public",
			},
		},
	}
}

// ListSchemasTool lists all user-visible schemas
type ListSchemasTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewListSchemasTool creates the list_schemas tool
func NewListSchemasTool(querier Querier, logger *logging.Logger) *ListSchemasTool {
	return &ListSchemasTool{
		BaseTool: NewBaseTool(
			"list_schemas",
			"List all schemas in the database, excluding system schemas.",
			map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute lists the schemas. The payload is a flat list of schema
// names, not the underlying rows.
func (t *ListSchemasTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	rows, err := t.querier.ListSchemas(ctx)
	if err != nil {
		return queryErrorResult(err), nil
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Get("schema_name"); ok {
			if name, ok := v.(string); ok {
				names = append(names, name)
			}
		}
	}
	return Success(names, map[string]interface{}{"count": len(names)}), nil
}

// ListTablesTool lists the tables of a schema
type ListTablesTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewListTablesTool creates the list_tables tool
func NewListTablesTool(querier Querier, logger *logging.Logger) *ListTablesTool {
	return &ListTablesTool{
		BaseTool: NewBaseTool(
			"list_tables",
			"List tables in a schema with their table type.",
			schemaParamSchema(),
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute lists the tables
func (t *ListTablesTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	schema := stringParam(params, "schema", "public")
	rows, err := t.querier.ListTables(ctx, schema)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(rows, map[string]interface{}{"schema": schema, "count": len(rows)}), nil
}

// ListViewsTool lists the views of a schema
type ListViewsTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewListViewsTool creates the list_views tool
func NewListViewsTool(querier Querier, logger *logging.Logger) *ListViewsTool {
	return &ListViewsTool{
		BaseTool: NewBaseTool(
			"list_views",
			"List views in a schema.",
			schemaParamSchema(),
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute lists the views
func (t *ListViewsTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	schema := stringParam(params, "schema", "public")
	rows, err := t.querier.ListViews(ctx, schema)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(rows, map[string]interface{}{"schema": schema, "count": len(rows)}), nil
}

// DescribeViewTool returns the definition and columns of a view
type DescribeViewTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewDescribeViewTool creates the describe_view tool
func NewDescribeViewTool(querier Querier, logger *logging.Logger) *DescribeViewTool {
	return &DescribeViewTool{
		BaseTool: NewBaseTool(
			"describe_view",
			"Show the SQL definition and columns of a view.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"view_name": map[string]interface{}{
						"type":        "string",
						"description": "View name",
					},
					"schema": map[string]interface{}{
						"type":        "string",
						"description": "Schema name",
						"default":     "public",
					},
				},
				"required": []interface{}{"view_name"},
			},
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute describes the view
func (t *DescribeViewTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	view, _ := params["view_name"].(string)
	schema := stringParam(params, "schema", "public")

	desc, err := t.querier.DescribeView(ctx, view, schema)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(desc, nil), nil
}

// ListFunctionsTool lists the routines of a schema
type ListFunctionsTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewListFunctionsTool creates the list_functions tool
func NewListFunctionsTool(querier Querier, logger *logging.Logger) *ListFunctionsTool {
	return &ListFunctionsTool{
		BaseTool: NewBaseTool(
			"list_functions",
			"List functions and procedures in a schema with their return types.",
			schemaParamSchema(),
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute lists the functions
func (t *ListFunctionsTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	schema := stringParam(params, "schema", "public")
	rows, err := t.querier.ListFunctions(ctx, schema)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(rows, map[string]interface{}{"schema": schema, "count": len(rows)}), nil
}
