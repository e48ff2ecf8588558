package tools

import (
	"context"
	"fmt"

	"github.com/pgmcp/postgres-mcp/internal/logging"
)

// SearchColumnsTool finds columns by name across all user schemas
type SearchColumnsTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewSearchColumnsTool creates the search_columns tool
func NewSearchColumnsTool(querier Querier, logger *logging.Logger) *SearchColumnsTool {
	return &SearchColumnsTool{
		BaseTool: NewBaseTool(
			"search_columns",
			"Find columns whose name contains a term, across every user schema.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"search_term": map[string]interface{}{
						"type":        "string",
						"description": "Substring to search for in column names",
					},
				},
				"required": []interface{}{"search_term"},
			},
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute runs the search
func (t *SearchColumnsTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	valid, errs := t.ValidateParams(params, t.InputSchema())
	if !valid {
		return Error(fmt.Sprintf("Invalid parameters: %v", errs), "INVALID_PARAMS", nil), nil
	}

	term, _ := params["search_term"].(string)
	rows, err := t.querier.SearchColumns(ctx, term)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(rows, map[string]interface{}{"search_term": term, "count": len(rows)}), nil
}

// GetDatabaseInfoTool reports general information about the database
type GetDatabaseInfoTool struct {
	*BaseTool
	querier Querier
	logger  *logging.Logger
}

// NewGetDatabaseInfoTool creates the get_database_info tool
func NewGetDatabaseInfoTool(querier Querier, logger *logging.Logger) *GetDatabaseInfoTool {
	return &GetDatabaseInfoTool{
		BaseTool: NewBaseTool(
			"get_database_info",
			"Show the current database name, user, server version and size.",
			map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		),
		querier: querier,
		logger:  logger,
	}
}

// Execute fetches the info
func (t *GetDatabaseInfoTool) Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error) {
	info, err := t.querier.GetDatabaseInfo(ctx)
	if err != nil {
		return queryErrorResult(err), nil
	}
	return Success(info, nil), nil
}
