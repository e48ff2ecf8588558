package tools

import (
	"github.com/pgmcp/postgres-mcp/internal/logging"
)

// RegisterAllTools registers all available tools with the registry.
// defaultMaxRows caps query results when a call sets no max_rows.
func RegisterAllTools(registry *ToolRegistry, querier Querier, logger *logging.Logger, defaultMaxRows int) {
	// Query tools
	registry.Register(NewExecuteQueryTool(querier, logger, defaultMaxRows))
	registry.Register(NewExplainQueryTool(querier, logger))

	// Schema introspection tools
	registry.Register(NewListSchemasTool(querier, logger))
	registry.Register(NewListTablesTool(querier, logger))
	registry.Register(NewListViewsTool(querier, logger))
	registry.Register(NewDescribeViewTool(querier, logger))
	registry.Register(NewListFunctionsTool(querier, logger))

	// Table introspection tools
	registry.Register(NewDescribeTableTool(querier, logger))
	registry.Register(NewListIndexesTool(querier, logger))
	registry.Register(NewListConstraintsTool(querier, logger))
	registry.Register(NewGetTableStatsTool(querier, logger))

	// Database-wide tools
	registry.Register(NewSearchColumnsTool(querier, logger))
	registry.Register(NewGetDatabaseInfoTool(querier, logger))
}
