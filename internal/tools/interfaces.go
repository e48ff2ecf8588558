package tools

import (
	"context"

	"github.com/pgmcp/postgres-mcp/internal/database"
)

// Tool is the interface that all tools must implement
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Execute(ctx context.Context, params map[string]interface{}) (*ToolResult, error)
}

// Querier provides the database operations tools are built on. Tools
// depend on this interface rather than the concrete client so tests can
// substitute a fake.
type Querier interface {
	ExecuteQuery(ctx context.Context, sql string, allowWrite bool, maxRows int) (*database.QueryResult, error)
	ExplainQuery(ctx context.Context, sql string, analyze bool) (*database.ExplainResult, error)
	ListSchemas(ctx context.Context) ([]database.Row, error)
	ListTables(ctx context.Context, schema string) ([]database.Row, error)
	ListViews(ctx context.Context, schema string) ([]database.Row, error)
	DescribeView(ctx context.Context, view, schema string) (*database.ViewDescription, error)
	ListFunctions(ctx context.Context, schema string) ([]database.Row, error)
	DescribeTable(ctx context.Context, table, schema string) (*database.TableDescription, error)
	ListIndexes(ctx context.Context, table, schema string) ([]database.Row, error)
	ListConstraints(ctx context.Context, table, schema string) ([]database.Row, error)
	GetTableStats(ctx context.Context, table, schema string) (*database.TableStats, error)
	SearchColumns(ctx context.Context, term string) ([]database.Row, error)
	GetDatabaseInfo(ctx context.Context) (database.Row, error)
}
