package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pgmcp/postgres-mcp/internal/config"
	"github.com/pgmcp/postgres-mcp/internal/database"
	"github.com/pgmcp/postgres-mcp/internal/logging"
)

// fakeQuerier records the last call and returns canned results.
type fakeQuerier struct {
	lastSQL        string
	lastAllowWrite bool
	lastMaxRows    int
	lastSchema     string
	lastTable      string
	lastAnalyze    bool
	err            error
}

func (f *fakeQuerier) ExecuteQuery(ctx context.Context, sql string, allowWrite bool, maxRows int) (*database.QueryResult, error) {
	f.lastSQL = sql
	f.lastAllowWrite = allowWrite
	f.lastMaxRows = maxRows
	if f.err != nil {
		return nil, f.err
	}
	var row database.Row
	row.Set("one", 1)
	return &database.QueryResult{Success: true, Rows: []database.Row{row}, RowCount: 1, Columns: []string{"one"}}, nil
}

func (f *fakeQuerier) ExplainQuery(ctx context.Context, sql string, analyze bool) (*database.ExplainResult, error) {
	f.lastSQL = sql
	f.lastAnalyze = analyze
	if f.err != nil {
		return nil, f.err
	}
	return &database.ExplainResult{Success: true, Plan: []interface{}{map[string]interface{}{"Node Type": "Result"}}}, nil
}

func (f *fakeQuerier) ListSchemas(ctx context.Context) ([]database.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	var row database.Row
	row.Set("schema_name", "public")
	return []database.Row{row}, nil
}

func (f *fakeQuerier) ListTables(ctx context.Context, schema string) ([]database.Row, error) {
	f.lastSchema = schema
	return []database.Row{}, f.err
}

func (f *fakeQuerier) ListViews(ctx context.Context, schema string) ([]database.Row, error) {
	f.lastSchema = schema
	return []database.Row{}, f.err
}

func (f *fakeQuerier) DescribeView(ctx context.Context, view, schema string) (*database.ViewDescription, error) {
	f.lastTable = view
	f.lastSchema = schema
	if f.err != nil {
		return nil, f.err
	}
	return &database.ViewDescription{Schema: schema, ViewName: view, Definition: "SELECT 1"}, nil
}

func (f *fakeQuerier) ListFunctions(ctx context.Context, schema string) ([]database.Row, error) {
	f.lastSchema = schema
	return []database.Row{}, f.err
}

func (f *fakeQuerier) DescribeTable(ctx context.Context, table, schema string) (*database.TableDescription, error) {
	f.lastTable = table
	f.lastSchema = schema
	if f.err != nil {
		return nil, f.err
	}
	return &database.TableDescription{
		Schema:    schema,
		TableName: table,
		Columns: []database.ColumnDescription{
			{Name: "id", Type: "integer", IsPrimaryKey: true},
		},
		PrimaryKeys: []string{"id"},
		ForeignKeys: []database.ForeignKey{},
	}, nil
}

func (f *fakeQuerier) ListIndexes(ctx context.Context, table, schema string) ([]database.Row, error) {
	f.lastTable = table
	f.lastSchema = schema
	return []database.Row{}, f.err
}

func (f *fakeQuerier) ListConstraints(ctx context.Context, table, schema string) ([]database.Row, error) {
	f.lastTable = table
	f.lastSchema = schema
	return []database.Row{}, f.err
}

func (f *fakeQuerier) GetTableStats(ctx context.Context, table, schema string) (*database.TableStats, error) {
	f.lastTable = table
	f.lastSchema = schema
	if f.err != nil {
		return nil, f.err
	}
	return &database.TableStats{Schema: schema, TableName: table, RowCount: 100, TotalSize: "8192 bytes"}, nil
}

func (f *fakeQuerier) SearchColumns(ctx context.Context, term string) ([]database.Row, error) {
	f.lastSQL = term
	return []database.Row{}, f.err
}

func (f *fakeQuerier) GetDatabaseInfo(ctx context.Context) (database.Row, error) {
	var row database.Row
	row.Set("database", "postgres")
	return row, f.err
}

func testLogger() *logging.Logger {
	return logging.NewLogger(&config.LoggingConfig{Level: "error", Format: "json"})
}

func TestExecuteQueryToolPassesParams(t *testing.T) {
	fake := &fakeQuerier{}
	tool := NewExecuteQueryTool(fake, testLogger(), 0)

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"sql":         "SELECT 1",
		"allow_write": true,
		"max_rows":    float64(50),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %+v", result.Error)
	}
	if fake.lastSQL != "SELECT 1" {
		t.Errorf("sql = %q", fake.lastSQL)
	}
	if !fake.lastAllowWrite {
		t.Error("allow_write not passed through")
	}
	if fake.lastMaxRows != 50 {
		t.Errorf("max_rows = %d, want 50", fake.lastMaxRows)
	}
}

func TestExecuteQueryToolDefaultMaxRows(t *testing.T) {
	fake := &fakeQuerier{}
	tool := NewExecuteQueryTool(fake, testLogger(), 500)

	// Without max_rows the configured default applies.
	if _, err := tool.Execute(context.Background(), map[string]interface{}{"sql": "SELECT 1"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if fake.lastMaxRows != 500 {
		t.Errorf("max_rows = %d, want configured default 500", fake.lastMaxRows)
	}

	// An explicit max_rows wins over the default.
	if _, err := tool.Execute(context.Background(), map[string]interface{}{"sql": "SELECT 1", "max_rows": float64(25)}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if fake.lastMaxRows != 25 {
		t.Errorf("max_rows = %d, want 25", fake.lastMaxRows)
	}
}

func TestExecuteQueryToolMissingSQL(t *testing.T) {
	tool := NewExecuteQueryTool(&fakeQuerier{}, testLogger(), 0)

	result, err := tool.Execute(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Success {
		t.Fatal("expected error result for missing sql")
	}
	if result.Error.Code != "INVALID_PARAMS" {
		t.Errorf("code = %q, want INVALID_PARAMS", result.Error.Code)
	}
}

func TestExecuteQueryToolValidationError(t *testing.T) {
	fake := &fakeQuerier{err: &database.ValidationError{Reason: "DROP statements are not allowed"}}
	tool := NewExecuteQueryTool(fake, testLogger(), 0)

	result, err := tool.Execute(context.Background(), map[string]interface{}{"sql": "DROP TABLE t"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Success {
		t.Fatal("expected error result")
	}
	if result.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", result.Error.Code)
	}
}

func TestExecuteQueryToolExecutionError(t *testing.T) {
	fake := &fakeQuerier{err: fmt.Errorf("query failed: relation does not exist")}
	tool := NewExecuteQueryTool(fake, testLogger(), 0)

	result, _ := tool.Execute(context.Background(), map[string]interface{}{"sql": "SELECT * FROM missing"})
	if result.Success {
		t.Fatal("expected error result")
	}
	if result.Error.Code != "EXECUTION_ERROR" {
		t.Errorf("code = %q, want EXECUTION_ERROR", result.Error.Code)
	}
}

func TestExplainQueryToolAnalyzeFlag(t *testing.T) {
	fake := &fakeQuerier{}
	tool := NewExplainQueryTool(fake, testLogger())

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"sql":     "SELECT 1",
		"analyze": true,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %+v", result.Error)
	}
	if !fake.lastAnalyze {
		t.Error("analyze not passed through")
	}
}

func TestListSchemasToolReturnsFlatNames(t *testing.T) {
	tool := NewListSchemasTool(&fakeQuerier{}, testLogger())

	result, err := tool.Execute(context.Background(), map[string]interface{}{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %+v", result.Error)
	}

	// The serialized payload must decode to a plain list of names.
	data, err := json.Marshal(result.Data)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		t.Fatalf("payload %s is not a list of strings: %v", data, err)
	}

	found := false
	for _, name := range names {
		if name == "public" {
			found = true
		}
	}
	if !found {
		t.Errorf("names = %v, want to contain public", names)
	}
}

func TestSchemaDefaultsToPublic(t *testing.T) {
	fake := &fakeQuerier{}

	tests := []struct {
		name string
		tool Tool
	}{
		{"list_tables", NewListTablesTool(fake, testLogger())},
		{"list_views", NewListViewsTool(fake, testLogger())},
		{"list_functions", NewListFunctionsTool(fake, testLogger())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake.lastSchema = ""
			result, err := tt.tool.Execute(context.Background(), map[string]interface{}{})
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if !result.Success {
				t.Fatalf("result not successful: %+v", result.Error)
			}
			if fake.lastSchema != "public" {
				t.Errorf("schema = %q, want public", fake.lastSchema)
			}
		})
	}
}

func TestDescribeTableToolRequiresTable(t *testing.T) {
	tool := NewDescribeTableTool(&fakeQuerier{}, testLogger())

	result, _ := tool.Execute(context.Background(), map[string]interface{}{})
	if result.Success {
		t.Fatal("expected error result for missing table")
	}
	if result.Error.Code != "INVALID_PARAMS" {
		t.Errorf("code = %q, want INVALID_PARAMS", result.Error.Code)
	}
}

func TestDescribeTableToolPassesParams(t *testing.T) {
	fake := &fakeQuerier{}
	tool := NewDescribeTableTool(fake, testLogger())

	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"table_name": "users",
		"schema":     "app",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %+v", result.Error)
	}
	if fake.lastTable != "users" || fake.lastSchema != "app" {
		t.Errorf("table = %q, schema = %q", fake.lastTable, fake.lastSchema)
	}
}

func TestRegisterAllTools(t *testing.T) {
	registry := NewToolRegistry(testLogger())
	RegisterAllTools(registry, &fakeQuerier{}, testLogger(), 0)

	wantTools := []string{
		"query", "explain_query",
		"list_schemas", "list_tables", "list_views", "describe_view", "list_functions",
		"describe_table", "list_indexes", "list_constraints", "table_stats",
		"search_columns", "get_database_info",
	}

	if registry.GetCount() != len(wantTools) {
		t.Errorf("GetCount() = %d, want %d", registry.GetCount(), len(wantTools))
	}
	for _, name := range wantTools {
		if !registry.HasTool(name) {
			t.Errorf("tool %s not registered", name)
		}
	}

	// Each definition must advertise an object schema
	for _, def := range registry.GetAllDefinitions() {
		if def.InputSchema["type"] != "object" {
			t.Errorf("tool %s schema type = %v", def.Name, def.InputSchema["type"])
		}
	}
}

func TestRegistryPreservesOrder(t *testing.T) {
	registry := NewToolRegistry(testLogger())
	RegisterAllTools(registry, &fakeQuerier{}, testLogger(), 0)

	names := registry.GetAllToolNames()
	if len(names) == 0 || names[0] != "query" {
		t.Errorf("names = %v, want query first", names)
	}

	defs := registry.GetAllDefinitions()
	for i, def := range defs {
		if def.Name != names[i] {
			t.Errorf("definition %d = %s, want %s", i, def.Name, names[i])
		}
	}
}
