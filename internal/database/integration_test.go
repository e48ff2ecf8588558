package database

import (
	"context"
	"os"
	"testing"

	"github.com/pgmcp/postgres-mcp/internal/config"
)

// integrationClient builds a client from POSTGRES_* environment
// variables. Tests that need a live database skip when no password is
// configured.
func integrationClient(t *testing.T) *Client {
	t.Helper()
	if os.Getenv("POSTGRES_PASSWORD") == "" {
		t.Skip("POSTGRES_PASSWORD not set, skipping integration test")
	}
	loader := config.NewConfigLoader()
	cfg := loader.MergeWithEnv(config.GetDefaultConfig())
	return testClient(&cfg.Database)
}

func TestIntegrationListSchemas(t *testing.T) {
	client := integrationClient(t)

	rows, err := client.ListSchemas(context.Background())
	if err != nil {
		t.Fatalf("ListSchemas failed: %v", err)
	}

	found := false
	for _, row := range rows {
		if name, ok := row.Get("schema_name"); ok && name == "public" {
			found = true
		}
	}
	if !found {
		t.Error("public schema not listed")
	}
}

func TestIntegrationExecuteQuery(t *testing.T) {
	client := integrationClient(t)

	result, err := client.ExecuteQuery(context.Background(), "SELECT 1 AS one, 'x' AS letter", false, 0)
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}
	if !result.Success {
		t.Error("result not marked successful")
	}
	if result.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", result.RowCount)
	}
	if len(result.Columns) != 2 || result.Columns[0] != "one" || result.Columns[1] != "letter" {
		t.Errorf("Columns = %v", result.Columns)
	}
}

func TestIntegrationExecuteQueryTruncation(t *testing.T) {
	client := integrationClient(t)

	result, err := client.ExecuteQuery(context.Background(), "SELECT generate_series(1, 100)", false, 10)
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}
	if result.RowCount != 10 {
		t.Errorf("RowCount = %d, want 10", result.RowCount)
	}
	if !result.Truncated {
		t.Error("result not marked truncated")
	}
}

func TestIntegrationExplainQuery(t *testing.T) {
	client := integrationClient(t)

	result, err := client.ExplainQuery(context.Background(), "SELECT 1", false)
	if err != nil {
		t.Fatalf("ExplainQuery failed: %v", err)
	}
	if result.Plan == nil {
		t.Error("plan is nil")
	}
}

func TestIntegrationDescribeTableNotFound(t *testing.T) {
	client := integrationClient(t)

	_, err := client.DescribeTable(context.Background(), "definitely_missing_table", "public")
	if err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestIntegrationGetTableStats(t *testing.T) {
	client := integrationClient(t)

	stats, err := client.GetTableStats(context.Background(), "pg_class", "pg_catalog")
	if err != nil {
		t.Fatalf("GetTableStats failed: %v", err)
	}
	if stats.TotalSize == "" {
		t.Error("TotalSize is empty")
	}
	if stats.RowCount < 0 {
		t.Errorf("RowCount = %d", stats.RowCount)
	}
}

func TestIntegrationGetDatabaseInfo(t *testing.T) {
	client := integrationClient(t)

	info, err := client.GetDatabaseInfo(context.Background())
	if err != nil {
		t.Fatalf("GetDatabaseInfo failed: %v", err)
	}
	if v, ok := info.Get("version"); !ok || v == "" {
		t.Error("version missing from database info")
	}
}
