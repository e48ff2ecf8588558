package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pgmcp/postgres-mcp/internal/config"
	"github.com/pgmcp/postgres-mcp/internal/logging"
)

func testClient(cfg *config.DatabaseConfig) *Client {
	logger := logging.NewLogger(&config.LoggingConfig{Level: "error", Format: "json"})
	return NewClient(cfg, logger)
}

func unreachableConfig() *config.DatabaseConfig {
	host := "127.0.0.1"
	port := 1
	connectTimeout := 1000
	return &config.DatabaseConfig{
		Host:                 &host,
		Port:                 &port,
		ConnectTimeoutMillis: &connectTimeout,
	}
}

func TestExecuteQueryValidationFailsBeforeConnecting(t *testing.T) {
	// An unreachable database must not matter when validation rejects
	// the statement first.
	client := testClient(unreachableConfig())

	_, err := client.ExecuteQuery(context.Background(), "DROP TABLE users", true, 0)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T (%v), want *ValidationError", err, err)
	}
	if !strings.Contains(err.Error(), "not allowed") {
		t.Errorf("error = %q, want it to mention 'not allowed'", err.Error())
	}
}

func TestExecuteQueryWriteRequiresFlag(t *testing.T) {
	client := testClient(unreachableConfig())

	_, err := client.ExecuteQuery(context.Background(), "DELETE FROM users", false, 0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T (%v), want *ValidationError", err, err)
	}
}

func TestExplainQueryRejectsForbidden(t *testing.T) {
	client := testClient(unreachableConfig())

	_, err := client.ExplainQuery(context.Background(), "TRUNCATE users", false)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T (%v), want *ValidationError", err, err)
	}
}

func TestConnectFailureReported(t *testing.T) {
	client := testClient(unreachableConfig())

	err := client.Ping(context.Background())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !strings.Contains(err.Error(), "connection failed") {
		t.Errorf("error = %q, want it to mention 'connection failed'", err.Error())
	}
}

func TestListSchemasConnectFailure(t *testing.T) {
	client := testClient(unreachableConfig())

	_, err := client.ListSchemas(context.Background())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !strings.Contains(err.Error(), "connection failed") {
		t.Errorf("error = %q, want it to mention 'connection failed'", err.Error())
	}
}

func TestConnStringDefaults(t *testing.T) {
	cfg := &config.DatabaseConfig{}
	cs := cfg.ConnString()
	for _, part := range []string{
		"host=localhost", "port=5432", "user=postgres",
		"dbname=postgres", "sslmode=prefer",
	} {
		if !strings.Contains(cs, part) {
			t.Errorf("ConnString() = %q, missing %q", cs, part)
		}
	}
}
