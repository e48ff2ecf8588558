package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pgmcp/postgres-mcp/pkg/mcp"
)

// driveServer builds a server against an unreachable database, feeds
// the input lines through an in-memory transport, and returns the
// decoded responses in order.
func driveServer(t *testing.T, input string) []map[string]interface{} {
	t.Helper()

	// Fail fast at connect time instead of waiting on a real listener.
	t.Setenv("POSTGRES_HOST", "127.0.0.1")
	t.Setenv("POSTGRES_PORT", "1")
	t.Setenv("POSTGRES_MCP_CONFIG", "")

	var out, errOut bytes.Buffer
	transport := mcp.NewTransport(strings.NewReader(input), &out, &errOut)
	srv, err := NewServerWithTransport("", transport)
	if err != nil {
		t.Fatalf("NewServerWithTransport failed: %v", err)
	}

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var responses []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("output line is not JSON: %q", line)
		}
		responses = append(responses, decoded)
	}
	return responses
}

const initLines = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}
{"jsonrpc":"2.0","method":"notifications/initialized"}
`

func TestListToolsReturnsAllTools(t *testing.T) {
	input := initLines + `{"jsonrpc":"2.0","id":2,"method":"tools/list"}
`
	responses := driveServer(t, input)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	result := responses[1]["result"].(map[string]interface{})
	toolList := result["tools"].([]interface{})
	if len(toolList) != 13 {
		t.Fatalf("got %d tools, want 13", len(toolList))
	}

	want := map[string]bool{
		"query":             false,
		"explain_query":     false,
		"list_schemas":      false,
		"list_tables":       false,
		"describe_table":    false,
		"list_views":        false,
		"describe_view":     false,
		"list_indexes":      false,
		"list_constraints":  false,
		"list_functions":    false,
		"table_stats":       false,
		"search_columns":    false,
		"get_database_info": false,
	}
	for _, entry := range toolList {
		def := entry.(map[string]interface{})
		name := def["name"].(string)
		if _, ok := want[name]; !ok {
			t.Errorf("unexpected tool %q", name)
			continue
		}
		want[name] = true
		if def["description"] == "" {
			t.Errorf("tool %q has no description", name)
		}
		schema, ok := def["inputSchema"].(map[string]interface{})
		if !ok || schema["type"] != "object" {
			t.Errorf("tool %q has no object input schema", name)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %q missing from list", name)
		}
	}
}

func TestCallToolUnknownTool(t *testing.T) {
	input := initLines + `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"drop_everything"}}
`
	responses := driveServer(t, input)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	result := responses[1]["result"].(map[string]interface{})
	if result["isError"] != true {
		t.Fatalf("expected isError result: %v", result)
	}
	content := result["content"].([]interface{})
	text := content[0].(map[string]interface{})["text"].(string)
	if !strings.Contains(text, "Tool not found: drop_everything") {
		t.Errorf("text = %q", text)
	}
}

func TestCallToolMissingName(t *testing.T) {
	input := initLines + `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"arguments":{}}}
`
	responses := driveServer(t, input)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	errObj, ok := responses[1]["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected protocol error: %v", responses[1])
	}
	if int(errObj["code"].(float64)) != mcp.ErrCodeInvalidParams {
		t.Errorf("code = %v, want %d", errObj["code"], mcp.ErrCodeInvalidParams)
	}
}

func TestCallToolInvalidParams(t *testing.T) {
	// The query tool requires sql, so it reports INVALID_PARAMS as an
	// error result rather than a protocol error.
	input := initLines + `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"query","arguments":{}}}
`
	responses := driveServer(t, input)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	result := responses[1]["result"].(map[string]interface{})
	if result["isError"] != true {
		t.Fatalf("expected isError result: %v", result)
	}
	metadata := result["metadata"].(map[string]interface{})
	if metadata["code"] != "INVALID_PARAMS" {
		t.Errorf("metadata = %v", metadata)
	}
}

func TestCallToolConnectionFailure(t *testing.T) {
	input := initLines + `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"list_schemas"}}
`
	responses := driveServer(t, input)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	result := responses[1]["result"].(map[string]interface{})
	if result["isError"] != true {
		t.Fatalf("expected isError result: %v", result)
	}
	metadata := result["metadata"].(map[string]interface{})
	if metadata["code"] != "EXECUTION_ERROR" {
		t.Errorf("metadata code = %v", metadata["code"])
	}
	msg, _ := metadata["message"].(string)
	if !strings.Contains(msg, "connection failed") {
		t.Errorf("message = %q", msg)
	}
}

func TestCallToolForbiddenStatement(t *testing.T) {
	input := initLines + `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"query","arguments":{"sql":"DROP TABLE users"}}}
`
	responses := driveServer(t, input)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	result := responses[1]["result"].(map[string]interface{})
	if result["isError"] != true {
		t.Fatalf("expected isError result: %v", result)
	}
	metadata := result["metadata"].(map[string]interface{})
	if metadata["code"] != "VALIDATION_ERROR" {
		t.Errorf("metadata code = %v", metadata["code"])
	}
}

func TestCallToolResponsesCarryCorrelationID(t *testing.T) {
	input := initLines + `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"query","arguments":{"sql":"DELETE FROM users"}}}
`
	responses := driveServer(t, input)
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	result := responses[1]["result"].(map[string]interface{})
	metadata := result["metadata"].(map[string]interface{})
	if id, _ := metadata["correlationId"].(string); id == "" {
		t.Errorf("metadata without correlation id: %v", metadata)
	}
}
