package mcp

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Method != "tools/list" {
		t.Errorf("Method = %q", req.Method)
	}
	if string(req.ID) != "1" {
		t.Errorf("ID = %s", req.ID)
	}
	if req.IsNotification() {
		t.Error("request with id reported as notification")
	}
}

func TestParseRequestInvalidJSON(t *testing.T) {
	if _, err := ParseRequest([]byte(`{not json`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestIsNotification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"no id", `{"jsonrpc":"2.0","method":"notifications/initialized"}`, true},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"x"}`, true},
		{"numeric id", `{"jsonrpc":"2.0","id":7,"method":"x"}`, false},
		{"string id", `{"jsonrpc":"2.0","id":"abc","method":"x"}`, false},
		{"zero id", `{"jsonrpc":"2.0","id":0,"method":"x"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseRequest failed: %v", err)
			}
			if got := req.IsNotification(); got != tt.want {
				t.Errorf("IsNotification() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     JSONRPCRequest
		wantErr bool
	}{
		{"valid", JSONRPCRequest{JSONRPC: "2.0", Method: "ping"}, false},
		{"wrong version", JSONRPCRequest{JSONRPC: "1.0", Method: "ping"}, true},
		{"missing version", JSONRPCRequest{Method: "ping"}, true},
		{"missing method", JSONRPCRequest{JSONRPC: "2.0"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateErrorResponse(t *testing.T) {
	resp := CreateErrorResponse(json.RawMessage("3"), ErrCodeMethodNotFound, "method not found: x", nil)

	data, err := SerializeResponse(resp)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["jsonrpc"] != "2.0" {
		t.Errorf("jsonrpc = %v", decoded["jsonrpc"])
	}
	if decoded["id"] != float64(3) {
		t.Errorf("id = %v", decoded["id"])
	}
	errObj := decoded["error"].(map[string]interface{})
	if errObj["code"] != float64(-32601) {
		t.Errorf("code = %v", errObj["code"])
	}
	if _, hasResult := decoded["result"]; hasResult {
		t.Error("error response carries a result")
	}
}

func TestCreateResponsePreservesID(t *testing.T) {
	resp := CreateResponse(json.RawMessage(`"req-9"`), map[string]string{"ok": "yes"})
	data, _ := SerializeResponse(resp)

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["id"] != "req-9" {
		t.Errorf("id = %v", decoded["id"])
	}
}
