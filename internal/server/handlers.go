package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgmcp/postgres-mcp/internal/middleware"
	"github.com/pgmcp/postgres-mcp/internal/tools"
	"github.com/pgmcp/postgres-mcp/pkg/mcp"
)

// setupToolHandlers sets up tool-related MCP handlers
func (s *Server) setupToolHandlers() {
	s.mcpServer.SetHandler("tools/list", s.handleListTools)
	s.mcpServer.SetHandler("tools/call", s.handleCallTool)
}

// handleListTools handles the tools/list request
func (s *Server) handleListTools(ctx context.Context, params json.RawMessage) (interface{}, error) {
	definitions := s.toolRegistry.GetAllDefinitions()

	mcpTools := make([]mcp.ToolDefinition, len(definitions))
	for i, def := range definitions {
		mcpTools[i] = mcp.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
	}

	return mcp.ListToolsResponse{Tools: mcpTools}, nil
}

// handleCallTool handles the tools/call request
func (s *Server) handleCallTool(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req mcp.CallToolRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, mcp.NewInvalidParamsError("failed to parse call tool request: %v", err)
	}
	if req.Name == "" {
		return nil, mcp.NewInvalidParamsError("tool name is required")
	}

	mcpReq := &middleware.MCPRequest{
		Method: req.Name,
		Params: req.Arguments,
	}

	resp, err := s.middleware.Execute(ctx, mcpReq, func(ctx context.Context) (*middleware.MCPResponse, error) {
		return s.executeTool(ctx, req.Name, req.Arguments)
	})
	if err != nil {
		return nil, err
	}

	return mcp.ToolResult{
		Content:  toContentBlocks(resp.Content),
		IsError:  resp.IsError,
		Metadata: resp.Metadata,
	}, nil
}

// executeTool executes a tool and returns the response
func (s *Server) executeTool(ctx context.Context, toolName string, arguments map[string]interface{}) (*middleware.MCPResponse, error) {
	tool := s.toolRegistry.GetTool(toolName)
	if tool == nil {
		return &middleware.MCPResponse{
			Content: []middleware.ContentBlock{
				{Type: "text", Text: fmt.Sprintf("Tool not found: %s", toolName)},
			},
			IsError: true,
		}, nil
	}

	if arguments == nil {
		arguments = map[string]interface{}{}
	}

	result, err := tool.Execute(ctx, arguments)
	if err != nil {
		return nil, err
	}

	return s.formatToolResult(result)
}

// formatToolResult formats a tool result as an MCP response. The
// payload travels as a single JSON text block.
func (s *Server) formatToolResult(result *tools.ToolResult) (*middleware.MCPResponse, error) {
	if !result.Success {
		return s.formatToolError(result), nil
	}

	resultJSON, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize tool result: %w", err)
	}
	return &middleware.MCPResponse{
		Content: []middleware.ContentBlock{
			{Type: "text", Text: string(resultJSON)},
		},
		Metadata: result.Metadata,
	}, nil
}

// formatToolError formats a tool error as an MCP response
func (s *Server) formatToolError(result *tools.ToolResult) *middleware.MCPResponse {
	errorText := "Unknown error"
	errorMetadata := make(map[string]interface{})

	if result.Error != nil {
		errorText = result.Error.Message
		errorMetadata["message"] = result.Error.Message
		if result.Error.Code != "" {
			errorMetadata["code"] = result.Error.Code
		}
		if result.Error.Details != nil {
			errorMetadata["details"] = result.Error.Details
		}
	}

	return &middleware.MCPResponse{
		Content: []middleware.ContentBlock{
			{Type: "text", Text: fmt.Sprintf("Error: %s", errorText)},
		},
		IsError:  true,
		Metadata: errorMetadata,
	}
}

func toContentBlocks(blocks []middleware.ContentBlock) []mcp.ContentBlock {
	out := make([]mcp.ContentBlock, len(blocks))
	for i, b := range blocks {
		out[i] = mcp.ContentBlock{Type: b.Type, Text: b.Text}
	}
	return out
}
