package tools

import (
	"fmt"
	"sync"

	"github.com/pgmcp/postgres-mcp/internal/logging"
)

// ToolDefinition represents a tool's definition for MCP
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolRegistry manages tool registration and lookup. The set of tools
// is fixed at startup; tools/list reports them in registration order.
type ToolRegistry struct {
	tools       map[string]Tool
	definitions map[string]ToolDefinition
	order       []string
	mu          sync.RWMutex
	logger      *logging.Logger
}

// NewToolRegistry creates a new tool registry
func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{
		tools:       make(map[string]Tool),
		definitions: make(map[string]ToolDefinition),
		logger:      logger,
	}
}

// Register registers a tool
func (r *ToolRegistry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	definition := ToolDefinition{
		Name:        tool.Name(),
		Description: tool.Description(),
		InputSchema: tool.InputSchema(),
	}

	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
	r.definitions[tool.Name()] = definition
	r.logger.Debug(fmt.Sprintf("Registered tool: %s", tool.Name()), nil)
}

// RegisterAll registers multiple tools
func (r *ToolRegistry) RegisterAll(tools []Tool) {
	for _, tool := range tools {
		r.Register(tool)
	}
}

// GetTool retrieves a tool by name
func (r *ToolRegistry) GetTool(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// GetDefinition retrieves a tool definition by name
func (r *ToolRegistry) GetDefinition(name string) (ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, exists := r.definitions[name]
	return def, exists
}

// GetAllDefinitions returns all tool definitions in registration order
func (r *ToolRegistry) GetAllDefinitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	definitions := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		definitions = append(definitions, r.definitions[name])
	}
	return definitions
}

// GetAllToolNames returns all registered tool names in registration order
func (r *ToolRegistry) GetAllToolNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// HasTool checks if a tool exists
func (r *ToolRegistry) HasTool(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.tools[name]
	return exists
}

// GetCount returns the number of registered tools
func (r *ToolRegistry) GetCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
