package server

import (
	"context"
	"fmt"
	"time"

	"github.com/pgmcp/postgres-mcp/internal/config"
	"github.com/pgmcp/postgres-mcp/internal/database"
	"github.com/pgmcp/postgres-mcp/internal/logging"
	"github.com/pgmcp/postgres-mcp/internal/middleware"
	"github.com/pgmcp/postgres-mcp/internal/tools"
	"github.com/pgmcp/postgres-mcp/pkg/mcp"
)

// Server is the main MCP server
type Server struct {
	mcpServer    *mcp.Server
	client       *database.Client
	config       *config.ConfigManager
	logger       *logging.Logger
	middleware   *middleware.Manager
	toolRegistry *tools.ToolRegistry
}

// NewServer creates a new server on the process stdio
func NewServer(configPath string) (*Server, error) {
	return newServer(configPath, nil)
}

// NewServerWithTransport creates a new server over an explicit
// transport, used by tests to drive the protocol over in-memory pipes
func NewServerWithTransport(configPath string, transport *mcp.StdioTransport) (*Server, error) {
	return newServer(configPath, transport)
}

func newServer(configPath string, transport *mcp.StdioTransport) (*Server, error) {
	cfgMgr := config.NewConfigManager()
	_, err := cfgMgr.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfgMgr.GetLoggingConfig())

	// Connections are opened per operation, so an unreachable database
	// is reported at call time rather than blocking startup. The ping
	// only surfaces misconfiguration early in the logs.
	client := database.NewClient(cfgMgr.GetDatabaseConfig(), logger)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		logger.Warn("database not reachable at startup", map[string]interface{}{
			"error": err.Error(),
		})
	}
	cancel()

	serverSettings := cfgMgr.GetServerSettings()
	var mcpServer *mcp.Server
	if transport != nil {
		mcpServer = mcp.NewServerWithTransport(serverSettings.GetName(), serverSettings.GetVersion(), transport)
	} else {
		mcpServer = mcp.NewServer(serverSettings.GetName(), serverSettings.GetVersion())
	}

	mwManager := middleware.NewManager(logger)
	setupBuiltInMiddleware(mwManager, cfgMgr, logger)

	toolRegistry := tools.NewToolRegistry(logger)
	tools.RegisterAllTools(toolRegistry, client, logger, serverSettings.GetMaxRows())

	s := &Server{
		mcpServer:    mcpServer,
		client:       client,
		config:       cfgMgr,
		logger:       logger,
		middleware:   mwManager,
		toolRegistry: toolRegistry,
	}

	s.setupHandlers()

	return s, nil
}

func (s *Server) setupHandlers() {
	s.setupToolHandlers()

	s.mcpServer.SetCapabilities(mcp.ServerCapabilities{
		Tools: map[string]interface{}{
			"listChanged": false,
		},
	})
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting postgres MCP server", map[string]interface{}{
		"tools": s.toolRegistry.GetCount(),
	})
	return s.mcpServer.Run(ctx)
}

// Stop stops the server
func (s *Server) Stop() error {
	s.logger.Info("Stopping postgres MCP server", nil)
	return nil
}
