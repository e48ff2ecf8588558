package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ConfigLoader handles loading configuration from multiple sources
type ConfigLoader struct{}

// NewConfigLoader creates a new config loader
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *ServerConfig {
	statementTimeout := 30000
	connectTimeout := 10000
	timeout := 30000
	output := "stderr"
	enableReqLog := true
	enableRespLog := false

	return &ServerConfig{
		Database: DatabaseConfig{
			Host:                   stringPtr("localhost"),
			Port:                   intPtr(5432),
			Database:               stringPtr("postgres"),
			User:                   stringPtr("postgres"),
			Password:               stringPtr("postgres"),
			SSLMode:                stringPtr("prefer"),
			StatementTimeoutMillis: &statementTimeout,
			ConnectTimeoutMillis:   &connectTimeout,
		},
		Server: ServerSettings{
			Name:    stringPtr("postgres-mcp"),
			Version: stringPtr("0.1.0"),
			Timeout: &timeout,
		},
		Logging: LoggingConfig{
			Level:                 "info",
			Format:                "text",
			Output:                &output,
			EnableRequestLogging:  &enableReqLog,
			EnableResponseLogging: &enableRespLog,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func (l *ConfigLoader) LoadFromFile(configPath string) (*ServerConfig, error) {
	possiblePaths := []string{}

	if configPath != "" {
		possiblePaths = append(possiblePaths, configPath)
	}

	if envPath := os.Getenv("POSTGRES_MCP_CONFIG"); envPath != "" {
		possiblePaths = append(possiblePaths, envPath)
	}

	cwd, _ := os.Getwd()
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "mcp-config.json"),
	)

	if home, err := os.UserHomeDir(); err == nil {
		possiblePaths = append(possiblePaths,
			filepath.Join(home, ".postgres-mcp", "mcp-config.json"),
		)
	}

	for _, path := range possiblePaths {
		if data, err := os.ReadFile(path); err == nil {
			var config ServerConfig
			if err := json.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config from %s: %w", path, err)
			}
			return &config, nil
		}
	}

	return nil, nil // No config file found
}

// MergeWithEnv merges configuration with environment variables
func (l *ConfigLoader) MergeWithEnv(config *ServerConfig) *ServerConfig {
	merged := *config

	// Database config from env
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		merged.Database.Host = &host
	}
	if portStr := os.Getenv("POSTGRES_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			merged.Database.Port = &port
		}
	}
	if db := os.Getenv("POSTGRES_DB"); db != "" {
		merged.Database.Database = &db
	}
	if user := os.Getenv("POSTGRES_USER"); user != "" {
		merged.Database.User = &user
	}
	if pass := os.Getenv("POSTGRES_PASSWORD"); pass != "" {
		merged.Database.Password = &pass
	}
	if sslMode := os.Getenv("POSTGRES_SSLMODE"); sslMode != "" {
		merged.Database.SSLMode = &sslMode
	}
	if timeoutStr := os.Getenv("POSTGRES_STATEMENT_TIMEOUT"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil {
			merged.Database.StatementTimeoutMillis = &timeout
		}
	}

	// Logging config from env
	if level := os.Getenv("POSTGRES_MCP_LOG_LEVEL"); level != "" {
		merged.Logging.Level = level
	}
	if format := os.Getenv("POSTGRES_MCP_LOG_FORMAT"); format != "" {
		merged.Logging.Format = format
	}
	if output := os.Getenv("POSTGRES_MCP_LOG_OUTPUT"); output != "" {
		merged.Logging.Output = &output
	}

	return &merged
}

// Helper functions
func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
