package config

import (
	"fmt"
	"time"
)

// ServerConfig is the root configuration structure
type ServerConfig struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerSettings `json:"server"`
	Logging  LoggingConfig  `json:"logging"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host                   *string `json:"host,omitempty"`
	Port                   *int    `json:"port,omitempty"`
	Database               *string `json:"database,omitempty"`
	User                   *string `json:"user,omitempty"`
	Password               *string `json:"password,omitempty"`
	SSLMode                *string `json:"sslmode,omitempty"`
	StatementTimeoutMillis *int    `json:"statementTimeoutMillis,omitempty"`
	ConnectTimeoutMillis   *int    `json:"connectTimeoutMillis,omitempty"`
}

// ServerSettings holds server configuration
type ServerSettings struct {
	Name    *string `json:"name,omitempty"`
	Version *string `json:"version,omitempty"`
	Timeout *int    `json:"timeout,omitempty"`
	MaxRows *int    `json:"maxRows,omitempty"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level                 string  `json:"level"`
	Format                string  `json:"format"`
	Output                *string `json:"output,omitempty"`
	EnableRequestLogging  *bool   `json:"enableRequestLogging,omitempty"`
	EnableResponseLogging *bool   `json:"enableResponseLogging,omitempty"`
}

// Helper methods for getting values with defaults

func (c *DatabaseConfig) GetHost() string {
	if c.Host != nil {
		return *c.Host
	}
	return "localhost"
}

func (c *DatabaseConfig) GetPort() int {
	if c.Port != nil {
		return *c.Port
	}
	return 5432
}

func (c *DatabaseConfig) GetDatabase() string {
	if c.Database != nil {
		return *c.Database
	}
	return "postgres"
}

func (c *DatabaseConfig) GetUser() string {
	if c.User != nil {
		return *c.User
	}
	return "postgres"
}

func (c *DatabaseConfig) GetPassword() string {
	if c.Password != nil {
		return *c.Password
	}
	return "postgres"
}

func (c *DatabaseConfig) GetSSLMode() string {
	if c.SSLMode != nil {
		return *c.SSLMode
	}
	return "prefer"
}

func (c *DatabaseConfig) GetStatementTimeout() time.Duration {
	if c.StatementTimeoutMillis != nil {
		return time.Duration(*c.StatementTimeoutMillis) * time.Millisecond
	}
	return 30 * time.Second
}

func (c *DatabaseConfig) GetConnectTimeout() time.Duration {
	if c.ConnectTimeoutMillis != nil {
		return time.Duration(*c.ConnectTimeoutMillis) * time.Millisecond
	}
	return 10 * time.Second
}

// ConnString renders the configuration as a libpq keyword/value
// connection string.
func (c *DatabaseConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.GetHost(), c.GetPort(), c.GetUser(), c.GetPassword(),
		c.GetDatabase(), c.GetSSLMode(), int(c.GetConnectTimeout().Seconds()))
}

func (s *ServerSettings) GetName() string {
	if s.Name != nil {
		return *s.Name
	}
	return "postgres-mcp"
}

func (s *ServerSettings) GetVersion() string {
	if s.Version != nil {
		return *s.Version
	}
	return "0.1.0"
}

func (s *ServerSettings) GetTimeout() time.Duration {
	if s.Timeout != nil {
		return time.Duration(*s.Timeout) * time.Millisecond
	}
	return 30 * time.Second
}

// GetMaxRows returns the default row cap for query results. Zero means
// no cap.
func (s *ServerSettings) GetMaxRows() int {
	if s.MaxRows != nil {
		return *s.MaxRows
	}
	return 0
}
