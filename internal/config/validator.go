package config

import "fmt"

// ConfigValidator validates configuration
type ConfigValidator struct{}

// NewConfigValidator creates a new config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate validates the complete server configuration
func (v *ConfigValidator) Validate(config *ServerConfig) (bool, []string) {
	var errors []string

	errors = append(errors, v.validateDatabase(&config.Database)...)
	errors = append(errors, v.validateServer(&config.Server)...)
	errors = append(errors, v.validateLogging(&config.Logging)...)

	return len(errors) == 0, errors
}

func (v *ConfigValidator) validateDatabase(config *DatabaseConfig) []string {
	var errors []string

	if config.Host != nil && *config.Host == "" {
		errors = append(errors, "Database host must not be empty")
	}

	if config.Port != nil && (*config.Port < 1 || *config.Port > 65535) {
		errors = append(errors, "Database port must be between 1 and 65535")
	}

	validSSLModes := []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	if config.SSLMode != nil && !contains(validSSLModes, *config.SSLMode) {
		errors = append(errors, fmt.Sprintf("Database sslmode must be one of: %v", validSSLModes))
	}

	if config.StatementTimeoutMillis != nil && *config.StatementTimeoutMillis < 0 {
		errors = append(errors, "Database statementTimeoutMillis must be >= 0")
	}

	if config.ConnectTimeoutMillis != nil && *config.ConnectTimeoutMillis < 0 {
		errors = append(errors, "Database connectTimeoutMillis must be >= 0")
	}

	return errors
}

func (v *ConfigValidator) validateServer(config *ServerSettings) []string {
	var errors []string

	if config.Timeout != nil && *config.Timeout < 0 {
		errors = append(errors, "Server timeout must be >= 0")
	}

	if config.MaxRows != nil && *config.MaxRows < 0 {
		errors = append(errors, "Server maxRows must be >= 0")
	}

	return errors
}

func (v *ConfigValidator) validateLogging(config *LoggingConfig) []string {
	var errors []string

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, config.Level) {
		errors = append(errors, fmt.Sprintf("Logging level must be one of: %v", validLevels))
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, config.Format) {
		errors = append(errors, fmt.Sprintf("Logging format must be one of: %v", validFormats))
	}

	return errors
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
