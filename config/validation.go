package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredField pairs a config value with the name it is supplied under
type requiredField struct {
	value  func(*Config) string
	envVar string
	secret string
}

var requiredFields = []requiredField{
	{func(c *Config) string { return c.ServerPort }, "SERVER_PORT", "server_port"},
	{func(c *Config) string { return c.DBHost }, "DB_HOST", "db_host"},
	{func(c *Config) string { return c.DBPort }, "DB_PORT", "db_port"},
	{func(c *Config) string { return c.DBUser }, "DB_USER", "db_user"},
	{func(c *Config) string { return c.DBName }, "DB_NAME", "db_name"},
	{func(c *Config) string { return c.DBPassword }, "TEST_DB_PASSWORD", "db_password"},
	{func(c *Config) string { return c.JWTSecret }, "TEST_JWT_SECRET", "jwt_secret"},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errors []string
	for _, field := range requiredFields {
		if field.value(cfg) != "" {
			continue
		}
		if env.SecretsFromEnv() {
			errors = append(errors, ValidationError{
				Field:   field.envVar,
				Message: "environment variable is required in CI environment",
			}.Error())
		} else {
			errors = append(errors, ValidationError{
				Field:   field.secret,
				Message: "secret is required",
			}.Error())
		}
	}

	if env == Production && cfg.LLMAPIKey == "" {
		errors = append(errors, ValidationError{Field: "llm_api_key", Message: "secret is required"}.Error())
	}

	if cfg.Settings != nil {
		if err := cfg.Settings.Validate(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
