package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Settings are the non-secret tunables of the service. Every field has a
// default, so the settings file is optional.
type Settings struct {
	Log       LogSettings       `toml:"log"`
	LLM       LLMSettings       `toml:"llm"`
	RateLimit RateLimitSettings `toml:"rate_limit"`
	CORS      CORSSettings      `toml:"cors"`
	Recipes   RecipeSettings    `toml:"recipes"`
	Export    ExportSettings    `toml:"export"`
}

type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text or json
}

type LLMSettings struct {
	APIURL         string  `toml:"api_url"`
	Model          string  `toml:"model"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Temperature    float64 `toml:"temperature"`
	CacheTTLHours  int     `toml:"cache_ttl_hours"`
}

type RateLimitSettings struct {
	GenerationsPerHour int `toml:"generations_per_hour"`
}

type CORSSettings struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type RecipeSettings struct {
	TransactionTimeoutSeconds int `toml:"transaction_timeout_seconds"`
}

type ExportSettings struct {
	Bucket           string `toml:"bucket"`
	Region           string `toml:"region"`
	URLExpiryMinutes int    `toml:"url_expiry_minutes"`
}

// DefaultSettings returns the settings used when no file is given
func DefaultSettings() *Settings {
	return &Settings{
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
		LLM: LLMSettings{
			APIURL:         "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o",
			TimeoutSeconds: 60,
			Temperature:    0.9,
			CacheTTLHours:  24,
		},
		RateLimit: RateLimitSettings{
			GenerationsPerHour: 10,
		},
		CORS: CORSSettings{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Recipes: RecipeSettings{
			TransactionTimeoutSeconds: 10,
		},
		Export: ExportSettings{
			Bucket:           "reciperoulette-exports",
			URLExpiryMinutes: 15,
		},
	}
}

// LoadSettings decodes the TOML file at path over the defaults. An empty
// path returns the defaults.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, err)
	}
	return settings, nil
}

// Validate rejects settings the service cannot run with
func (s *Settings) Validate() error {
	var errs []error
	if s.LLM.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{Field: "llm.timeout_seconds", Message: "must be positive"})
	}
	if s.RateLimit.GenerationsPerHour <= 0 {
		errs = append(errs, ValidationError{Field: "rate_limit.generations_per_hour", Message: "must be positive"})
	}
	if s.Recipes.TransactionTimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{Field: "recipes.transaction_timeout_seconds", Message: "must be positive"})
	}
	if s.Log.Format != "text" && s.Log.Format != "json" {
		errs = append(errs, ValidationError{Field: "log.format", Message: "must be text or json"})
	}
	return errors.Join(errs...)
}

// TransactionTimeout returns the recipe transaction timeout as a duration
func (s *Settings) TransactionTimeout() time.Duration {
	return time.Duration(s.Recipes.TransactionTimeoutSeconds) * time.Second
}

// Timeout returns the LLM request timeout as a duration
func (s LLMSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long generated suggestions stay fetchable
func (s LLMSettings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLHours) * time.Hour
}

// ExportURLExpiry returns the lifetime of presigned export URLs
func (s *Settings) ExportURLExpiry() time.Duration {
	return time.Duration(s.Export.URLExpiryMinutes) * time.Minute
}
