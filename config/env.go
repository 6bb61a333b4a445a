package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment is the deployment the service runs in. It decides where secrets
// are read from and which of them are mandatory.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads the environment from CI and ENV. CI=true wins over
// ENV; an unset or unknown ENV means development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	env := Environment(strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))))
	switch env {
	case Production, Test, Development:
		return env
	case "":
		return Development
	default:
		logrus.WithField("env", env).Warn("unknown ENV value, assuming development")
		return Development
	}
}

// SecretsFromEnv reports whether secrets are passed as TEST_* variables
// instead of files in the secrets directory.
func (e Environment) SecretsFromEnv() bool {
	return e == CI
}

// IsProduction reports whether the service runs in production
func IsProduction() bool {
	return GetEnvironment() == Production
}
