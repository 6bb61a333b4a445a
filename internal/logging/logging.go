// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pageza/reciperoulette/backend/config"
)

// Setup applies the log settings to the standard logrus logger. Production
// always logs JSON.
func Setup(settings config.LogSettings) error {
	level, err := logrus.ParseLevel(settings.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.Level, err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	if settings.Format == "json" || config.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
