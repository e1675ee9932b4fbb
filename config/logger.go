package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the JSON logger used across the service. The level is
// taken from LOG_LEVEL and defaults to info.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
