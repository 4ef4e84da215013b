package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the process-wide structured logger. LOG_FORMAT=json
// switches to JSON output for log shippers; LOG_LEVEL follows logrus level
// names and defaults to info.
func InitLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if os.Getenv("LOG_FORMAT") == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	return logger
}
