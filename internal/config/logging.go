package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// Logger returns the process-wide structured logger.
func Logger() *logrus.Logger {
	return logg
}

// SetLogLevel adjusts the logger from the LOG_LEVEL env value.
// Unknown or empty values keep the default Info level.
func SetLogLevel(level string) {
	if level == "" {
		return
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logg.WithField("level", level).Warn("unknown LOG_LEVEL, keeping info")
		return
	}
	logg.SetLevel(parsed)
}
