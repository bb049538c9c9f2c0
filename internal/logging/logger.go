package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Config holds logger configuration
type Config struct {
	Verbose    bool
	JSONFormat bool      // JSON output for machine consumption
	Output     io.Writer // nil = stderr
}

// New creates a configured logrus logger. The CLI builds one per
// invocation and hands it down to the pipeline and storage layers.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Output != nil {
		logger.SetOutput(cfg.Output)
	}

	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.JSONFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}

	return logger
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
