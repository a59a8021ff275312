package scoped

import (
	"log/slog"

	"github.com/AikidoSec/scopedtls-go/internal/log"
)

// Config holds the library's logging options.
type Config struct {
	// LogLevel sets the logging level (DEBUG, INFO, WARN, ERROR). Defaults to ERROR.
	LogLevel string
	// LogFormat sets the logging format (text, json)
	LogFormat string
	// Logger provides a custom slog instance that overrides LogFormat
	Logger *slog.Logger
	// Debug enables debug logging (overrides LogLevel)
	Debug bool
}

// Configure applies cfg. A nil cfg leaves the current settings untouched.
func Configure(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	logLevel := cfg.LogLevel
	if cfg.Debug {
		logLevel = "DEBUG"
	}

	if logLevel != "" {
		if err := log.SetLogLevel(logLevel); err != nil {
			return err
		}
	}

	if cfg.LogFormat != "" {
		if err := log.SetFormat(cfg.LogFormat); err != nil {
			return err
		}
	}

	if cfg.Logger != nil {
		log.SetLogger(cfg.Logger)
	}

	return nil
}
