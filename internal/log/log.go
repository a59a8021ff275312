// Package log is the library's slog front end.
//
// Records are written through a single package logger that callers can
// replace with SetLogger. Every record carries lib=scopedtls.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	levelVar           = new(slog.LevelVar)
	output   io.Writer = os.Stdout
	logger             = newLogger(slog.NewTextHandler(output, &slog.HandlerOptions{Level: levelVar}))
)

func init() {
	levelVar.Set(slog.LevelError)
}

var ErrInvalidLevel = errors.New("invalid log level")

func newLogger(h slog.Handler) *slog.Logger {
	return slog.New(h).With(slog.String("lib", "scopedtls"))
}

// Logger returns the logger currently in use.
func Logger() *slog.Logger {
	return logger
}

// SetLogger replaces the package logger. A nil logger is ignored.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}

	logger = newLogger(l.Handler())
}

// SetFormat switches the handler between "text" and "json" output.
func SetFormat(format string) error {
	opts := &slog.HandlerOptions{Level: levelVar}

	switch strings.ToLower(format) {
	case "text":
		SetLogger(slog.New(slog.NewTextHandler(output, opts)))
	case "json":
		SetLogger(slog.New(slog.NewJSONHandler(output, opts)))
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

// SetLogLevel accepts DEBUG, INFO, WARN or ERROR in any case.
func SetLogLevel(level string) error {
	switch strings.ToUpper(level) {
	case "DEBUG":
		levelVar.Set(slog.LevelDebug)
	case "INFO":
		levelVar.Set(slog.LevelInfo)
	case "WARN", "WARNING":
		levelVar.Set(slog.LevelWarn)
	case "ERROR", "ERR":
		levelVar.Set(slog.LevelError)
	default:
		return ErrInvalidLevel
	}
	return nil
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}
