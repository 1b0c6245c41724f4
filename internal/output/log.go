// Package output provides terminal output utilities: the shared logger,
// lipgloss styles, and table rendering.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var logger = newLogger(os.Stderr, LogConfig{})

// LogConfig controls logger setup.
type LogConfig struct {
	// Verbose enables debug level, timestamps, and caller reporting.
	Verbose bool
	// Writer overrides the destination (stderr by default).
	Writer io.Writer
}

func newLogger(w io.Writer, cfg LogConfig) *log.Logger {
	level := log.WarnLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: cfg.Verbose,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// SetupLogging configures the global logger. Diagnostics meant for users are
// not logged; the logger only carries internal detail, so the default level
// is warn.
func SetupLogging(cfg LogConfig) {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	logger = newLogger(w, cfg)
}

// Logger returns the configured logger.
func Logger() *log.Logger {
	return logger
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}
