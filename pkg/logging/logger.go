// Package logging provides structured logging for falcon2jira using zerolog.
// It emits human-readable console output when attached to a terminal and
// structured JSON otherwise, which suits both interactive runs and the
// scheduled runner the sync is normally invoked from.
//
// Example usage:
//
//	logging.Info().Str("alert_id", "A9").Msg("Resolving issue")
//
//	logging.Error().
//	    Err(err).
//	    Str("issue_key", "SEC-9").
//	    Msg("Status transition failed")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger zerolog.Logger

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

func init() {
	defaultLogger = createDefaultLogger()
}

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum log level to output (trace, debug, info, warn, error)
	Level string

	// Format is the output format (json, console, auto)
	Format string

	// AddCaller includes file:line in log output
	AddCaller bool
}

// NewFromConfig creates a new logger from configuration.
func NewFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{Level: "info", Format: "auto"}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writer io.Writer = os.Stderr
	useConsole := cfg.Format == "console" || (cfg.Format != "json" && isatty())
	if useConsole {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// createDefaultLogger creates a logger with default settings.
func createDefaultLogger() zerolog.Logger {
	return NewFromConfig(&Config{
		Level:  getLogLevel(),
		Format: "auto",
	})
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger // Also update zerolog's global logger
}

// New creates a new logger with the given writer.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// With creates a child logger context with additional fields.
func With() zerolog.Context {
	return defaultLogger.With()
}

// Debug starts a new debug level log event.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts a new info level log event.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a new warning level log event.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts a new error level log event.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Fatal starts a new fatal level log event (will exit after logging).
func Fatal() *zerolog.Event {
	return defaultLogger.Fatal()
}

// Err creates a new error log event with the given error.
func Err(err error) *zerolog.Event {
	return defaultLogger.Err(err)
}

// isatty checks if stderr is a terminal.
func isatty() bool {
	if fileInfo, _ := os.Stderr.Stat(); (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// getLogLevel returns the log level from environment or defaults.
func getLogLevel() string {
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		return levelStr
	}
	if os.Getenv("DEBUG") != "" {
		return "debug"
	}
	return "info"
}
