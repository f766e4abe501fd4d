package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with VMForge-specific helpers.
type Logger struct {
	zerolog.Logger
}

// loggerContextKey is the context key for loggers.
type loggerContextKey struct{}

// NewLogger creates a new structured logger from the given configuration.
func NewLogger(cfg LoggingConfig) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.Output, err)
		}
		output = f
	}

	switch cfg.TimeFormat {
	case "unix":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	case "unixms":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	default:
		zerolog.TimeFieldFormat = time.RFC3339
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp()
	if cfg.EnableCaller {
		logger = logger.Caller()
	}

	return &Logger{Logger: logger.Logger()}, nil
}

// NewComponentLogger returns a logger scoped to a named component.
func NewComponentLogger(base *Logger, component string) *Logger {
	return &Logger{Logger: base.With().Str("component", component).Logger()}
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "fatal":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// WithContext returns a copy of ctx carrying the logger.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// FromContext retrieves the logger from ctx, falling back to a default
// logger when none is present.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*Logger); ok {
		return l
	}
	l, _ := NewLogger(DefaultConfig().Logging)
	return l
}

// WithProvider returns a logger with the provider field set.
func (l *Logger) WithProvider(provider string) *Logger {
	return &Logger{Logger: l.With().Str("provider", provider).Logger()}
}

// WithResourceID returns a logger with the resource_id field set.
func (l *Logger) WithResourceID(id string) *Logger {
	return &Logger{Logger: l.With().Str("resource_id", id).Logger()}
}

// WithTemplate returns a logger with the template field set.
func (l *Logger) WithTemplate(name string) *Logger {
	return &Logger{Logger: l.With().Str("template", name).Logger()}
}

// WithState returns a logger with the current construction state set.
func (l *Logger) WithState(state string) *Logger {
	return &Logger{Logger: l.With().Str("state", state).Logger()}
}

// WithField returns a logger with an arbitrary field set.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With().Interface(key, value).Logger()}
}

// WithError returns a logger with the error field set.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With().Err(err).Logger()}
}
