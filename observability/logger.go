// Package observability provides structured logging, Prometheus metrics and
// OpenTelemetry tracing for slncfg.
package observability

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Logger is the structured logger used across slncfg. Messages are mtlog
// templates: "Parsed {Path} with {Count} properties".
type Logger interface {
	// Verbose logs step-by-step tracing of file discovery and parsing
	Verbose(messageTemplate string, args ...any)
	VerboseContext(ctx context.Context, messageTemplate string, args ...any)

	// Debug logs resolution details such as parsed files and chosen values
	Debug(messageTemplate string, args ...any)
	DebugContext(ctx context.Context, messageTemplate string, args ...any)

	// Info logs request-level progress
	Info(messageTemplate string, args ...any)
	InfoContext(ctx context.Context, messageTemplate string, args ...any)

	// Warn logs recovered failures: unreadable or malformed input files
	Warn(messageTemplate string, args ...any)
	WarnContext(ctx context.Context, messageTemplate string, args ...any)

	// Error logs failures that abort a request
	Error(messageTemplate string, args ...any)
	ErrorContext(ctx context.Context, messageTemplate string, args ...any)

	// ForContext returns a child logger carrying an extra property.
	ForContext(key string, value any) Logger
}

// LogLevel is the minimum level a logger emits.
type LogLevel int

const (
	VerboseLevel LogLevel = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	// SilentLevel suppresses everything below fatal.
	SilentLevel
)

// ParseLogLevel maps a level name or a dotnet-style verbosity
// (quiet, minimal, normal, detailed, diagnostic) to a LogLevel.
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verbose", "diagnostic", "diag":
		return VerboseLevel, nil
	case "debug", "detailed", "d":
		return DebugLevel, nil
	case "info", "information", "normal", "n":
		return InfoLevel, nil
	case "warn", "warning", "minimal", "m", "":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "quiet", "q", "silent":
		return SilentLevel, nil
	default:
		return WarnLevel, fmt.Errorf("unknown log level %q", name)
	}
}

type mtlogAdapter struct {
	logger core.Logger
}

// NewLogger creates a logger writing rendered events to output.
func NewLogger(output io.Writer, level LogLevel) Logger {
	opts := []mtlog.Option{
		mtlog.WithSink(sinks.NewConsoleSinkWithWriter(output)),
		mtlog.WithTimestamp(),
	}

	switch level {
	case VerboseLevel:
		opts = append(opts, mtlog.Verbose())
	case DebugLevel:
		opts = append(opts, mtlog.Debug())
	case InfoLevel:
		opts = append(opts, mtlog.Information())
	case WarnLevel:
		opts = append(opts, mtlog.Warning())
	case ErrorLevel:
		opts = append(opts, mtlog.Error())
	default:
		opts = append(opts, mtlog.WithMinimumLevel(core.FatalLevel))
	}

	return &mtlogAdapter{logger: mtlog.New(opts...)}
}

func (a *mtlogAdapter) Verbose(messageTemplate string, args ...any) {
	a.logger.Verbose(messageTemplate, args...)
}

func (a *mtlogAdapter) VerboseContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.VerboseContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Debug(messageTemplate string, args ...any) {
	a.logger.Debug(messageTemplate, args...)
}

func (a *mtlogAdapter) DebugContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.DebugContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Info(messageTemplate string, args ...any) {
	a.logger.Info(messageTemplate, args...)
}

func (a *mtlogAdapter) InfoContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.InfoContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Warn(messageTemplate string, args ...any) {
	a.logger.Warn(messageTemplate, args...)
}

func (a *mtlogAdapter) WarnContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.WarnContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Error(messageTemplate string, args ...any) {
	a.logger.Error(messageTemplate, args...)
}

func (a *mtlogAdapter) ErrorContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.ErrorContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) ForContext(key string, value any) Logger {
	return &mtlogAdapter{logger: a.logger.ForContext(key, value)}
}

type nullLogger struct{}

// NewNullLogger returns a logger that discards everything. Library types use
// it when constructed with a nil Logger.
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Verbose(string, ...any)                         {}
func (nullLogger) VerboseContext(context.Context, string, ...any) {}
func (nullLogger) Debug(string, ...any)                           {}
func (nullLogger) DebugContext(context.Context, string, ...any)   {}
func (nullLogger) Info(string, ...any)                            {}
func (nullLogger) InfoContext(context.Context, string, ...any)    {}
func (nullLogger) Warn(string, ...any)                            {}
func (nullLogger) WarnContext(context.Context, string, ...any)    {}
func (nullLogger) Error(string, ...any)                           {}
func (nullLogger) ErrorContext(context.Context, string, ...any)   {}
func (n nullLogger) ForContext(string, any) Logger                { return n }
