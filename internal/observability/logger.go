// Package observability carries the logging, redaction, request-id and
// tracing plumbing shared by the server and the conversation engine.
package observability

import (
	"context"
	"io"
	"log/slog"
)

// Logger wraps slog.Logger with redaction and request-id support. The
// embedded methods log as-is; the Redacted variants scrub message and string
// arguments first.
type Logger struct {
	*slog.Logger
	redactor *Redactor
}

// LoggerConfig contains configuration for the logger.
type LoggerConfig struct {
	Level      slog.Level
	Output     io.Writer
	AddSource  bool
	JSONFormat bool
}

// NewLogger builds a logger writing to cfg.Output. A nil redactor disables
// scrubbing.
func NewLogger(cfg LoggerConfig, redactor *Redactor) *Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return &Logger{
		Logger:   slog.New(handler),
		redactor: redactor,
	}
}

// WithRequestID returns a logger tagged with the request id in ctx, or the
// receiver unchanged when ctx carries none.
func (l *Logger) WithRequestID(ctx context.Context) *Logger {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		return l
	}
	return &Logger{
		Logger:   l.Logger.With("request_id", requestID),
		redactor: l.redactor,
	}
}

// WithFields returns a logger with additional key/value fields.
func (l *Logger) WithFields(args ...any) *Logger {
	return &Logger{
		Logger:   l.Logger.With(args...),
		redactor: l.redactor,
	}
}

// RedactedDebug logs at DEBUG with message and string arguments scrubbed.
func (l *Logger) RedactedDebug(msg string, args ...any) {
	l.redacted(slog.LevelDebug, msg, args)
}

// RedactedInfo logs at INFO with message and string arguments scrubbed.
func (l *Logger) RedactedInfo(msg string, args ...any) {
	l.redacted(slog.LevelInfo, msg, args)
}

// RedactedWarn logs at WARN with message and string arguments scrubbed.
func (l *Logger) RedactedWarn(msg string, args ...any) {
	l.redacted(slog.LevelWarn, msg, args)
}

// RedactedError logs at ERROR with message and string arguments scrubbed.
func (l *Logger) RedactedError(msg string, args ...any) {
	l.redacted(slog.LevelError, msg, args)
}

func (l *Logger) redacted(level slog.Level, msg string, args []any) {
	if l.redactor != nil {
		msg = l.redactor.Redact(msg)
		args = l.redactArgs(args)
	}
	l.Logger.Log(context.Background(), level, msg, args...)
}

func (l *Logger) redactArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			out[i] = l.redactor.Redact(v)
		case error:
			out[i] = l.redactor.Redact(v.Error())
		default:
			out[i] = arg
		}
	}
	return out
}

// Slog returns the underlying slog.Logger for collaborators that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.Logger
}

// ParseLevel maps a config level string to a slog.Level, defaulting to Info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
