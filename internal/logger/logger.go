package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"crypto-universe/internal/trace"
)

var (
	// Global logger instance, a no-op until Init is called
	globalLogger = zap.NewNop().Sugar()
	// Whether detailed logging is enabled
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or console
	DetailedLogging bool   // Enable debug logs
}

// Init initializes the global logger based on environment variables
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

// LoadConfigFromEnv loads logging configuration from environment variables
func LoadConfigFromEnv() LogConfig {
	return LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "json"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	}
}

// InitWithConfig builds the zap logger for the given configuration
func InitWithConfig(config LogConfig) error {
	detailedLogging = config.DetailedLogging

	var zc zap.Config
	if config.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(parseLogLevel(config.Level))
	zc.Sampling = nil
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stdout"}

	// Skip logWithTrace and the exported wrapper so the caller is the real call site.
	l, err := zc.Build(zap.AddCallerSkip(2))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	globalLogger = l.Sugar()
	return nil
}

// SetLogger replaces the global logger, mostly for tests
func SetLogger(l *zap.Logger) {
	globalLogger = l.WithOptions(zap.AddCallerSkip(2)).Sugar()
}

// Sync flushes buffered entries
func Sync() error {
	return globalLogger.Sync()
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Debug logs a debug message
func Debug(ctx context.Context, msg string, args ...any) {
	if !detailedLogging {
		return
	}
	logWithTrace(ctx, zapcore.DebugLevel, msg, 0, args...)
}

// Info logs an info message
func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.InfoLevel, msg, 0, args...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.WarnLevel, msg, 0, args...)
}

// ErrorWithErr logs an error message with an error object and marks the span as failed
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	recordSpanError(ctx, err)
	logWithTrace(ctx, zapcore.ErrorLevel, msg, 0, append([]any{"error", err}, args...)...)
}

// DebugSkip and InfoSkip report the caller `skip` frames
// further up. Decorators use them so the log points at their caller.
func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	if !detailedLogging {
		return
	}
	logWithTrace(ctx, zapcore.DebugLevel, msg, skip, args...)
}

func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, zapcore.InfoLevel, msg, skip, args...)
}

func recordSpanError(ctx context.Context, err error) {
	if err == nil || !trace.Enabled() {
		return
	}
	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// logWithTrace logs a message with trace ID and span ID if available
func logWithTrace(ctx context.Context, level zapcore.Level, msg string, skip int, args ...any) {
	if traceID, spanID, ok := trace.GetTraceFields(ctx); ok {
		args = append([]any{"trace_id", traceID, "span_id", spanID}, args...)
	}

	l := globalLogger
	if skip > 0 {
		l = l.WithOptions(zap.AddCallerSkip(skip))
	}

	switch level {
	case zapcore.DebugLevel:
		l.Debugw(msg, args...)
	case zapcore.WarnLevel:
		l.Warnw(msg, args...)
	case zapcore.ErrorLevel:
		l.Errorw(msg, args...)
	default:
		l.Infow(msg, args...)
	}
}
