package observability

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used across routekit.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	WithContext(ctx context.Context) Logger
	Sync() error
}

// Field is a log field.
type Field = zap.Field

// Field constructors.
var (
	String = zap.String
	Int    = zap.Int
	Error  = zap.Error
)

// LogConfig configures NewLogger. Output is "stdout" or "stderr" (default),
// keeping command output on stdout free of log lines.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// DefaultLogConfig returns JSON logs at info level on stderr.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}
}

type zapLogger struct {
	logger *zap.Logger
}

var (
	globalLogger Logger
	globalMu     sync.RWMutex
)

// NewLogger builds a zap-backed logger.
func NewLogger(cfg LogConfig) (Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	out := zapcore.Lock(os.Stderr)
	if cfg.Output == "stdout" {
		out = zapcore.Lock(os.Stdout)
	}

	core := zapcore.NewCore(encoder, out, level)
	return FromZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))), nil
}

// FromZap wraps an existing zap logger.
func FromZap(logger *zap.Logger) Logger {
	return &zapLogger{logger: logger}
}

func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(level))
	return l, err
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.logger.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.logger.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.logger.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.logger.Error(msg, fields...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{logger: l.logger.With(fields...)}
}

// WithContext adds the table revision and the trace and span IDs stored in
// ctx. Without any it returns l itself.
func (l *zapLogger) WithContext(ctx context.Context) Logger {
	var fields []Field
	for _, key := range contextKeys {
		if value, ok := ctx.Value(key).(string); ok && value != "" {
			fields = append(fields, String(string(key), value))
		}
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func (l *zapLogger) Sync() error {
	return l.logger.Sync()
}

// contextKey doubles as the log field name.
type contextKey string

const (
	revisionKey contextKey = "revision"
	traceIDKey  contextKey = "trace_id"
	spanIDKey   contextKey = "span_id"
)

var contextKeys = []contextKey{revisionKey, traceIDKey, spanIDKey}

func contextString(ctx context.Context, key contextKey) string {
	value, _ := ctx.Value(key).(string)
	return value
}

// ContextWithRevision stores the route table revision in ctx.
func ContextWithRevision(ctx context.Context, revision string) context.Context {
	return context.WithValue(ctx, revisionKey, revision)
}

// RevisionFromContext returns the route table revision stored in ctx.
func RevisionFromContext(ctx context.Context) string {
	return contextString(ctx, revisionKey)
}

// ContextWithTraceID stores a trace ID in ctx.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns the trace ID stored in ctx.
func TraceIDFromContext(ctx context.Context) string {
	return contextString(ctx, traceIDKey)
}

// ContextWithSpanID stores a span ID in ctx.
func ContextWithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey, spanID)
}

// SpanIDFromContext returns the span ID stored in ctx.
func SpanIDFromContext(ctx context.Context) string {
	return contextString(ctx, spanIDKey)
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the process-wide logger, or a default one when
// none was set.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		logger, _ := NewLogger(DefaultLogConfig())
		return logger
	}
	return globalLogger
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return &zapLogger{logger: zap.NewNop()}
}
