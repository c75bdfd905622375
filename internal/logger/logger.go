package logger

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerContextKey struct{}

var (
	//nolint:gochecknoglobals // Global logger is shared by the whole application.
	globalLogger *zap.SugaredLogger

	//nolint:gochecknoglobals // Protects globalLogger replacement.
	globalLoggerMutex sync.RWMutex

	//nolint:gochecknoglobals // Atomic level lets the configuration change verbosity at runtime.
	defaultLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	//nolint:gochecknoglobals // Immutable lookup table.
	levelsByName = map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		"warn":   zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"dpanic": zapcore.DPanicLevel,
		"panic":  zapcore.PanicLevel,
		"fatal":  zapcore.FatalLevel,
	}
)

//nolint:gochecknoinits // The logger must be usable before the configuration is loaded.
func init() {
	SetLogger(New(defaultLevel))
}

// New creates a console logger writing to stdout.
// If level is nil, the shared atomic level is used.
func New(level zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = defaultLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "message",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout(time.DateTime),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	return zap.New(core, options...).Sugar()
}

// ParseLogLevel converts a level name into a zap level.
// The second value reports whether the name was recognized.
func ParseLogLevel(value string) (zapcore.Level, bool) {
	level, ok := levelsByName[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return zapcore.InfoLevel, false
	}

	return level, true
}

// Level returns the current global log level.
func Level() zapcore.Level {
	return defaultLevel.Level()
}

// SetLevel changes the global log level.
func SetLevel(level zapcore.Level) {
	defaultLevel.SetLevel(level)
}

// IsDebugLevel reports whether debug messages are enabled.
func IsDebugLevel() bool {
	return defaultLevel.Enabled(zapcore.DebugLevel)
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	globalLoggerMutex.RLock()
	defer globalLoggerMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.SugaredLogger) {
	globalLoggerMutex.Lock()
	defer globalLoggerMutex.Unlock()

	globalLogger = l
}

// ToContext attaches a logger to the context.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// FromContext returns the logger attached to the context or the global one.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerContextKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}

	return Logger()
}

// WithKV returns a context whose logger carries the given key-value pairs.
func WithKV(ctx context.Context, keysAndValues ...any) context.Context {
	return ToContext(ctx, FromContext(ctx).With(keysAndValues...))
}

// WithName returns a context whose logger has the given name segment appended.
func WithName(ctx context.Context, name string) context.Context {
	return ToContext(ctx, FromContext(ctx).Named(name))
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at debug level.
func DebugKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Debugw(message, keysAndValues...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at info level.
func InfoKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Infow(message, keysAndValues...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, args ...any) {
	FromContext(ctx).Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at warn level.
func WarnKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Warnw(message, keysAndValues...)
}

// Error logs a message at error level.
func Error(ctx context.Context, args ...any) {
	FromContext(ctx).Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at error level.
func ErrorKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Errorw(message, keysAndValues...)
}

// Fatal logs a message at fatal level and exits with status 1.
func Fatal(ctx context.Context, args ...any) {
	FromContext(ctx).Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits with status 1.
func Fatalf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Fatalf(format, args...)
}

// FatalKV logs a message with key-value pairs at fatal level and exits with status 1.
func FatalKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Fatalw(message, keysAndValues...)
}
