// Package logger provides structured logging for cfgload.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields carries structured context attached to a log entry.
type Fields map[string]interface{}

// Logger is the logging surface used by every cfgload package.
type Logger interface {
	// Debug logs at debug level. Shown when verbosity >= 1.
	Debug(msg string)

	// Info logs at info level.
	Info(msg string)

	// Warn logs at warn level.
	Warn(msg string)

	// Error logs at error level. The config engine writes its diagnostics here.
	Error(msg string)

	// Trace logs per-line detail. Shown when verbosity >= 2.
	Trace(msg string)

	// WithFields returns a Logger that adds fields to every entry.
	WithFields(fields Fields) Logger
}

// Config holds the settings for NewLogger.
type Config struct {
	// Verbosity: 0 info, 1 debug, 2 trace.
	Verbosity int

	// Output defaults to os.Stderr.
	Output io.Writer

	// Component, when set, is added to every entry as "component".
	Component string
}

type logger struct {
	zap       *zap.Logger
	verbosity int
}

// NewLogger builds a JSON logger writing to cfg.Output.
func NewLogger(cfg Config) Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(cfg.Output),
		levelFor(cfg.Verbosity),
	)

	z := zap.New(core)
	if cfg.Component != "" {
		z = z.With(zap.String("component", cfg.Component))
	}

	return &logger{zap: z, verbosity: cfg.Verbosity}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &logger{zap: zap.NewNop()}
}

func levelFor(verbosity int) zapcore.LevelEnabler {
	if verbosity <= 0 {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

func (l *logger) Debug(msg string) { l.zap.Debug(msg) }
func (l *logger) Info(msg string)  { l.zap.Info(msg) }
func (l *logger) Warn(msg string)  { l.zap.Warn(msg) }
func (l *logger) Error(msg string) { l.zap.Error(msg) }

func (l *logger) Trace(msg string) {
	if l.verbosity >= 2 {
		l.zap.Debug("TRACE: " + msg)
	}
}

func (l *logger) WithFields(fields Fields) Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			zapFields = append(zapFields, zap.NamedError(k, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, v))
	}

	return &logger{
		zap:       l.zap.With(zapFields...),
		verbosity: l.verbosity,
	}
}
