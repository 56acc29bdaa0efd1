package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleLogger writes log messages through zap.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	verbose bool
	sugar   *zap.SugaredLogger
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return New(zapcore.Lock(os.Stderr), verbose)
}

// New creates a ConsoleLogger writing plain console lines to w.
func New(w zapcore.WriteSyncer, verbose bool) *ConsoleLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return NewWithCore(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), w, level), verbose)
}

// NewWithCore creates a ConsoleLogger on an arbitrary zap core.
func NewWithCore(core zapcore.Core, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		verbose: verbose,
		sugar:   zap.New(core).Sugar(),
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      encodeLevel,
		ConsoleSeparator: " ",
	}
}

// Info lines carry no prefix.
func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch {
	case l == zapcore.DebugLevel:
		enc.AppendString("[VERBOSE]")
	case l >= zapcore.ErrorLevel:
		enc.AppendString("[ERROR]")
	case l == zapcore.WarnLevel:
		enc.AppendString("[WARN]")
	}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered output.
func (l *ConsoleLogger) Sync() error {
	return l.sugar.Sync()
}
