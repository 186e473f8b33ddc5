package zap

import (
	"io"
	"os"

	"github.com/LerianStudio/lib-resilience/resilience/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is the zap-backed implementation of log.Logger.
type ZapLogger struct {
	sugar       *zap.SugaredLogger
	atomicLevel zap.AtomicLevel
}

// Compile-time assertion: *ZapLogger implements log.Logger.
var _ log.Logger = (*ZapLogger)(nil)

// NewLogger creates a production JSON logger writing to stdout at the given
// verbosity ceiling.
func NewLogger(level log.LogLevel) *ZapLogger {
	return NewLoggerWithWriter(level, os.Stdout)
}

// NewLoggerWithWriter creates a logger writing to the given sink. Used by
// tests to capture output.
func NewLoggerWithWriter(level log.LogLevel, w io.Writer) *ZapLogger {
	atomicLevel := zap.NewAtomicLevelAt(toZapLevel(level))

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		atomicLevel,
	)

	return &ZapLogger{
		sugar:       zap.New(core).Sugar(),
		atomicLevel: atomicLevel,
	}
}

// SetLevel changes the verbosity ceiling at runtime.
func (l *ZapLogger) SetLevel(level log.LogLevel) {
	if l == nil {
		return
	}

	l.atomicLevel.SetLevel(toZapLevel(level))
}

func (l *ZapLogger) must() *zap.SugaredLogger {
	if l == nil || l.sugar == nil {
		return zap.NewNop().Sugar()
	}

	return l.sugar
}

// Info implements the Logger interface.
func (l *ZapLogger) Info(args ...any) { l.must().Info(args...) }

// Infof implements the Logger interface.
func (l *ZapLogger) Infof(format string, args ...any) { l.must().Infof(format, args...) }

// Infoln implements the Logger interface.
func (l *ZapLogger) Infoln(args ...any) { l.must().Infoln(args...) }

// Warn implements the Logger interface.
func (l *ZapLogger) Warn(args ...any) { l.must().Warn(args...) }

// Warnf implements the Logger interface.
func (l *ZapLogger) Warnf(format string, args ...any) { l.must().Warnf(format, args...) }

// Warnln implements the Logger interface.
func (l *ZapLogger) Warnln(args ...any) { l.must().Warnln(args...) }

// Error implements the Logger interface.
func (l *ZapLogger) Error(args ...any) { l.must().Error(args...) }

// Errorf implements the Logger interface.
func (l *ZapLogger) Errorf(format string, args ...any) { l.must().Errorf(format, args...) }

// Errorln implements the Logger interface.
func (l *ZapLogger) Errorln(args ...any) { l.must().Errorln(args...) }

// Debug implements the Logger interface.
func (l *ZapLogger) Debug(args ...any) { l.must().Debug(args...) }

// Debugf implements the Logger interface.
func (l *ZapLogger) Debugf(format string, args ...any) { l.must().Debugf(format, args...) }

// Debugln implements the Logger interface.
func (l *ZapLogger) Debugln(args ...any) { l.must().Debugln(args...) }

// Fatal implements the Logger interface.
func (l *ZapLogger) Fatal(args ...any) { l.must().Fatal(args...) }

// Fatalf implements the Logger interface.
func (l *ZapLogger) Fatalf(format string, args ...any) { l.must().Fatalf(format, args...) }

// Fatalln implements the Logger interface.
func (l *ZapLogger) Fatalln(args ...any) { l.must().Fatalln(args...) }

// WithFields implements the Logger interface. Fields are passed as
// alternating key/value pairs.
//
//nolint:ireturn
func (l *ZapLogger) WithFields(fields ...any) log.Logger {
	return &ZapLogger{
		sugar:       l.must().With(fields...),
		atomicLevel: l.atomicLevel,
	}
}

// WithDefaultMessageTemplate implements the Logger interface by naming the
// underlying logger.
//
//nolint:ireturn
func (l *ZapLogger) WithDefaultMessageTemplate(message string) log.Logger {
	return &ZapLogger{
		sugar:       l.must().Named(message),
		atomicLevel: l.atomicLevel,
	}
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.must().Sync()
}

func toZapLevel(level log.LogLevel) zapcore.Level {
	switch level {
	case log.DebugLevel:
		return zapcore.DebugLevel
	case log.InfoLevel:
		return zapcore.InfoLevel
	case log.WarnLevel:
		return zapcore.WarnLevel
	case log.ErrorLevel:
		return zapcore.ErrorLevel
	case log.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
