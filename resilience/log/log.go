package log

import (
	"fmt"
	"strings"
)

// Logger is the leveled logging interface consumed across lib-resilience.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)
	Infoln(args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)
	Warnln(args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)
	Errorln(args ...any)

	Debug(args ...any)
	Debugf(format string, args ...any)
	Debugln(args ...any)

	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Fatalln(args ...any)

	// WithFields returns a child logger with additional key/value pairs
	// attached to every entry.
	WithFields(fields ...any) Logger

	// WithDefaultMessageTemplate returns a child logger that prefixes every
	// entry with the given template.
	WithDefaultMessageTemplate(message string) Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

// LogLevel represents the severity of a log entry.
//
// Lower numeric values indicate higher severity. A logger's Level acts as a
// verbosity ceiling: a logger at InfoLevel emits Fatal, Error, Warn and Info
// entries and suppresses Debug.
type LogLevel uint8

// Log level constants, most severe first.
const (
	FatalLevel LogLevel = iota
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

// String returns the string representation of a log level.
func (level LogLevel) String() string {
	switch level {
	case FatalLevel:
		return "fatal"
	case ErrorLevel:
		return "error"
	case WarnLevel:
		return "warn"
	case InfoLevel:
		return "info"
	case DebugLevel:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel takes a string level and returns the LogLevel constant.
func ParseLevel(lvl string) (LogLevel, error) {
	switch strings.ToLower(lvl) {
	case "fatal":
		return FatalLevel, nil
	case "error":
		return ErrorLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	}

	var l LogLevel

	return l, fmt.Errorf("not a valid LogLevel: %q", lvl)
}
