package log

import (
	"fmt"
	"log"
	"strings"
)

// GoLogger is the Go built-in (log) implementation of the Logger interface.
//
// All string arguments are sanitized to prevent log injection (CWE-117).
type GoLogger struct {
	fields                 []any
	Level                  LogLevel
	defaultMessageTemplate string
}

// NewGoLogger creates a GoLogger at the given verbosity ceiling.
func NewGoLogger(level LogLevel) *GoLogger {
	return &GoLogger{Level: level}
}

// IsLevelEnabled checks if the given level is enabled.
func (l *GoLogger) IsLevelEnabled(level LogLevel) bool {
	if l == nil {
		return false
	}

	return l.Level >= level
}

// Info implements the Logger interface.
func (l *GoLogger) Info(args ...any) {
	if l.IsLevelEnabled(InfoLevel) {
		log.Print(l.hydrate(InfoLevel, args...))
	}
}

// Infof implements the Logger interface.
func (l *GoLogger) Infof(format string, args ...any) {
	if l.IsLevelEnabled(InfoLevel) {
		log.Print(l.hydrate(InfoLevel, fmt.Sprintf(sanitizeString(format), args...)))
	}
}

// Infoln implements the Logger interface.
func (l *GoLogger) Infoln(args ...any) {
	if l.IsLevelEnabled(InfoLevel) {
		log.Println(l.hydrateLine(InfoLevel, args...)...)
	}
}

// Warn implements the Logger interface.
func (l *GoLogger) Warn(args ...any) {
	if l.IsLevelEnabled(WarnLevel) {
		log.Print(l.hydrate(WarnLevel, args...))
	}
}

// Warnf implements the Logger interface.
func (l *GoLogger) Warnf(format string, args ...any) {
	if l.IsLevelEnabled(WarnLevel) {
		log.Print(l.hydrate(WarnLevel, fmt.Sprintf(sanitizeString(format), args...)))
	}
}

// Warnln implements the Logger interface.
func (l *GoLogger) Warnln(args ...any) {
	if l.IsLevelEnabled(WarnLevel) {
		log.Println(l.hydrateLine(WarnLevel, args...)...)
	}
}

// Error implements the Logger interface.
func (l *GoLogger) Error(args ...any) {
	if l.IsLevelEnabled(ErrorLevel) {
		log.Print(l.hydrate(ErrorLevel, args...))
	}
}

// Errorf implements the Logger interface.
func (l *GoLogger) Errorf(format string, args ...any) {
	if l.IsLevelEnabled(ErrorLevel) {
		log.Print(l.hydrate(ErrorLevel, fmt.Sprintf(sanitizeString(format), args...)))
	}
}

// Errorln implements the Logger interface.
func (l *GoLogger) Errorln(args ...any) {
	if l.IsLevelEnabled(ErrorLevel) {
		log.Println(l.hydrateLine(ErrorLevel, args...)...)
	}
}

// Debug implements the Logger interface.
func (l *GoLogger) Debug(args ...any) {
	if l.IsLevelEnabled(DebugLevel) {
		log.Print(l.hydrate(DebugLevel, args...))
	}
}

// Debugf implements the Logger interface.
func (l *GoLogger) Debugf(format string, args ...any) {
	if l.IsLevelEnabled(DebugLevel) {
		log.Print(l.hydrate(DebugLevel, fmt.Sprintf(sanitizeString(format), args...)))
	}
}

// Debugln implements the Logger interface.
func (l *GoLogger) Debugln(args ...any) {
	if l.IsLevelEnabled(DebugLevel) {
		log.Println(l.hydrateLine(DebugLevel, args...)...)
	}
}

// Fatal implements the Logger interface.
func (l *GoLogger) Fatal(args ...any) {
	if l.IsLevelEnabled(FatalLevel) {
		log.Fatal(l.hydrate(FatalLevel, args...))
	}
}

// Fatalf implements the Logger interface.
func (l *GoLogger) Fatalf(format string, args ...any) {
	if l.IsLevelEnabled(FatalLevel) {
		log.Fatal(l.hydrate(FatalLevel, fmt.Sprintf(sanitizeString(format), args...)))
	}
}

// Fatalln implements the Logger interface.
func (l *GoLogger) Fatalln(args ...any) {
	if l.IsLevelEnabled(FatalLevel) {
		log.Fatalln(l.hydrateLine(FatalLevel, args...)...)
	}
}

// WithFields implements the Logger interface.
//
//nolint:ireturn
func (l *GoLogger) WithFields(fields ...any) Logger {
	if l == nil {
		return &GoLogger{}
	}

	newFields := make([]any, 0, len(l.fields)+len(fields))
	newFields = append(newFields, l.fields...)
	newFields = append(newFields, fields...)

	return &GoLogger{
		Level:                  l.Level,
		fields:                 newFields,
		defaultMessageTemplate: l.defaultMessageTemplate,
	}
}

// WithDefaultMessageTemplate implements the Logger interface.
//
//nolint:ireturn
func (l *GoLogger) WithDefaultMessageTemplate(message string) Logger {
	if l == nil {
		return &GoLogger{}
	}

	return &GoLogger{
		Level:                  l.Level,
		fields:                 l.fields,
		defaultMessageTemplate: message,
	}
}

func (l *GoLogger) hydrate(level LogLevel, args ...any) string {
	message := fmt.Sprint(sanitizeArgs(args)...)

	if l == nil {
		return message
	}

	parts := make([]string, 0, 4)
	parts = append(parts, fmt.Sprintf("[%s]", level.String()))

	if l.defaultMessageTemplate != "" {
		parts = append(parts, l.defaultMessageTemplate)
	}

	if fields := l.hydrateFields(); fields != "" {
		parts = append(parts, fields)
	}

	parts = append(parts, message)

	return strings.Join(parts, " ")
}

func (l *GoLogger) hydrateLine(level LogLevel, args ...any) []any {
	safe := sanitizeArgs(args)

	if l == nil {
		return append([]any{fmt.Sprintf("[%s]", level.String())}, safe...)
	}

	parts := make([]any, 0, 3+len(safe))
	parts = append(parts, fmt.Sprintf("[%s]", level.String()))

	if l.defaultMessageTemplate != "" {
		parts = append(parts, l.defaultMessageTemplate)
	}

	if fields := l.hydrateFields(); fields != "" {
		parts = append(parts, fields)
	}

	return append(parts, safe...)
}

func (l *GoLogger) hydrateFields() string {
	if len(l.fields) == 0 {
		return ""
	}

	parts := make([]string, 0, (len(l.fields)+1)/2)

	for i := 0; i < len(l.fields); i += 2 {
		if i+1 >= len(l.fields) {
			parts = append(parts, fmt.Sprint(l.fields[i]))
			continue
		}

		parts = append(parts, fmt.Sprintf("%v=%v", l.fields[i], l.fields[i+1]))
	}

	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// Sync implements the Logger interface. The stdlib logger is unbuffered.
func (l *GoLogger) Sync() error { return nil }
