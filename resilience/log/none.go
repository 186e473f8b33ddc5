package log

// NoneLogger is a Logger that discards everything. It is the default used
// when a nil logger is injected and the implementation of choice in tests.
type NoneLogger struct{}

// NewNone creates a no-op logger.
func NewNone() Logger {
	return &NoneLogger{}
}

// Info drops the entry.
func (l *NoneLogger) Info(_ ...any) {}

// Infof drops the entry.
func (l *NoneLogger) Infof(_ string, _ ...any) {}

// Infoln drops the entry.
func (l *NoneLogger) Infoln(_ ...any) {}

// Warn drops the entry.
func (l *NoneLogger) Warn(_ ...any) {}

// Warnf drops the entry.
func (l *NoneLogger) Warnf(_ string, _ ...any) {}

// Warnln drops the entry.
func (l *NoneLogger) Warnln(_ ...any) {}

// Error drops the entry.
func (l *NoneLogger) Error(_ ...any) {}

// Errorf drops the entry.
func (l *NoneLogger) Errorf(_ string, _ ...any) {}

// Errorln drops the entry.
func (l *NoneLogger) Errorln(_ ...any) {}

// Debug drops the entry.
func (l *NoneLogger) Debug(_ ...any) {}

// Debugf drops the entry.
func (l *NoneLogger) Debugf(_ string, _ ...any) {}

// Debugln drops the entry.
func (l *NoneLogger) Debugln(_ ...any) {}

// Fatal drops the entry without exiting.
func (l *NoneLogger) Fatal(_ ...any) {}

// Fatalf drops the entry without exiting.
func (l *NoneLogger) Fatalf(_ string, _ ...any) {}

// Fatalln drops the entry without exiting.
func (l *NoneLogger) Fatalln(_ ...any) {}

// WithFields returns the same no-op logger.
//
//nolint:ireturn
func (l *NoneLogger) WithFields(_ ...any) Logger { return l }

// WithDefaultMessageTemplate returns the same no-op logger.
//
//nolint:ireturn
func (l *NoneLogger) WithDefaultMessageTemplate(_ string) Logger { return l }

// Sync is a no-op and always returns nil.
func (l *NoneLogger) Sync() error { return nil }
