package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{input: "fatal", want: FatalLevel},
		{input: "error", want: ErrorLevel},
		{input: "warn", want: WarnLevel},
		{input: "warning", want: WarnLevel},
		{input: "info", want: InfoLevel},
		{input: "DEBUG", want: DebugLevel},
		{input: "verbose", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "fatal", FatalLevel.String())
	assert.Equal(t, "debug", DebugLevel.String())
	assert.Equal(t, "unknown", LogLevel(42).String())
}

func TestGoLogger_IsLevelEnabled(t *testing.T) {
	logger := NewGoLogger(InfoLevel)

	assert.True(t, logger.IsLevelEnabled(FatalLevel))
	assert.True(t, logger.IsLevelEnabled(InfoLevel))
	assert.False(t, logger.IsLevelEnabled(DebugLevel))

	var nilLogger *GoLogger

	assert.False(t, nilLogger.IsLevelEnabled(FatalLevel))
}

func TestGoLogger_Hydrate(t *testing.T) {
	logger := NewGoLogger(DebugLevel)

	line := logger.hydrate(InfoLevel, "service ready")
	assert.Equal(t, "[info] service ready", line)

	child, ok := logger.WithFields("service", "ocr", "attempt", 2).(*GoLogger)
	require.True(t, ok)

	line = child.hydrate(ErrorLevel, "call failed")
	assert.Equal(t, "[error] [service=ocr, attempt=2] call failed", line)
}

func TestGoLogger_WithDefaultMessageTemplate(t *testing.T) {
	logger, ok := NewGoLogger(DebugLevel).WithDefaultMessageTemplate("batch:").(*GoLogger)
	require.True(t, ok)

	line := logger.hydrate(WarnLevel, "queue full")
	assert.Equal(t, "[warn] batch: queue full", line)
}

func TestGoLogger_WithFieldsAccumulates(t *testing.T) {
	base := NewGoLogger(DebugLevel).WithFields("a", 1)
	child, ok := base.WithFields("b", 2).(*GoLogger)
	require.True(t, ok)

	assert.Equal(t, "[a=1, b=2]", child.hydrateFields())
}

func TestGoLogger_OddFieldCount(t *testing.T) {
	logger, ok := NewGoLogger(DebugLevel).WithFields("a", 1, "dangling").(*GoLogger)
	require.True(t, ok)

	assert.Equal(t, "[a=1, dangling]", logger.hydrateFields())
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, `forged\nentry`, sanitizeString("forged\nentry"))
	assert.Equal(t, `a\rb\tc`, sanitizeString("a\rb\tc"))
	assert.Equal(t, "clean", sanitizeString("clean"))
}

func TestSanitizeArgs(t *testing.T) {
	out := sanitizeArgs([]any{"bad\nvalue", 42, nil})

	assert.Equal(t, `bad\nvalue`, out[0])
	assert.Equal(t, 42, out[1])
	assert.Nil(t, out[2])
}

func TestNoneLogger_DoesNothing(t *testing.T) {
	logger := &NoneLogger{}

	assert.NotPanics(t, func() {
		logger.Info("a")
		logger.Infof("%s", "a")
		logger.Warnln("a")
		logger.Errorf("%v", nil)
		logger.Debug("a")
		logger.Fatalf("%s", "never exits")
	})

	assert.NoError(t, logger.Sync())

	child := logger.WithFields("k", "v").WithDefaultMessageTemplate("t")
	assert.NotNil(t, child)
}
