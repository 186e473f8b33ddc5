package zap

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/LerianStudio/lib-resilience/resilience/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastEntry decodes the final JSON log line written to buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))

	return entry
}

func TestZapLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(log.InfoLevel, &buf)
	logger.Infof("circuit %s is %s", "ocr", "open")
	require.NoError(t, logger.Sync())

	entry := lastEntry(t, &buf)

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "circuit ocr is open", entry["msg"])
}

func TestZapLogger_LevelCeiling(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(log.WarnLevel, &buf)

	logger.Info("suppressed")
	logger.Debug("suppressed")
	assert.Zero(t, buf.Len())

	logger.Warn("emitted")
	assert.NotZero(t, buf.Len())
}

func TestZapLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(log.ErrorLevel, &buf)

	logger.Info("suppressed")
	require.Zero(t, buf.Len())

	logger.SetLevel(log.DebugLevel)
	logger.Debug("now visible")
	assert.NotZero(t, buf.Len())
}

func TestZapLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(log.InfoLevel, &buf)
	logger.WithFields("service", "translation", "attempt", 3).Warn("retrying")

	entry := lastEntry(t, &buf)

	assert.Equal(t, "translation", entry["service"])
	assert.InDelta(t, 3, entry["attempt"], 0.01)
}

func TestZapLogger_WithDefaultMessageTemplate(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(log.InfoLevel, &buf)
	logger.WithDefaultMessageTemplate("batch").Info("job finished")

	entry := lastEntry(t, &buf)

	assert.Equal(t, "batch", entry["logger"])
}

func TestZapLogger_NilReceiverIsSafe(t *testing.T) {
	var logger *ZapLogger

	assert.NotPanics(t, func() {
		logger.Info("dropped")
		logger.Errorf("%s", "dropped")
		logger.SetLevel(log.DebugLevel)
		_ = logger.Sync()
	})
}
