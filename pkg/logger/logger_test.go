package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	return line
}

func TestLogger_ErrorWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, zerolog.DebugLevel)

	l.Error(errors.New("boom"), "Ingest - width=%d", 50)

	line := decodeLine(t, &buf)
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "Ingest - width=50", line["message"])
}

func TestLogger_InfoFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, zerolog.DebugLevel)

	l.Info("deleted %d events", 3)

	line := decodeLine(t, &buf)
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "deleted 3 events", line["message"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, parseLevel("warn"))

	l.Info("hidden")
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestLogger_ErrorWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, zerolog.DebugLevel)

	l.Error(errors.New("boom"))

	line := decodeLine(t, &buf)
	assert.Equal(t, "boom", line["error"])
	assert.NotContains(t, line, "message")
}

func TestLogger_PercentInPlainMessage(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, zerolog.DebugLevel)

	l.Warn("100% done")

	assert.Equal(t, "100% done", decodeLine(t, &buf)["message"])
}

func TestLogger_UnknownMessageType(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, zerolog.DebugLevel)

	l.Debug(42)

	assert.Equal(t, "message 42 has unknown type int", decodeLine(t, &buf)["message"])
}
