package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutputFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "chatty", "text")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestConfigureSwitchesFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "info", "text")

	Configure(logger, "debug", "JSON")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.WithField("items", 3).Debug("catalog loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "catalog loaded", entry["msg"])
	assert.EqualValues(t, 3, entry["items"])
}

func TestLogErrorFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "info", "json")
	LogError(logger, "shopping", "drop", "delete expired session", "abc", assert.AnError)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "shopping", entry["module"])
	assert.Equal(t, "drop", entry["funcName"])
	assert.Equal(t, "abc", entry["data"])
	assert.Equal(t, "error", entry["level"])
}
