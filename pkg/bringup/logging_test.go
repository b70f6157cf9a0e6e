package bringup

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "text")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "DEBUG", "JSON")
	require.NoError(t, err)

	logger.Debug("detail", "n", 3)

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "detail", m["msg"])
	assert.Equal(t, float64(3), m["n"])
}

func TestNewLoggerErrors(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "loud", "text")
	assert.ErrorContains(t, err, "invalid log level")

	_, err = NewLogger(&bytes.Buffer{}, "info", "xml")
	assert.ErrorContains(t, err, "invalid log format")
}
