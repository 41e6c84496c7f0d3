package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("transfer_id", "t1").Info("transfer started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "transfer started", line["msg"])
	assert.Equal(t, "t1", line["transfer_id"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", "text", nil)
	assert.Error(t, err)

	_, err = New("info", "xml", nil)
	assert.Error(t, err)
}
