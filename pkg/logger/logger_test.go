package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", "json", &buf)

	log.WithField("symbol", "SPY").Info("screening started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "screening started", entry["message"])
	assert.Equal(t, "SPY", entry["symbol"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", "json", &buf)

	log.Debug("dropped")
	log.Info("dropped too")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf)

	log.WithError(errors.New("chain fetch failed")).Error("symbol skipped")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "chain fetch failed", entry["error"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf)

	log.WithFields(map[string]interface{}{
		"spreads": 12,
		"symbol":  "QQQ",
	}).Info("done")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(12), entry["spreads"])
	assert.Equal(t, "QQQ", entry["symbol"])
}
