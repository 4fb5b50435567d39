package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLogger(t *testing.T) {
	var buffer bytes.Buffer
	log := NewWithWriter(&buffer, "scheduler", "info", "json")

	log.Debug().Msg("hidden")
	log.Info().Str("request", "42").Msg("schedule built")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "42", entry["request"])
	assert.Equal(t, "schedule built", entry["message"])
	assert.NotContains(t, buffer.String(), "hidden")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buffer bytes.Buffer
	log := NewWithWriter(&buffer, "cli", "verbose", "console")

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.NotContains(t, buffer.String(), "hidden")
	assert.Contains(t, buffer.String(), "shown")
	assert.Contains(t, buffer.String(), "component=")
}
