package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(config.LogConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Int("shots", 5).Msg("game over")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "game over", line["message"])
	assert.Equal(t, float64(5), line["shots"])
	assert.Equal(t, "info", line["level"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(config.LogConfig{Level: "debug", Pretty: true}, &buf)
	require.NoError(t, err)
	log.Debug().Msg("placing fleet")
	assert.Contains(t, buf.String(), "placing fleet")
}

func TestNewWithWriter_BadLevel(t *testing.T) {
	_, err := NewWithWriter(config.LogConfig{Level: "shouty"}, &bytes.Buffer{})
	require.Error(t, err)
}
