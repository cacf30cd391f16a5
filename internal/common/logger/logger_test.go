package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestZapWrapper_RedactsSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.Info("video ready", map[string]interface{}{
		"locator": "https://example.com/v.mp4?key=secret",
		"apiKey":  "secret",
		"stage":   "video",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, redacted, fields["locator"])
	assert.Equal(t, redacted, fields["apiKey"])
	assert.Equal(t, "video", fields["stage"])
}

func TestZapWrapper_WithKeepsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"component": "synthesis"})

	log.Warn("tool call", map[string]interface{}{"tool": "get_location_conditions"})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "synthesis", fields["component"])
	assert.Equal(t, "get_location_conditions", fields["tool"])
}

func TestIsRedacted(t *testing.T) {
	assert.True(t, IsRedacted("API_KEY"))
	assert.True(t, IsRedacted("resultLocator"))
	assert.False(t, IsRedacted("mediaType"))
}
