package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputCarriesFields(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	InitWriter(&buf, "json", "info")

	Info("sign in succeeded", map[string]any{"email": "a@b.co"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "sign in succeeded", line["msg"])
	assert.Equal(t, "a@b.co", line["email"])
}

func TestLevelFiltersDebug(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	InitWriter(&buf, "text", "warn")

	Debug("hidden", nil)
	Info("hidden too", nil)
	assert.Empty(t, buf.String())

	Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}
