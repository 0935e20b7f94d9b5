package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epaforecast/pkg/config"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log line: %s", buf.String())
	return entry
}

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&config.Config{Env: "staging", LogLevel: level, LogFormat: "json"}, buf)
}

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.want, jsonLogger(&buf, tt.level).Level())
		})
	}
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "warn")

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Equal(t, "kept", decodeLine(t, &buf)["message"])
}

func TestJSONOutputCarriesEnv(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "debug").Info("pipeline started")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "pipeline started", entry["message"])
	assert.Equal(t, "staging", entry["env"])
	assert.Contains(t, entry, "time")
}

func TestFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "debug")

	log.WithStage("S1_CLEAN").
		WithFields(map[string]interface{}{"rows_in": 12, "rows_out": 9}).
		WithField("input", "raw.csv").
		WithError(errors.New("boom")).
		Error("clean failed")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "S1_CLEAN", entry["stage"])
	assert.Equal(t, float64(12), entry["rows_in"])
	assert.Equal(t, float64(9), entry["rows_out"])
	assert.Equal(t, "raw.csv", entry["input"])
	assert.Equal(t, "boom", entry["error"])
}

func TestZerologSharesConfig(t *testing.T) {
	var buf bytes.Buffer
	zl := jsonLogger(&buf, "info").Zerolog()

	zl.Debug().Msg("dropped")
	assert.Empty(t, buf.String())

	zl.Info().Str("component", "forecast.trainer").Int("n_train", 4).Msg("fit")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "forecast.trainer", entry["component"])
	assert.Equal(t, "staging", entry["env"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "production", LogLevel: "info", LogFormat: "console"}, &buf)

	log.WithField("season", 2023).Info("fetched")
	out := buf.String()
	assert.Contains(t, out, "fetched")
	assert.Contains(t, out, "season=2023")
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("discarded")
	log.WithField("k", "v").Error("discarded")
}
