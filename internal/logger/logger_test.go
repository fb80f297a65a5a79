package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "debug", Format: "json"}, "baymax", &buf)

	l.WithComponent("router").Info("routed", Fields("intent", "weather", "ignored"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "routed", entry["message"])
	assert.Equal(t, "router", entry[FieldComponent])
	assert.Equal(t, "weather", entry["intent"])
	assert.Equal(t, "baymax", entry["service"])
	assert.NotContains(t, entry, "ignored")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "warn", Format: "json"}, "baymax", &buf)

	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.WithError(errors.New("boom")).Error("shown")
	assert.Contains(t, buf.String(), "boom")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "loud", Format: "json"}, "baymax", &buf)

	l.Debug("hidden")
	l.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Config{}, ""},
		{"bad level", Config{Level: "loud"}, "logging.level"},
		{"bad format", Config{Format: "xml"}, "logging.format"},
		{"bad output", Config{Output: "file"}, "logging.output"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithComponent("x").WithFields(Fields("a", 1)).Error("nothing")
	})
}
