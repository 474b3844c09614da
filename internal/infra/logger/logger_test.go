package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Output: "/var/log/playerbox.log", Level: "info"})

	log.Info().Str("state", "on").Msg("transition")
	log.Debug().Msg("suppressed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "on", entry["state"])
	assert.Equal(t, "transition", entry["message"])
	assert.NotContains(t, buf.String(), "suppressed")
}

func TestShortCaller(t *testing.T) {
	path := filepath.Join("home", "user", "playerbox", "playback", "controller.go")
	assert.Equal(t, filepath.Join("playback", "controller.go")+":42", shortCaller(0, path, 42))
	assert.Equal(t, "main.go:7", shortCaller(0, "main.go", 7))
}

func TestInit_File(t *testing.T) {
	prev := zlog.Logger
	t.Cleanup(func() {
		zlog.Logger = prev
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "playerbox.log")
	closer, err := Init(Config{Output: path, Level: "warn"})
	require.NoError(t, err)

	zlog.Warn().Msg("indicator driver slow")
	zlog.Info().Msg("not written")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "indicator driver slow")
	assert.NotContains(t, string(data), "not written")
}

func TestInit_BadFile(t *testing.T) {
	_, err := Init(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
