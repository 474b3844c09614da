package device

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/playerbox/internal/app/playback"
	"github.com/osa030/playerbox/internal/infra/config"
)

type stubDevice struct {
	name  string
	calls *[]string
	err   error
}

func (s *stubDevice) record(p string) error {
	*s.calls = append(*s.calls, s.name+"."+p)
	return s.err
}

func (s *stubDevice) EnableIndicator() error  { return s.record("enable_indicator") }
func (s *stubDevice) DisableIndicator() error { return s.record("disable_indicator") }
func (s *stubDevice) StartPlayback() error    { return s.record("start_playback") }
func (s *stubDevice) StopPlayback() error     { return s.record("stop_playback") }

func TestChain_Order(t *testing.T) {
	var calls []string
	chain := NewChain()
	chain.Add("a", &stubDevice{name: "a", calls: &calls})
	chain.Add("b", &stubDevice{name: "b", calls: &calls})

	require.NoError(t, chain.EnableIndicator())
	require.NoError(t, chain.StartPlayback())

	assert.Equal(t, []string{
		"a.enable_indicator", "b.enable_indicator",
		"a.start_playback", "b.start_playback",
	}, calls)
	assert.Len(t, chain.Devices(), 2)
}

func TestChain_StopsAtFirstError(t *testing.T) {
	var calls []string
	boom := errors.New("relay stuck")
	chain := NewChain()
	chain.Add("a", &stubDevice{name: "a", calls: &calls, err: boom})
	chain.Add("b", &stubDevice{name: "b", calls: &calls})

	err := chain.DisableIndicator()
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "device a")
	assert.Equal(t, []string{"a.disable_indicator"}, calls)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	var cfg ConsoleConfig
	require.NoError(t, decodeSettings(nil, &cfg))
	c := NewConsole(&buf, cfg)

	require.NoError(t, c.EnableIndicator())
	require.NoError(t, c.StartPlayback())
	require.NoError(t, c.StopPlayback())
	require.NoError(t, c.DisableIndicator())

	assert.Equal(t, "🌕 LED on\n🔊 Music playing\n🔇 Music paused\n🌑 LED off\n", buf.String())
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(zerolog.New(&buf), "panel", LogConfig{Level: "info"})

	require.NoError(t, l.StartPlayback())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "panel", entry["device"])
	assert.Equal(t, "started", entry["playback"])
	assert.Equal(t, "info", entry["level"])
}

func TestShell(t *testing.T) {
	t.Run("runs configured command", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewShell(ShellConfig{EnableIndicator: "echo led-on", TimeoutMs: 5000}, &buf)

		require.NoError(t, s.EnableIndicator())
		assert.Equal(t, "led-on\n", buf.String())
	})

	t.Run("empty command is a no-op", func(t *testing.T) {
		s := NewShell(ShellConfig{TimeoutMs: 5000}, nil)
		assert.NoError(t, s.StopPlayback())
	})

	t.Run("failing command is an error", func(t *testing.T) {
		s := NewShell(ShellConfig{StartPlayback: "echo no amp >&2; exit 3", TimeoutMs: 5000}, nil)

		err := s.StartPlayback()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start_playback command failed")
		assert.Contains(t, err.Error(), "no amp")
	})

	t.Run("timeout", func(t *testing.T) {
		s := NewShell(ShellConfig{DisableIndicator: "exec sleep 5", TimeoutMs: 50}, nil)

		err := s.DisableIndicator()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
	})
}

func TestNewChainFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{
		Devices: []config.DeviceConfig{
			{Type: "console", Name: "console", Settings: map[string]any{"indicator_on": "LED!"}},
			{Type: "log", Name: "log"},
			{Type: "shell", Name: "gpio", Settings: map[string]any{"enable_indicator": "echo gpio-high"}},
		},
	}

	chain, err := NewChainFromConfig(cfg, &buf)
	require.NoError(t, err)
	require.Len(t, chain.Devices(), 3)
	assert.Equal(t, "gpio", chain.Devices()[2].Name)

	require.NoError(t, chain.EnableIndicator())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"LED!", "gpio-high"}, lines)

	// The chain drives a controller like any other actuator.
	var _ playback.Actuator = chain
}

func TestNewChainFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		devices []config.DeviceConfig
		errMsg  string
	}{
		{
			name:   "no devices",
			errMsg: "no devices configured",
		},
		{
			name:    "unsupported type",
			devices: []config.DeviceConfig{{Type: "gpio"}},
			errMsg:  "unsupported device type",
		},
		{
			name:    "bad settings type",
			devices: []config.DeviceConfig{{Type: "shell", Settings: map[string]any{"timeout_ms": "soon"}}},
			errMsg:  "failed to decode settings",
		},
		{
			name:    "invalid settings",
			devices: []config.DeviceConfig{{Type: "log", Settings: map[string]any{"level": "trace"}}},
			errMsg:  "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChainFromConfig(&config.Config{Devices: tt.devices}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
