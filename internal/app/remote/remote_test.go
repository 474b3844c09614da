package remote

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/playerbox/internal/app/playback"
)

type sink struct{ startErr error }

func (sink) EnableIndicator() error  { return nil }
func (sink) DisableIndicator() error { return nil }
func (s sink) StartPlayback() error  { return s.startErr }
func (sink) StopPlayback() error     { return nil }

func defaultConfig() Config {
	return Config{Keymap: map[string]playback.Event{
		"1": playback.EventPowerToggle,
		"2": playback.EventPlayPauseToggle,
	}}
}

func newController(t *testing.T, s sink) *playback.Controller {
	t.Helper()
	c, err := playback.New(s)
	require.NoError(t, err)
	return c
}

func TestRemote_Resolve(t *testing.T) {
	r := New(newController(t, sink{}), defaultConfig(), io.Discard)

	tests := []struct {
		input   string
		want    playback.Event
		wantErr bool
	}{
		{input: "1", want: playback.EventPowerToggle},
		{input: " 2 ", want: playback.EventPlayPauseToggle},
		{input: "power", want: playback.EventPowerToggle},
		{input: "3", wantErr: true},
		{input: "volume", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, playback.ErrUnknownEvent))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemote_Run(t *testing.T) {
	c := newController(t, sink{})
	var out bytes.Buffer
	r := New(c, defaultConfig(), &out)

	err := r.Run(context.Background(), strings.NewReader("1\n2\n9\n\n2\n"))
	require.NoError(t, err)

	assert.Equal(t, playback.StatePaused, c.State())
	text := out.String()
	assert.Contains(t, text, "1. On / Off\n2. Play / Pause\n")
	assert.Contains(t, text, "Player is in 'on' state")
	assert.Contains(t, text, "Player is in 'playing' state")
	assert.Contains(t, text, "Invalid choice.")
	assert.Contains(t, text, "Player is in 'paused' state")
}

func TestRemote_Run_Quit(t *testing.T) {
	c := newController(t, sink{})
	r := New(c, Config{Keymap: defaultConfig().Keymap, HideMenu: true}, io.Discard)

	require.NoError(t, r.Run(context.Background(), strings.NewReader("1\nq\n1\n")))
	assert.Equal(t, playback.StateOn, c.State())
}

func TestRemote_Run_DeviceError(t *testing.T) {
	c := newController(t, sink{startErr: errors.New("no amp")})
	var out bytes.Buffer
	r := New(c, defaultConfig(), &out)

	require.NoError(t, r.Run(context.Background(), strings.NewReader("1\n2\n2\n")))

	assert.Contains(t, out.String(), "Device error:")
	assert.Contains(t, out.String(), "no amp")
	assert.Equal(t, playback.StatePaused, c.State())
}

func TestRemote_Run_ContextCancel(t *testing.T) {
	c := newController(t, sink{})
	r := New(c, defaultConfig(), io.Discard)

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, pr) }()

	_, err := pw.Write([]byte("1\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("remote did not stop after cancel")
	}
}
