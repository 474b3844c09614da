package device

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ShellConfig represents shell device settings. Empty commands are no-ops.
type ShellConfig struct {
	EnableIndicator  string `mapstructure:"enable_indicator"`
	DisableIndicator string `mapstructure:"disable_indicator"`
	StartPlayback    string `mapstructure:"start_playback"`
	StopPlayback     string `mapstructure:"stop_playback"`
	TimeoutMs        int    `mapstructure:"timeout_ms" default:"5000" validate:"gte=1,lte=60000"`
}

// Shell runs a shell command per primitive. A non-zero exit status is
// reported as an actuator failure.
type Shell struct {
	config ShellConfig
	out    io.Writer
}

// NewShell creates a shell device. Command output is copied to out.
func NewShell(config ShellConfig, out io.Writer) *Shell {
	if out == nil {
		out = io.Discard
	}
	return &Shell{config: config, out: out}
}

func (s *Shell) EnableIndicator() error  { return s.run("enable_indicator", s.config.EnableIndicator) }
func (s *Shell) DisableIndicator() error { return s.run("disable_indicator", s.config.DisableIndicator) }
func (s *Shell) StartPlayback() error    { return s.run("start_playback", s.config.StartPlayback) }
func (s *Shell) StopPlayback() error     { return s.run("stop_playback", s.config.StopPlayback) }

func (s *Shell) run(primitive, command string) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.config.TimeoutMs)*time.Millisecond)
	defer cancel()

	zlog.Debug().Msgf("executing %s command: %s", primitive, command)
	var stderr bytes.Buffer
	// Use sh -c to allow shell features like redirection or pipes
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = s.out
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "%s command timed out: %s", primitive, command)
		}
		return errors.Wrapf(err, "%s command failed: %s: %s", primitive, command, strings.TrimSpace(stderr.String()))
	}
	return nil
}
