package device

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playerbox/internal/app/playback"
	"github.com/osa030/playerbox/internal/infra/config"
)

// NewChainFromConfig creates a device chain from configuration. Console
// and shell devices write to out.
func NewChainFromConfig(cfg *config.Config, out io.Writer) (*Chain, error) {
	if len(cfg.Devices) == 0 {
		return nil, errors.New("no devices configured")
	}

	chain := NewChain()
	for i, dcfg := range cfg.Devices {
		zlog.Debug().Msgf("creating device: index=%d type=%s settings=%+v", i+1, dcfg.Type, dcfg.Settings)

		d, err := newDevice(dcfg, out)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create device (index %d, type %s)", i, dcfg.Type)
		}
		chain.Add(dcfg.Name, d)

		zlog.Info().Msgf("registered device: index=%d type=%s name=%s", i+1, dcfg.Type, dcfg.Name)
	}

	return chain, nil
}

func newDevice(dcfg config.DeviceConfig, out io.Writer) (playback.Actuator, error) {
	switch dcfg.Type {
	case "console":
		var c ConsoleConfig
		if err := decodeSettings(dcfg.Settings, &c); err != nil {
			return nil, err
		}
		return NewConsole(out, c), nil

	case "log":
		var c LogConfig
		if err := decodeSettings(dcfg.Settings, &c); err != nil {
			return nil, err
		}
		return NewLog(zlog.Logger, dcfg.Name, c), nil

	case "shell":
		var c ShellConfig
		if err := decodeSettings(dcfg.Settings, &c); err != nil {
			return nil, err
		}
		return NewShell(c, out), nil

	default:
		return nil, errors.Newf("unsupported device type: %s", dcfg.Type)
	}
}

// decodeSettings decodes a settings map into target, applies defaults and
// validates the result.
func decodeSettings(settings map[string]any, target any) error {
	if err := mapstructure.Decode(settings, target); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(target); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(target); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}
