package device

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// ConsoleConfig represents console device settings.
type ConsoleConfig struct {
	IndicatorOn  string `mapstructure:"indicator_on" default:"🌕 LED on"`
	IndicatorOff string `mapstructure:"indicator_off" default:"🌑 LED off"`
	Playing      string `mapstructure:"playing" default:"🔊 Music playing"`
	Paused       string `mapstructure:"paused" default:"🔇 Music paused"`
}

// Console prints one line per primitive.
type Console struct {
	out    io.Writer
	config ConsoleConfig
}

// NewConsole creates a console device writing to out.
func NewConsole(out io.Writer, config ConsoleConfig) *Console {
	return &Console{out: out, config: config}
}

func (c *Console) EnableIndicator() error  { return c.println(c.config.IndicatorOn) }
func (c *Console) DisableIndicator() error { return c.println(c.config.IndicatorOff) }
func (c *Console) StartPlayback() error    { return c.println(c.config.Playing) }
func (c *Console) StopPlayback() error     { return c.println(c.config.Paused) }

func (c *Console) println(line string) error {
	if _, err := fmt.Fprintln(c.out, line); err != nil {
		return errors.Wrap(err, "failed to write to console")
	}
	return nil
}
