package device

import (
	"github.com/rs/zerolog"
)

// LogConfig represents log device settings.
type LogConfig struct {
	Level string `mapstructure:"level" default:"info" validate:"oneof=debug info warn"`
}

// Log records every primitive as a structured log event.
type Log struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// NewLog creates a log device. name is attached to every event.
func NewLog(logger zerolog.Logger, name string, config LogConfig) *Log {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return &Log{
		logger: logger.With().Str("device", name).Logger(),
		level:  level,
	}
}

func (l *Log) EnableIndicator() error  { return l.emit("indicator", "on") }
func (l *Log) DisableIndicator() error { return l.emit("indicator", "off") }
func (l *Log) StartPlayback() error    { return l.emit("playback", "started") }
func (l *Log) StopPlayback() error     { return l.emit("playback", "paused") }

func (l *Log) emit(actuator, value string) error {
	l.logger.WithLevel(l.level).Str(actuator, value).Msgf("%s %s", actuator, value)
	return nil
}
