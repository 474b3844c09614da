// Package device provides the actuator sinks driven by the playback
// controller.
package device

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/playerbox/internal/app/playback"
)

// Named is a device together with its configured name.
type Named struct {
	Name   string
	Device playback.Actuator
}

// Chain forwards every primitive to its devices in sequence.
// Returns immediately if any device fails.
type Chain struct {
	devices []Named
}

// NewChain creates a new device chain.
func NewChain() *Chain {
	return &Chain{
		devices: make([]Named, 0),
	}
}

// Add adds a device to the chain.
func (c *Chain) Add(name string, d playback.Actuator) {
	c.devices = append(c.devices, Named{Name: name, Device: d})
}

// Devices returns all devices in the chain.
func (c *Chain) Devices() []Named {
	return c.devices
}

// EnableIndicator turns the indicator on.
func (c *Chain) EnableIndicator() error {
	return c.each(playback.Actuator.EnableIndicator)
}

// DisableIndicator turns the indicator off.
func (c *Chain) DisableIndicator() error {
	return c.each(playback.Actuator.DisableIndicator)
}

// StartPlayback starts playback.
func (c *Chain) StartPlayback() error {
	return c.each(playback.Actuator.StartPlayback)
}

// StopPlayback pauses playback.
func (c *Chain) StopPlayback() error {
	return c.each(playback.Actuator.StopPlayback)
}

func (c *Chain) each(primitive func(playback.Actuator) error) error {
	for _, d := range c.devices {
		if err := primitive(d.Device); err != nil {
			return errors.Wrapf(err, "device %s", d.Name)
		}
	}
	return nil
}
