package playback

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Event represents an external stimulus delivered to the controller.
type Event int

const (
	EventPowerToggle     Event = iota // On/off button pressed
	EventPlayPauseToggle              // Play/pause button pressed
)

// String returns the string representation of the event.
func (e Event) String() string {
	switch e {
	case EventPowerToggle:
		return "power_toggle"
	case EventPlayPauseToggle:
		return "play_pause_toggle"
	default:
		return "unknown"
	}
}

// Valid reports whether e is one of the defined events.
func (e Event) Valid() bool {
	switch e {
	case EventPowerToggle, EventPlayPauseToggle:
		return true
	default:
		return false
	}
}

// Events returns all defined events in declaration order.
func Events() []Event {
	return []Event{EventPowerToggle, EventPlayPauseToggle}
}

// ParseEvent parses an event name. Both the canonical name ("power_toggle")
// and the short button name ("power", "playpause") are accepted.
func ParseEvent(s string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "power_toggle", "power", "onoff", "on_off":
		return EventPowerToggle, nil
	case "play_pause_toggle", "playpause", "play_pause", "play":
		return EventPlayPauseToggle, nil
	default:
		return 0, errors.Wrapf(ErrUnknownEvent, "parse %q", s)
	}
}
