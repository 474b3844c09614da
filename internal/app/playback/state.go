// Package playback provides the remote-control state machine that drives
// an indicator and a playback actuator.
package playback

// State represents the active mode of the device.
type State int

const (
	StateInactive State = iota // Powered off, indicator disabled
	StateOn                    // Powered on, indicator enabled
	StatePlaying               // Playback running
	StatePaused                // Playback paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateOn:
		return "on"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// States returns all states in declaration order.
func States() []State {
	return []State{StateInactive, StateOn, StatePlaying, StatePaused}
}

// entry performs the side effects of becoming the active state.
func (s State) entry(a Actuator) error {
	switch s {
	case StateInactive:
		return a.DisableIndicator()
	case StateOn:
		return a.EnableIndicator()
	case StatePlaying:
		return a.StartPlayback()
	case StatePaused:
		return a.StopPlayback()
	}
	return nil
}

// exit runs when s stops being the active state. None of the current
// states release anything on exit.
func (s State) exit(_ Actuator) error {
	return nil
}

// handle decides the next state for ev. It must not actuate.
func (s State) handle(ev Event, _ Status) (State, bool) {
	switch s {
	case StateInactive:
		if ev == EventPowerToggle {
			return StateOn, true
		}
	case StateOn:
		switch ev {
		case EventPowerToggle:
			return StateInactive, true
		case EventPlayPauseToggle:
			return StatePlaying, true
		}
	case StatePlaying:
		if ev == EventPlayPauseToggle {
			return StatePaused, true
		}
	case StatePaused:
		switch ev {
		case EventPowerToggle:
			return StateInactive, true
		case EventPlayPauseToggle:
			return StatePlaying, true
		}
	}
	return s, false
}

// Transition is a single applied (or defined) state change.
type Transition struct {
	From  State
	Event Event
	To    State
}

// Transitions returns every defined transition, ordered by source state
// and then by event.
func Transitions() []Transition {
	var out []Transition
	for _, s := range States() {
		for _, ev := range Events() {
			if next, ok := s.handle(ev, Status{State: s}); ok {
				out = append(out, Transition{From: s, Event: ev, To: next})
			}
		}
	}
	return out
}
