package playback

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Actuator is the set of device primitives a state may invoke from its
// entry and exit hooks.
type Actuator interface {
	EnableIndicator() error
	DisableIndicator() error
	StartPlayback() error
	StopPlayback() error
}

// Errors
var (
	ErrUnknownEvent      = errors.New("unknown event")
	ErrTornDown          = errors.New("controller torn down")
	ErrReentrantDispatch = errors.New("dispatch called during a transition")
	ErrOutsideHook       = errors.New("actuator primitive invoked outside a lifecycle hook")
	ErrActuatorFailed    = errors.New("actuator failed")
)

// Phase identifies a lifecycle hook.
type Phase int

const (
	PhaseEntry Phase = iota
	PhaseExit
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseEntry:
		return "entry"
	case PhaseExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Lifecycle records one hook invocation.
type Lifecycle struct {
	Phase Phase
	State State
}

// HookError reports an actuator failure inside a lifecycle hook.
type HookError struct {
	Phase Phase
	State State
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook of %s state: %v", e.Phase, e.State, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

func newHookError(phase Phase, s State, err error) *HookError {
	return &HookError{Phase: phase, State: s, Err: errors.Mark(err, ErrActuatorFailed)}
}
