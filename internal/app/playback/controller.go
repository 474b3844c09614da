package playback

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Status is the actuator-visible view of the controller.
type Status struct {
	State          State
	IndicatorOn    bool
	PlaybackActive bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithTransitionHandler registers fn to be called after every applied
// transition, once the new state's entry hook has returned.
func WithTransitionHandler(fn func(Transition)) Option {
	return func(c *Controller) {
		c.onTransition = append(c.onTransition, fn)
	}
}

// WithIgnoredHandler registers fn to be called for events the current
// state does not handle.
func WithIgnoredHandler(fn func(State, Event)) Option {
	return func(c *Controller) {
		c.onIgnored = append(c.onIgnored, fn)
	}
}

// WithLifecycleHandler registers fn to be called before every entry and
// exit hook.
func WithLifecycleHandler(fn func(Lifecycle)) Option {
	return func(c *Controller) {
		c.onLifecycle = append(c.onLifecycle, fn)
	}
}

// WithFailureHandler registers fn to be called when a hook fails.
func WithFailureHandler(fn func(*HookError)) Option {
	return func(c *Controller) {
		c.onFailure = append(c.onFailure, fn)
	}
}

// Controller owns the active state and exposes the actuator primitives to
// it. A Controller is not safe for concurrent use; see Serialized.
type Controller struct {
	sink   Actuator
	state  State
	status Status

	inHook      bool
	dispatching bool
	tornDown    bool

	onTransition []func(Transition)
	onIgnored    []func(State, Event)
	onLifecycle  []func(Lifecycle)
	onFailure    []func(*HookError)
}

// New creates a controller with the indicator off and enters the inactive
// state. It fails only if the sink fails while entering.
func New(sink Actuator, opts ...Option) (*Controller, error) {
	if sink == nil {
		return nil, errors.New("actuator sink is required")
	}
	c := &Controller{
		sink:  sink,
		state: StateInactive,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.dispatching = true
	defer func() { c.dispatching = false }()

	if err := c.runHook(PhaseEntry, c.state); err != nil {
		return nil, errors.Wrap(err, "failed to enter initial state")
	}
	zlog.Debug().Msgf("controller started: state=%s", c.state)
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Status returns the current state together with the actuator flags.
func (c *Controller) Status() Status {
	s := c.status
	s.State = c.state
	return s
}

// Dispatch forwards ev to the current state and applies the resulting
// transition, if any. Events the state does not handle are no-ops.
func (c *Controller) Dispatch(ev Event) error {
	if c.tornDown {
		return ErrTornDown
	}
	if c.dispatching {
		return ErrReentrantDispatch
	}
	if !ev.Valid() {
		return errors.Wrapf(ErrUnknownEvent, "event %d", int(ev))
	}

	c.dispatching = true
	defer func() { c.dispatching = false }()

	from := c.state
	to, ok := from.handle(ev, c.Status())
	if !ok {
		zlog.Debug().Msgf("event ignored: state=%s event=%s", from, ev)
		for _, fn := range c.onIgnored {
			fn(from, ev)
		}
		return nil
	}

	if err := c.runHook(PhaseExit, from); err != nil {
		// Old state is still current and settled.
		return err
	}

	c.state = to

	if err := c.runHook(PhaseEntry, to); err != nil {
		// The new state stays current; flags reflect the primitives that ran.
		return err
	}

	t := Transition{From: from, Event: ev, To: to}
	zlog.Debug().Msgf("transition: %s --%s--> %s", from, ev, to)
	for _, fn := range c.onTransition {
		fn(t)
	}
	return nil
}

// Teardown releases the current state without running its exit hook.
// Dispatch fails with ErrTornDown afterwards.
func (c *Controller) Teardown() {
	if c.tornDown {
		return
	}
	c.tornDown = true
	zlog.Debug().Msgf("controller torn down: state=%s", c.state)
}

// TornDown reports whether Teardown has been called.
func (c *Controller) TornDown() bool {
	return c.tornDown
}

func (c *Controller) runHook(phase Phase, s State) error {
	for _, fn := range c.onLifecycle {
		fn(Lifecycle{Phase: phase, State: s})
	}

	c.inHook = true
	var err error
	if phase == PhaseEntry {
		err = s.entry(c)
	} else {
		err = s.exit(c)
	}
	c.inHook = false

	if err == nil {
		return nil
	}
	herr := newHookError(phase, s, err)
	zlog.Error().Err(err).Msgf("%s hook failed: state=%s", phase, s)
	for _, fn := range c.onFailure {
		fn(herr)
	}
	return herr
}

// EnableIndicator turns the indicator on.
func (c *Controller) EnableIndicator() error {
	return c.actuate("enable_indicator", c.sink.EnableIndicator, func() { c.status.IndicatorOn = true })
}

// DisableIndicator turns the indicator off.
func (c *Controller) DisableIndicator() error {
	return c.actuate("disable_indicator", c.sink.DisableIndicator, func() { c.status.IndicatorOn = false })
}

// StartPlayback starts or resumes playback.
func (c *Controller) StartPlayback() error {
	return c.actuate("start_playback", c.sink.StartPlayback, func() { c.status.PlaybackActive = true })
}

// StopPlayback pauses playback.
func (c *Controller) StopPlayback() error {
	return c.actuate("stop_playback", c.sink.StopPlayback, func() { c.status.PlaybackActive = false })
}

// actuate calls the sink primitive and records the flag change only when
// the sink succeeded.
func (c *Controller) actuate(name string, primitive func() error, apply func()) error {
	if !c.inHook {
		return errors.Wrapf(ErrOutsideHook, "%s", name)
	}
	if err := primitive(); err != nil {
		return errors.Wrapf(err, "%s", name)
	}
	apply()
	return nil
}
