package playback

import "sync"

// Serialized guards a Controller with a mutex so that events from several
// producers are dispatched one at a time. Handlers registered on the
// wrapped controller run with the lock held and must not call back into
// the Serialized value.
type Serialized struct {
	mu sync.Mutex
	c  *Controller
}

// NewSerialized wraps c.
func NewSerialized(c *Controller) *Serialized {
	return &Serialized{c: c}
}

// Dispatch dispatches ev while holding the lock.
func (s *Serialized) Dispatch(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Dispatch(ev)
}

// Status returns the controller status.
func (s *Serialized) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Status()
}

// Teardown tears the controller down.
func (s *Serialized) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Teardown()
}
