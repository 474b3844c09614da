// Package notification provides the notification manager for broadcasting
// state changes.
package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playerbox/internal/app/playback"
)

// Notification describes one applied transition.
type Notification struct {
	SequenceNo uint64
	Transition playback.Transition
	Status     playback.Status
	Time       time.Time
}

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(Notification) error
}

// StreamFunc adapts a function to a Stream.
type StreamFunc func(Notification) error

// Send calls f(n).
func (f StreamFunc) Send(n Notification) error {
	return f(n)
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id     string
	stream Stream
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	order         []string
	sequenceNo    uint64
	sequenceNoMu  sync.Mutex
	now           func() time.Time
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
		now:           time.Now,
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = &subscription{
		id:     id,
		stream: stream,
	}
	m.order = append(m.order, id)
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
	for i, id := range m.order {
		if id == subscriptionID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// nextSequenceNo returns the next sequence number.
func (m *Manager) nextSequenceNo() uint64 {
	m.sequenceNoMu.Lock()
	defer m.sequenceNoMu.Unlock()
	m.sequenceNo++
	return m.sequenceNo
}

// Broadcast stamps n with the next sequence number and sends it to every
// subscriber in subscription order. A failing subscriber is logged and
// does not stop delivery to the others.
func (m *Manager) Broadcast(n Notification) Notification {
	n.SequenceNo = m.nextSequenceNo()
	if n.Time.IsZero() {
		n.Time = m.now()
	}

	m.mu.RLock()
	// Copy subscriptions to avoid holding lock during sends
	subs := make([]*subscription, 0, len(m.order))
	for _, id := range m.order {
		subs = append(subs, m.subscriptions[id])
	}
	m.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.stream.Send(n); err != nil {
			zlog.Warn().Err(err).Msgf("failed to deliver notification: subscription=%s seq=%d", sub.id, n.SequenceNo)
		}
	}
	return n
}

// TransitionHandler returns a controller option that broadcasts every
// applied transition together with the status reported by status.
func (m *Manager) TransitionHandler(status func() playback.Status) playback.Option {
	return playback.WithTransitionHandler(func(t playback.Transition) {
		m.Broadcast(Notification{Transition: t, Status: status()})
	})
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close closes the manager and removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
	m.order = nil
}
