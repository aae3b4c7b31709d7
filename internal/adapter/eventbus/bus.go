// Package eventbus dispatches launcher events to in-process subscribers.
package eventbus

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

// Bus implements domain.EventBus. Post delivers synchronously, in
// registration order, to the subscribers registered when Post was called.
type Bus struct {
	log zerolog.Logger

	mu   sync.RWMutex
	subs []domain.Subscriber
}

// New creates an empty bus.
func New(log zerolog.Logger) *Bus {
	return &Bus{log: log}
}

// Register adds s. Registering the same subscriber twice is a no-op.
func (b *Bus) Register(s domain.Subscriber) {
	b.mu.Lock()
	for _, existing := range b.subs {
		if existing == s {
			b.mu.Unlock()
			return
		}
	}
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	b.log.Debug().Str("subscriber", fmt.Sprintf("%T", s)).Int("subscribers", b.Len()).Msg("subscriber registered")
}

// Unregister removes s.
func (b *Bus) Unregister(s domain.Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.subs {
		if existing == s {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Post delivers e. A panicking subscriber is logged and skipped.
func (b *Bus) Post(e domain.Event) {
	b.mu.RLock()
	subs := append([]domain.Subscriber(nil), b.subs...)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s, e)
	}
}

func (b *Bus) deliver(s domain.Subscriber, e domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Str("event", e.EventName()).Msg("subscriber failed")
		}
	}()
	s.OnEvent(e)
}

// Len returns the number of registered subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
