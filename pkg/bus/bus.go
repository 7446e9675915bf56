// Package bus provides the lightweight publish/subscribe channel wiring
// loosely-coupled components: calendar sync, skip actions and config
// changes all publish here, and the scheduler replans in response,
// without any component holding a back-reference to another.
package bus

import "sync"

// Topic names an event class on the bus.
type Topic string

const (
	TopicEventsUpdated Topic = "events-updated"
	TopicSkipsChanged  Topic = "skips-changed"
	TopicConfigChanged Topic = "config-changed"
)

// Bus fans a published topic out to its subscribers. Handlers run on
// the publisher's goroutine and must not block; anything slow should
// hand off internally.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]func()
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic][]func())}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, handler func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], handler)
}

// Publish invokes every handler subscribed to the topic.
func (b *Bus) Publish(topic Topic) {
	b.mu.RLock()
	handlers := make([]func(), len(b.subs[topic]))
	copy(handlers, b.subs[topic])
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler()
	}
}
