// Package progress fans out run progress, status, and log events to
// subscribers without ever blocking the producer.
package progress

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// Default buffer size for each subscriber's event channel
const SubscriberBuffer = 256

// Event is one progress/status/log update.
type Event struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// Broker fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full simply misses the event, and the drop is counted.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}

	published int64
	dropped   int64
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{subscribers: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber and returns its channel plus an
// unsubscribe function. The channel is closed on unsubscribe.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, SubscriberBuffer)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber that has room for it.
func (b *Broker) Publish(ev Event) {
	atomic.AddInt64(&b.published, 1)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			// subscriber queue full; drop to protect the producer
			atomic.AddInt64(&b.dropped, 1)
		}
	}
}

// Stats returns broker counters.
func (b *Broker) Stats() map[string]int64 {
	b.mu.RLock()
	subs := int64(len(b.subscribers))
	b.mu.RUnlock()
	return map[string]int64{
		"subscribers": subs,
		"published":   atomic.LoadInt64(&b.published),
		"dropped":     atomic.LoadInt64(&b.dropped),
	}
}

// Sink adapts a Broker to the pipeline's progress/status/log sink contract.
type Sink struct {
	Broker *Broker
}

// Progress publishes a fractional progress event.
func (s Sink) Progress(fraction float64) {
	s.Broker.Publish(Event{Type: "progress", Msg: strconv.FormatFloat(fraction, 'f', 4, 64)})
}

// Status publishes a human-readable status line.
func (s Sink) Status(text string) {
	s.Broker.Publish(Event{Type: "status", Msg: text})
}

// Log publishes a detailed log line.
func (s Sink) Log(line string) {
	s.Broker.Publish(Event{Type: "log", Msg: line})
}
