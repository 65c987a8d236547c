// Package notifier broadcasts dataset reload events to subscribed listeners.
package notifier

import (
	"sync"
	"time"
)

// Event reports that the datasets were reloaded.
type Event struct {
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Notifier fans events out to every subscriber.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Len returns the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends an event to all listeners.
// A listener whose buffer is full keeps its pending event and skips this one.
func (n *Notifier) Broadcast(reason string) {
	ev := Event{Reason: reason, At: time.Now()}

	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}
