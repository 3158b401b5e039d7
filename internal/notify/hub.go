// Package notify carries "coupons changed" signals from PostgreSQL to any
// number of in-process subscribers. The signal has no payload: consumers
// re-fetch a full snapshot, never a diff, and missed signals during a
// reconnect gap are not replayed.
package notify

import "sync"

// Subscription is a handle to a stream of change signals.
type Subscription struct {
	// C receives one value per change signal. The channel has capacity 1
	// and bursts coalesce, so a slow consumer sees at most one pending
	// signal and never blocks the hub.
	C chan struct{}

	hub  *Hub
	once sync.Once
}

// Unsubscribe detaches the subscription and closes C.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.C)
	})
}

// Hub fans a change signal out to all active subscriptions.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscription.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{C: make(chan struct{}, 1), hub: h}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Broadcast delivers a change signal to every subscription without blocking.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.C <- struct{}{}:
		default: // signal already pending, coalesce
		}
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}
