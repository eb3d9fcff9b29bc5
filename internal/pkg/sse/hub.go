package sse

import (
	"sync"
	"time"
)

// Event is a single location update pushed to subscribed managers
type Event struct {
	EmployeeID string    `json:"employee_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt time.Time `json:"captured_at"`
}

// Subscription is one manager's live connection. Events for employees outside
// the authorized set are never enqueued. The queue is bounded; when full, the
// oldest queued event is dropped so a stalled consumer never blocks publishers.
type Subscription struct {
	ManagerID string

	employees map[string]struct{}
	ch        chan Event

	// delivery watermark per employee, touched only by the consuming goroutine
	lastDelivered map[string]time.Time
}

// Events returns the channel the connection handler consumes from.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Observes reports whether employeeID is in the subscription's authorized set.
func (s *Subscription) Observes(employeeID string) bool {
	_, ok := s.employees[employeeID]
	return ok
}

// ShouldDeliver reports whether ev may be forwarded on this connection and,
// if so, advances the per-employee watermark. Events older than the last
// delivered one for the same employee are suppressed so a reconnect or
// out-of-order publish never shows time moving backwards.
// Not safe for concurrent use; call only from the consuming goroutine.
func (s *Subscription) ShouldDeliver(ev Event) bool {
	if last, ok := s.lastDelivered[ev.EmployeeID]; ok && ev.CapturedAt.Before(last) {
		return false
	}
	s.lastDelivered[ev.EmployeeID] = ev.CapturedAt
	return true
}

// Hub fans location updates out to subscribed manager connections
type Hub struct {
	mu        sync.RWMutex
	subs      map[*Subscription]struct{}
	queueSize int
}

// NewHub creates a Hub whose per-connection queues hold queueSize events
func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Hub{
		subs:      make(map[*Subscription]struct{}),
		queueSize: queueSize,
	}
}

// Subscribe registers a manager connection authorized to observe the given
// employees and returns the subscription and a cleanup function. The
// authorized set is fixed for the lifetime of the connection; a reconnect
// picks up assignment changes.
func (h *Hub) Subscribe(managerID string, employeeIDs []string) (*Subscription, func()) {
	employees := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		employees[id] = struct{}{}
	}

	sub := &Subscription{
		ManagerID:     managerID,
		employees:     employees,
		ch:            make(chan Event, h.queueSize),
		lastDelivered: make(map[string]time.Time),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[sub]; !ok {
			return
		}
		delete(h.subs, sub)
		close(sub.ch)
	}

	return sub, cleanup
}

// Publish delivers ev to every subscription authorized to observe the
// employee. Never blocks: a full queue drops its oldest event to make room.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.Observes(ev.EmployeeID) {
			continue
		}
		offer(sub.ch, ev)
	}
}

// offer enqueues without blocking, evicting the oldest queued event on
// overflow. The drain and retry race against the consumer, so both are
// non-blocking; losing that race just means the queue made room on its own.
func offer(ch chan Event, ev Event) {
	select {
	case ch <- ev:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- ev:
	default:
	}
}

// SubscriberCount returns the number of live manager connections
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
