// Package transport defines the boundary between the SDK and the native
// host. A Transport carries JSON method calls to the native side and fans
// native event payloads out to listeners.
package transport

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Transport is the native boundary.
//
// Request sends a method call and returns the raw result envelope, a JSON
// object with either a "success" or an "error" member. resultType is the
// declared result tag, forwarded for hosts that use it for their own
// encoding.
//
// AddEventListener registers cb for the named native event. Payloads are the
// raw JSON event body.
type Transport interface {
	Request(ctx context.Context, method, params, resultType string) (string, error)
	AddEventListener(event string, cb func(payload string)) Subscription
	RemoveAllEventListeners()
	Close() error
}

// Subscription is a registered listener.
type Subscription interface {
	Remove()
}

// Hub is a listener registry shared by transport implementations. The zero
// value is ready to use.
type Hub struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[string]map[uint64]func(string)
}

type hubSubscription struct {
	hub   *Hub
	event string
	id    uint64
	once  sync.Once
}

func (s *hubSubscription) Remove() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		if byID, ok := s.hub.listeners[s.event]; ok {
			delete(byID, s.id)
			if len(byID) == 0 {
				delete(s.hub.listeners, s.event)
			}
		}
	})
}

// Add registers cb for event.
func (h *Hub) Add(event string, cb func(payload string)) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners == nil {
		h.listeners = make(map[string]map[uint64]func(string))
	}
	h.nextID++
	if h.listeners[event] == nil {
		h.listeners[event] = make(map[uint64]func(string))
	}
	h.listeners[event][h.nextID] = cb
	return &hubSubscription{hub: h, event: event, id: h.nextID}
}

// RemoveAll drops every listener.
func (h *Hub) RemoveAll() {
	h.mu.Lock()
	h.listeners = nil
	h.mu.Unlock()
}

// Len returns the number of listeners registered for event.
func (h *Hub) Len(event string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[event])
}

// Emit delivers payload to every listener of event, in registration order.
// Listeners run on the caller's goroutine; a panicking listener is logged
// and does not stop delivery to the others.
func (h *Hub) Emit(event, payload string) {
	h.mu.RLock()
	byID := h.listeners[event]
	ids := make([]uint64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	cbs := make(map[uint64]func(string), len(byID))
	for id, cb := range byID {
		cbs[id] = cb
	}
	h.mu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		deliver(event, cbs[id], payload)
	}
}

func deliver(event string, cb func(string), payload string) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("event listener panicked", zap.String("event", event), zap.Any("panic", r))
		}
	}()
	cb(payload)
}
