// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/gotoflash/internal/logger"
)

// Handler is an event subscriber. Returning true consumes the event and
// stops delivery to later handlers.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
	logger.DebugTagf("event", "Event Manager: Handler subscribed to %v", eventType)
}

// Dispatch sends an event to the handlers registered for its type, synchronously
// and in subscription order. It reports whether a handler consumed the event.
func (m *Manager) Dispatch(eventType Type, data interface{}) bool {
	e := Event{
		Type: eventType,
		Data: data,
	}

	m.mu.RLock()
	// Copy so handlers may subscribe during dispatch.
	handlers := make([]Handler, len(m.handlers[eventType]))
	copy(handlers, m.handlers[eventType])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return false
	}

	for _, handler := range handlers {
		if handler(e) {
			logger.DebugTagf("event", "Event Manager: %v consumed", eventType)
			return true
		}
	}
	return false
}
