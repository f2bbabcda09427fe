// internal/plugin/plugin.go
package plugin

import (
	"github.com/bethropolis/gotoflash/internal/event"
)

// API is what the host hands a plugin during Initialize.
type API interface {
	// SubscribeEvent registers a handler on the host's event bus.
	SubscribeEvent(eventType event.Type, handler event.Handler)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded; plugins subscribe
	// to the host's events here.
	Initialize(api API) error

	// Shutdown is called once when the host is closing.
	Shutdown() error
}

// EventAPI adapts an event.Manager to API.
type EventAPI struct {
	Events *event.Manager
}

func (a EventAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	a.Events.Subscribe(eventType, handler)
}
