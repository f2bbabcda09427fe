package app

import (
	"fmt"

	"github.com/bethropolis/gotoflash/internal/logger"
	"github.com/bethropolis/gotoflash/internal/plugin"
)

// registerPlugins registers plugins with the manager, continuing past failures.
func registerPlugins(pm *plugin.Manager, plugins ...plugin.Plugin) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	var finalErr error
	for _, p := range plugins {
		pluginName := p.Name()

		logger.Debugf("Registering plugin: %s", pluginName)
		if err := pm.Register(p); err != nil {
			wrappedErr := fmt.Errorf("failed to register plugin '%s': %w", pluginName, err)
			logger.Errorf("%v", wrappedErr)
			if finalErr == nil {
				finalErr = wrappedErr
			}
		}
	}
	return finalErr
}
