package app

import (
	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// handleViewModified marks the buffer dirty and restarts its relint timer.
func (a *App) handleViewModified(e event.Event) bool {
	data, ok := e.Data.(event.ViewData)
	if !ok || data.View == nil || data.View.ID() != a.view.ID() {
		return false
	}
	a.modified = true
	a.lints.AccumulateEdit(a.view)
	return false
}

// handleViewLoaded draws the highlights linted while the view was loading.
func (a *App) handleViewLoaded(e event.Event) bool {
	data, ok := e.Data.(event.ViewData)
	if !ok || data.View == nil {
		return false
	}
	if err := a.highlighter.Draw(data.View); err != nil {
		logger.Warnf("App: drawing loaded view %d: %v", data.View.ID(), err)
	}
	return false
}
