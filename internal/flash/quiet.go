package flash

import (
	"errors"

	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// IsQuiet reports whether v's squiggles are currently suppressed.
func (p *Plugin) IsQuiet(v host.View) bool {
	return p.hl.State().IsQuiet(v.ID())
}

// quietBeforeReveal reports whether v is quiet as far as the user is
// concerned, counting reveals this add-on made itself.
func (p *Plugin) quietBeforeReveal(v host.View) bool {
	if p.IsQuiet(v) {
		return true
	}
	rv := p.reg.revealOf(v.ID())
	return rv.squigglesByJump || rv.squigglesByPanel
}

// RevealForJump turns squiggles back on for a quiet view that was jumped
// into and schedules the return to quiet mode.
func (p *Plugin) RevealForJump(v host.View) {
	if !p.settings.JumpOutOfQuiet || !p.settings.StartHidden.Allows(linter.ModeSquiggles) {
		return
	}
	id := v.ID()
	if p.IsQuiet(v) {
		if err := p.toggle(v, []linter.Mode{linter.ModeSquiggles}); err != nil {
			logger.DebugTagf("quiet", "reveal view %d: %v", id, err)
			return
		}
		p.reg.update(id, func(rv *reveal) { rv.squigglesByJump = true })
		logger.DebugTagf("quiet", "revealed squiggles on view %d", id)
	}
}

// scheduleRestore arms the return to quiet mode for whatever a jump revealed
// on v, superseding an earlier pending restore.
func (p *Plugin) scheduleRestore(v host.View) {
	id := v.ID()
	if rv := p.reg.revealOf(id); rv.squigglesByJump || rv.phantomDrawn {
		p.tasks.Schedule(restoreQuietKey(id), p.settings.Duration, UndoAction{Kind: UndoRestoreQuiet, View: v})
	}
}

// RestoreIfNeeded puts back whatever a jump revealed on v. Calling it again
// without a new reveal does nothing.
func (p *Plugin) RestoreIfNeeded(v host.View) {
	id := v.ID()
	squiggles, phantom := p.reg.takeJumpReveal(id)
	if phantom && p.hl.State().HasNoPhantoms(id) {
		if err := p.hl.UpdatePhantoms(v, nil); err != nil {
			logger.DebugTagf("quiet", "clear phantoms on view %d: %v", id, err)
		}
	}
	if !squiggles {
		return
	}
	if err := p.toggle(v, []linter.Mode{linter.ModeSquiggles}); err != nil && !errors.Is(err, host.ErrViewClosed) {
		logger.DebugTagf("quiet", "restore view %d: %v", id, err)
		return
	}
	logger.DebugTagf("quiet", "restored quiet mode on view %d", id)
}

// toggle flips modes through the highlighter after flushing hidden squiggles,
// so the redraw it triggers is never overwritten by a stale restore.
func (p *Plugin) toggle(v host.View, modes []linter.Mode) error {
	p.tasks.FireNow(resurrectKey(v.ID()))
	return p.hl.ToggleView(v, modes)
}

// onWindowCommand watches the toggle and panel commands. It never consumes the event.
func (p *Plugin) onWindowCommand(e event.Event) bool {
	data, ok := e.Data.(*event.WindowCommandData)
	if !ok || data.Window == nil {
		return false
	}
	switch data.Name {
	case linter.CmdToggleHighlights:
		p.interceptToggle(data)
	case linter.CmdShowPanel:
		if data.Args.String("panel") == linter.OutputPanel {
			p.onShowPanel(data.Window)
		}
	case linter.CmdHidePanel:
		if data.Window.ActivePanel() == linter.OutputPanel {
			p.onHidePanel(data.Window)
		}
	}
	return false
}

// interceptToggle folds this add-on's temporary reveals into a user's toggle,
// so the command hides them instead of fighting them. The args are rewritten
// only when the mode set actually changes.
func (p *Plugin) interceptToggle(data *event.WindowCommandData) {
	v, ok := data.Window.ActiveView()
	if !ok {
		return
	}
	id := v.ID()
	p.tasks.FireNow(resurrectKey(id))

	rv := p.reg.takeAll(id)
	if rv.empty() {
		return
	}

	what := linter.ParseModes(data.Args.Strings("what"))
	if len(what) == 0 {
		what = append([]linter.Mode(nil), linter.AllModes...)
	}
	merged := what
	if rv.squigglesByJump || rv.squigglesByPanel {
		p.hl.State().SetQuiet(id, false)
		merged = withMode(merged, linter.ModeSquiggles)
	}
	if rv.phantomDrawn {
		p.hl.State().SetNoPhantoms(id, false)
		merged = withMode(merged, linter.ModePhantoms)
	}
	if len(merged) == len(what) {
		return
	}

	args := data.Args.Clone()
	args["what"] = modeNames(merged)
	data.Args = args
	logger.DebugTagf("quiet", "toggle on view %d widened to %v", id, merged)
}

func (p *Plugin) onShowPanel(w host.Window) {
	v, ok := w.ActiveView()
	if !ok || !p.settings.JumpOutOfQuiet {
		return
	}
	id := v.ID()
	if p.reg.revealOf(id).squigglesByJump {
		// The panel now owns the reveal; the jump timer must not undo it.
		p.reg.update(id, func(rv *reveal) {
			rv.squigglesByJump = false
			rv.squigglesByPanel = true
		})
		return
	}
	if !p.IsQuiet(v) || !p.settings.StartHidden.Allows(linter.ModeSquiggles) {
		return
	}
	if err := p.toggle(v, []linter.Mode{linter.ModeSquiggles}); err != nil {
		logger.DebugTagf("quiet", "panel reveal on view %d: %v", id, err)
		return
	}
	p.reg.update(id, func(rv *reveal) { rv.squigglesByPanel = true })
	logger.DebugTagf("quiet", "panel revealed squiggles on view %d", id)
}

func (p *Plugin) onHidePanel(w host.Window) {
	v, ok := w.ActiveView()
	if !ok {
		return
	}
	id := v.ID()
	var revealed bool
	p.reg.update(id, func(rv *reveal) {
		revealed = rv.squigglesByPanel
		rv.squigglesByPanel = false
	})
	if !revealed {
		return
	}
	if err := p.toggle(v, []linter.Mode{linter.ModeSquiggles}); err != nil {
		logger.DebugTagf("quiet", "panel restore on view %d: %v", id, err)
	}
}

func withMode(modes []linter.Mode, mode linter.Mode) []linter.Mode {
	for _, m := range modes {
		if m == mode {
			return modes
		}
	}
	return append(modes, mode)
}

func modeNames(modes []linter.Mode) []string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}
