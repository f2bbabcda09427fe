package flash

import (
	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// gotoCommands are the commands that move the cursor onto an error.
var gotoCommands = map[string]bool{
	linter.CmdGotoError:     true,
	linter.CmdPanelNext:     true,
	linter.CmdPanelPrevious: true,
}

// targetView resolves the content view a command acts on: the active view
// of the command view's window. Panel commands run against the output panel,
// so the active view wins. A view without a window has no target.
func targetView(v host.View) (host.View, bool) {
	if v == nil {
		return nil, false
	}
	return host.ActiveViewOf(v)
}

func (p *Plugin) onTextCommand(e event.Event) bool {
	data, ok := e.Data.(event.TextCommandData)
	if !ok || !gotoCommands[data.Name] {
		return false
	}
	v, ok := targetView(data.View)
	if !ok {
		return false
	}
	cursor, ok := host.Cursor(v)
	if !ok {
		return false
	}
	p.reg.arm(v.ID(), cursor)
	logger.DebugTagf("jump", "armed on view %d at %d (%s)", v.ID(), cursor, data.Name)
	return false
}

func (p *Plugin) onPostTextCommand(e event.Event) bool {
	data, ok := e.Data.(event.TextCommandData)
	if !ok || !gotoCommands[data.Name] {
		return false
	}
	pre, ok := p.reg.disarm()
	if !ok {
		return false
	}
	v, ok := targetView(data.View)
	if !ok {
		return false
	}
	if v.IsLoading() {
		logger.DebugTagf("jump", "view %d still loading, deferring", v.ID())
		p.reg.deferUntilLoaded(v.ID(), func() { p.compare(pre, v) })
		return false
	}
	p.compare(pre, v)
	return false
}

func (p *Plugin) onViewLoaded(e event.Event) bool {
	data, ok := e.Data.(event.ViewData)
	if !ok || data.View == nil {
		return false
	}
	if fn := p.reg.takeLoadCallback(data.View.ID()); fn != nil {
		fn()
	}
	return false
}

// onViewClosed forgets a jump still waiting for the view to load.
func (p *Plugin) onViewClosed(e event.Event) bool {
	data, ok := e.Data.(event.ViewData)
	if !ok || data.View == nil {
		return false
	}
	if p.reg.takeLoadCallback(data.View.ID()) != nil {
		logger.DebugTagf("jump", "view %d closed while loading, jump dropped", data.View.ID())
	}
	return false
}

// compare fires the jump pipeline when the cursor left its pre-jump position.
func (p *Plugin) compare(pre cursorPreJump, v host.View) {
	cursor, ok := host.Cursor(v)
	if !ok {
		return
	}
	if v.ID() == pre.view && cursor == pre.offset {
		logger.DebugTagf("jump", "cursor did not move on view %d", v.ID())
		return
	}
	p.cursorJumped(v, cursor)
}

// cursorJumped runs the reveal, flash and suppress steps for a jump to offset.
// Reveals depend only on the view's quiet state; only_if_quiet gates the
// flash and the suppression.
func (p *Plugin) cursorJumped(v host.View, offset int) {
	errs := ErrorsTouching(p.hl.Store(), v, offset, p.settings.TouchMatch)
	logger.DebugTagf("jump", "jump to %d on view %d touches %d errors", offset, v.ID(), len(errs))

	quiet := p.quietBeforeReveal(v)
	p.RevealForJump(v)
	p.revealPhantoms(v, errs)
	p.scheduleRestore(v)

	if len(errs) == 0 || (p.settings.OnlyIfQuiet && !quiet) {
		return
	}
	p.flash(v, errs)
	p.suppress(v, errs)
}
