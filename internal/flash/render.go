package flash

import (
	"fmt"

	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// flashKeyPrefix namespaces flash regions; each flash appends its own sequence number.
const flashKeyPrefix = "SL.flash_jump_position.flash."

func flashRegionKey(seq uint64) string {
	return fmt.Sprintf("%s%d", flashKeyPrefix, seq)
}

// flash draws the widest touching error and schedules its removal. A flash
// still showing on the same view is erased first.
func (p *Plugin) flash(v host.View, errs []linter.ErrorRecord) {
	region, ok := widestRegion(errs)
	if !ok {
		return
	}
	id := v.ID()
	if prev, ok := p.reg.currentFlash(id); ok {
		p.tasks.FireNow(prev)
	}

	task := p.reg.nextFlash(id)
	key := flashRegionKey(task.seq)
	flags, ok := linter.StyleFlags(p.settings.Style)
	if !ok {
		flags = linter.MarkStyles["fill"]
	}
	style := host.RegionStyle{Scope: p.settings.Scope, Flags: flags}
	if err := v.AddRegions(key, []host.Region{region}, style); err != nil {
		logger.DebugTagf("flash", "draw flash on view %d: %v", id, err)
		p.reg.clearFlash(task)
		return
	}
	p.tasks.Schedule(task, p.settings.Duration, UndoAction{
		Kind:    UndoEraseFlash,
		View:    v,
		Payload: flashPayload{regionKey: key, task: task},
	})
	logger.DebugTagf("flash", "flashed %v on view %d as %s", region, id, key)
}

// revealPhantoms shows the phantoms of the touching errors on a view whose
// phantoms are hidden, and clears a previously revealed one when nothing is
// touched. Nothing happens while the linter panel is visible; the view stays
// in the phantom-suppressed set throughout.
func (p *Plugin) revealPhantoms(v host.View, errs []linter.ErrorRecord) {
	if !p.settings.JumpOutOfQuiet || !p.settings.StartHidden.Allows(linter.ModePhantoms) {
		return
	}
	id := v.ID()
	if !p.hl.State().HasNoPhantoms(id) {
		return
	}
	if w, ok := v.Window(); ok && w.ActivePanel() == linter.OutputPanel {
		return
	}

	if len(errs) == 0 {
		if !p.reg.revealOf(id).phantomDrawn {
			return
		}
		if err := p.hl.UpdatePhantoms(v, nil); err != nil {
			logger.DebugTagf("quiet", "clear phantoms on view %d: %v", id, err)
		}
		p.reg.update(id, func(rv *reveal) { rv.phantomDrawn = false })
		return
	}

	phantoms := p.hl.PreparePhantoms(v, errs)
	if len(phantoms) == 0 {
		return
	}
	if err := p.hl.UpdatePhantoms(v, phantoms); err != nil {
		logger.DebugTagf("quiet", "reveal phantoms on view %d: %v", id, err)
		return
	}
	p.reg.update(id, func(rv *reveal) { rv.phantomDrawn = true })
	logger.DebugTagf("quiet", "revealed %d phantoms on view %d", len(phantoms), id)
}
