package flash

import (
	"errors"
	"fmt"

	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// UndoKind tells apply how to interpret an UndoAction.
type UndoKind int

const (
	// UndoEraseFlash removes a flash region.
	UndoEraseFlash UndoKind = iota + 1
	// UndoResurrect redraws squiggles hidden under a flash.
	UndoResurrect
	// UndoRestoreQuiet returns a temporarily revealed view to quiet mode.
	UndoRestoreQuiet
)

func (k UndoKind) String() string {
	switch k {
	case UndoEraseFlash:
		return "erase_flash"
	case UndoResurrect:
		return "resurrect"
	case UndoRestoreQuiet:
		return "restore_quiet"
	default:
		return "unknown"
	}
}

// UndoAction is a deferred display change. Payload depends on Kind:
// flashPayload for UndoEraseFlash, []capturedSquiggle for UndoResurrect
// and nil for UndoRestoreQuiet.
type UndoAction struct {
	Kind    UndoKind
	View    host.View
	Payload any
}

// taskKey identifies a pending undo in the scheduler. Only flashes carry a
// sequence number; a view has at most one resurrect and one restore task.
type taskKey struct {
	kind UndoKind
	view host.ViewID
	seq  uint64
}

func (k taskKey) String() string {
	if k.seq == 0 {
		return fmt.Sprintf("%s/%d", k.kind, k.view)
	}
	return fmt.Sprintf("%s/%d#%d", k.kind, k.view, k.seq)
}

func resurrectKey(view host.ViewID) taskKey {
	return taskKey{kind: UndoResurrect, view: view}
}

func restoreQuietKey(view host.ViewID) taskKey {
	return taskKey{kind: UndoRestoreQuiet, view: view}
}

type flashPayload struct {
	regionKey string
	task      taskKey
}

// capturedSquiggle is a squiggle as it was drawn before it was hidden.
type capturedSquiggle struct {
	key     linter.HighlightKey
	regions []host.Region
}

// apply interprets a due or flushed undo action. Host failures are logged and dropped.
func (p *Plugin) apply(a UndoAction) {
	switch a.Kind {
	case UndoEraseFlash:
		payload, ok := a.Payload.(flashPayload)
		if !ok {
			return
		}
		p.reg.clearFlash(payload.task)
		if err := a.View.EraseRegions(payload.regionKey); err != nil {
			logger.DebugTagf("flash", "erase flash %s: %v", payload.regionKey, err)
		}
	case UndoResurrect:
		captured, _ := a.Payload.([]capturedSquiggle)
		p.resurrect(a.View, captured)
	case UndoRestoreQuiet:
		p.RestoreIfNeeded(a.View)
	default:
		logger.WarnTagf("flash", "unknown undo action %v", a.Kind)
	}
}

// resurrect redraws hidden squiggles with their original style. A squiggle
// whose key was erased in the meantime was replaced by a full redraw and is
// left alone; the current regions are used so edits since hiding are kept.
func (p *Plugin) resurrect(v host.View, captured []capturedSquiggle) {
	restored := 0
	for _, c := range captured {
		regions := v.GetRegions(c.key.Format())
		if len(regions) == 0 {
			continue
		}
		if err := p.hl.RedrawSquiggle(v, c.key, regions); err != nil {
			logger.DebugTagf("suppress", "resurrect on view %d: %v", v.ID(), err)
			if errors.Is(err, host.ErrViewClosed) {
				return
			}
			continue
		}
		restored++
	}
	logger.DebugTagf("suppress", "resurrected %d/%d squiggles on view %d", restored, len(captured), v.ID())
}
