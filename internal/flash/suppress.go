package flash

import (
	"errors"

	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// suppress hides the visible squiggles of the touching errors so the flash
// stands out, and schedules one task that redraws them. A restore still
// pending from an earlier jump on the view runs first.
func (p *Plugin) suppress(v host.View, errs []linter.ErrorRecord) {
	id := v.ID()
	p.tasks.FireNow(resurrectKey(id))

	uids := make(map[string]bool, len(errs))
	for _, e := range errs {
		uids[e.UID] = true
	}

	var captured []capturedSquiggle
	for _, k := range p.hl.RegionKeys(v) {
		if !k.Visible() || !uids[k.UID] {
			continue
		}
		regions := v.GetRegions(k.Format())
		if len(regions) == 0 {
			continue
		}
		captured = append(captured, capturedSquiggle{key: k, regions: regions})
	}
	if len(captured) == 0 {
		return
	}

	hidden := make([]capturedSquiggle, 0, len(captured))
	for _, c := range captured {
		if err := p.hl.DrawInvisible(v, c.key, c.regions); err != nil {
			logger.DebugTagf("suppress", "hide %s on view %d: %v", c.key.UID, id, err)
			if errors.Is(err, host.ErrViewClosed) {
				break
			}
			continue
		}
		hidden = append(hidden, c)
	}
	if len(hidden) == 0 {
		return
	}
	p.tasks.Schedule(resurrectKey(id), p.settings.Duration, UndoAction{
		Kind:    UndoResurrect,
		View:    v,
		Payload: hidden,
	})
	logger.DebugTagf("suppress", "hid %d squiggles on view %d", len(hidden), id)
}
