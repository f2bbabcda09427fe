package linter

import (
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/logger"
)

// Command and panel names shared with the flash add-on.
const (
	CmdGotoError        = "sublime_linter_goto_error"
	CmdPanelNext        = "sublime_linter_panel_next"
	CmdPanelPrevious    = "sublime_linter_panel_previous"
	CmdToggleHighlights = "sublime_linter_toggle_highlights"

	CmdShowPanel = "show_panel"
	CmdHidePanel = "hide_panel"

	PanelName   = "SublimeLinter"
	OutputPanel = "output." + PanelName
)

// Install registers the linter's commands with a host.
func Install(reg host.CommandRegistry, h *Highlighter) {
	reg.RegisterTextCommand(CmdGotoError, func(v host.View, args host.Args) error {
		direction := args.String("direction")
		if direction == "" {
			direction = "next"
		}
		return h.gotoError(v, direction, args.Bool("wrap", true))
	})
	reg.RegisterTextCommand(CmdPanelNext, func(v host.View, args host.Args) error {
		return h.gotoFromPanel(v, "next")
	})
	reg.RegisterTextCommand(CmdPanelPrevious, func(v host.View, args host.Args) error {
		return h.gotoFromPanel(v, "previous")
	})
	reg.RegisterWindowCommand(CmdToggleHighlights, func(w host.Window, args host.Args) error {
		what := ParseModes(args.Strings("what"))
		if len(what) == 0 {
			what = AllModes
		}
		return h.Toggle(w, what)
	})
}

// gotoFromPanel moves the cursor of the window's content view; v may be the panel.
func (h *Highlighter) gotoFromPanel(v host.View, direction string) error {
	target, ok := host.ActiveViewOf(v)
	if !ok {
		target = v
	}
	return h.gotoError(target, direction, true)
}

// gotoError selects the begin of the next or previous error relative to the cursor.
func (h *Highlighter) gotoError(v host.View, direction string, wrap bool) error {
	errs := h.store.FileErrors(CanonicalFilename(v))
	if len(errs) == 0 {
		logger.DebugTagf("linter", "goto: no errors in view %d", v.ID())
		return nil
	}
	cursor, ok := host.Cursor(v)
	if !ok {
		cursor = 0
	}

	target, found := -1, false
	switch direction {
	case "previous":
		for i := len(errs) - 1; i >= 0; i-- {
			if errs[i].Region.Begin < cursor {
				target, found = errs[i].Region.Begin, true
				break
			}
		}
		if !found && wrap {
			target, found = errs[len(errs)-1].Region.Begin, true
		}
	default:
		for _, e := range errs {
			if e.Region.Begin > cursor {
				target, found = e.Region.Begin, true
				break
			}
		}
		if !found && wrap {
			target, found = errs[0].Region.Begin, true
		}
	}
	if !found {
		return nil
	}
	v.SetSelection([]host.Region{host.Point(target)})
	logger.DebugTagf("linter", "goto %s: view %d cursor %d -> %d", direction, v.ID(), cursor, target)
	return nil
}
