package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/bethropolis/gotoflash/internal/flash"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/input"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
	"github.com/bethropolis/gotoflash/internal/tui"
)

// handleAction executes one decoded key action and reports whether to redraw.
func (a *App) handleAction(ev input.ActionEvent) bool {
	var err error
	switch ev.Action {
	case input.ActionQuit:
		a.requestQuit()
		return false
	case input.ActionSave:
		err = a.save()

	case input.ActionMoveUp, input.ActionMoveDown, input.ActionMoveLeft,
		input.ActionMoveRight, input.ActionMoveHome, input.ActionMoveEnd:
		a.moveCursor(ev.Action)

	case input.ActionInsertRune:
		err = a.insert(string(ev.Rune))
	case input.ActionInsertNewLine:
		err = a.insert("\n")
	case input.ActionInsertTab:
		err = a.insert("\t")
	case input.ActionDeleteCharBackward:
		err = a.deleteChar(-1)
	case input.ActionDeleteCharForward:
		err = a.deleteChar(1)

	case input.ActionGotoNextError:
		err = a.editor.RunTextCommand(a.view, linter.CmdGotoError, host.Args{"direction": "next"})
	case input.ActionGotoPreviousError:
		err = a.editor.RunTextCommand(a.view, linter.CmdGotoError, host.Args{"direction": "previous"})
	case input.ActionPanelNextError:
		err = a.runFromPanel(linter.CmdPanelNext)
	case input.ActionPanelPreviousError:
		err = a.runFromPanel(linter.CmdPanelPrevious)
	case input.ActionToggleHighlights:
		err = a.window.RunCommand(linter.CmdToggleHighlights, host.Args{})
	case input.ActionToggleSquiggles:
		err = a.window.RunCommand(linter.CmdToggleHighlights, host.Args{"what": []string{string(linter.ModeSquiggles)}})
	case input.ActionTogglePanel:
		err = a.togglePanel()
	case input.ActionCopyErrors:
		err = a.copyErrors()

	default:
		return false
	}

	if err != nil {
		logger.Warnf("App: action %d failed: %v", ev.Action, err)
		a.statusBar.SetTemporaryMessage("Error: %v", err)
	}
	return true
}

// runFromPanel runs a panel command against the output panel, the way a
// keybinding inside the panel would.
func (a *App) runFromPanel(name string) error {
	panel := a.window.CreateOutputPanel(linter.PanelName)
	return a.editor.RunTextCommand(panel, name, host.Args{})
}

func (a *App) togglePanel() error {
	if a.window.ActivePanel() == linter.OutputPanel {
		return a.window.RunCommand(linter.CmdHidePanel, host.Args{})
	}
	return a.window.RunCommand(linter.CmdShowPanel, host.Args{"panel": linter.OutputPanel})
}

func (a *App) cursor() int {
	offset, _ := host.Cursor(a.view)
	return offset
}

func (a *App) moveCursor(action input.Action) {
	lines := tui.NewLineIndex(a.view.Text())
	offset := a.cursor()
	line, col := lines.LineCol(offset)

	switch action {
	case input.ActionMoveUp:
		offset = lines.Offset(line-1, col)
	case input.ActionMoveDown:
		offset = lines.Offset(line+1, col)
	case input.ActionMoveLeft:
		offset--
	case input.ActionMoveRight:
		offset++
	case input.ActionMoveHome:
		offset = lines.Start(line)
	case input.ActionMoveEnd:
		offset = lines.Offset(line, len(lines.Line(line)))
	}
	if offset < 0 {
		offset = 0
	}
	if offset > lines.Len() {
		offset = lines.Len()
	}
	a.view.SetSelection([]host.Region{host.Point(offset)})
}

func (a *App) insert(s string) error {
	if a.view.IsLoading() {
		a.statusBar.SetTemporaryMessage("File is still loading")
		return nil
	}
	return a.view.Insert(a.cursor(), s)
}

// deleteChar deletes the character before (dir < 0) or after the cursor.
func (a *App) deleteChar(dir int) error {
	if a.view.IsLoading() {
		return nil
	}
	offset := a.cursor()
	r := host.NewRegion(offset, offset+dir)
	if r.Begin < 0 || r.End > a.view.Size() {
		return nil
	}
	return a.view.Delete(r)
}

func (a *App) save() error {
	if a.filePath == "" {
		a.statusBar.SetTemporaryMessage("No file name")
		return nil
	}
	if err := os.WriteFile(a.filePath, []byte(a.view.Text()), 0o644); err != nil {
		return fmt.Errorf("failed to save '%s': %w", a.filePath, err)
	}
	a.modified = false
	a.statusBar.SetTemporaryMessage("Saved %s", a.filePath)
	logger.Infof("App: saved '%s'", a.filePath)
	return nil
}

// copyErrors yanks the messages of the errors containing the cursor.
func (a *App) copyErrors() error {
	errs := flash.ErrorsTouching(a.highlighter.Store(), a.view, a.cursor(), flash.TouchContains)
	if len(errs) == 0 {
		a.statusBar.SetTemporaryMessage("No lint error under the cursor")
		return nil
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s: %s", e.ErrorType, e.Message))
	}
	if err := a.clipboard.Yank(strings.Join(messages, "\n")); err != nil {
		return err
	}
	a.statusBar.SetTemporaryMessage("Copied %d lint message(s)", len(messages))
	return nil
}
