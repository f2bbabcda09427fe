package app

import (
	"fmt"

	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
	"github.com/bethropolis/gotoflash/internal/statusbar"
	"github.com/bethropolis/gotoflash/internal/tui"
)

// drawEditor redraws the view, the output panel and the status bar.
func (a *App) drawEditor() {
	_, height := a.tuiManager.Size()
	frame := tui.Frame{
		View:     a.view,
		Theme:    a.themeManager.Current(),
		TabWidth: a.cfg.Editor.TabWidth,
		Panel:    a.panelLines(),
	}
	viewHeight := tui.TextAreaHeight(height, frame)
	a.scrollToCursor(viewHeight)
	frame.TopLine = a.topLine

	a.updateStatusBarContent()
	frame.Status = a.statusBar.Text()

	logger.DebugTagf("draw", "drawEditor: height %d, view height %d, top line %d", height, viewHeight, a.topLine)
	tui.Draw(a.tuiManager, frame)
}

// scrollToCursor keeps the cursor line inside the text area.
func (a *App) scrollToCursor(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	line, _ := tui.NewLineIndex(a.view.Text()).LineCol(a.cursor())
	if line < a.topLine {
		a.topLine = line
	}
	if line >= a.topLine+viewHeight {
		a.topLine = line - viewHeight + 1
	}
}

// updateStatusBarContent pushes the current view state to the status bar.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.filePath, a.modified, a.view.IsLoading())
	line, col := tui.NewLineIndex(a.view.Text()).LineCol(a.cursor())
	a.statusBar.SetCursorInfo(statusbar.Position{Line: line, Col: col})

	id := a.view.ID()
	state := a.highlighter.State()
	errs := a.highlighter.Store().FileErrors(linter.CanonicalFilename(a.view))
	a.statusBar.SetLintInfo(len(errs), state.IsQuiet(id), state.HasNoPhantoms(id))
}

// panelLines lists the view's errors while the linter panel is shown; nil hides the panel.
func (a *App) panelLines() []string {
	if a.window.ActivePanel() != linter.OutputPanel {
		return nil
	}
	errs := a.highlighter.Store().FileErrors(linter.CanonicalFilename(a.view))
	if len(errs) == 0 {
		return []string{"No lint errors"}
	}
	lines := tui.NewLineIndex(a.view.Text())
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		line, col := lines.LineCol(e.Region.Begin)
		out = append(out, fmt.Sprintf("%4d:%-3d %-7s %s", line+1, col+1, e.ErrorType, e.Message))
	}
	return out
}
