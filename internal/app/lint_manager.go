package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/gotoflash/internal/clock"
	"github.com/bethropolis/gotoflash/internal/config"
	"github.com/bethropolis/gotoflash/internal/debounce"
	"github.com/bethropolis/gotoflash/internal/flash"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/lint"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
	"github.com/bethropolis/gotoflash/internal/memhost"
)

// LintManager relints views once they stop changing and redraws their highlights.
type LintManager struct {
	linter      *lint.Linter
	highlighter *linter.Highlighter
	flash       *flash.Plugin
	appRedraw   func()
	tasks       *debounce.Scheduler[host.ViewID, *memhost.View]

	mu         sync.Mutex
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewLintManager creates a manager whose debounce timers run on c.
func NewLintManager(l *lint.Linter, hl *linter.Highlighter, fp *flash.Plugin, c clock.Clock, redrawFunc func()) *LintManager {
	ctx, cancel := context.WithCancel(context.Background())
	lm := &LintManager{
		linter:      l,
		highlighter: hl,
		flash:       fp,
		appRedraw:   redrawFunc,
		ctx:         ctx,
		cancelFunc:  cancel,
	}
	lm.tasks = debounce.New[host.ViewID, *memhost.View](c, lm.run)
	return lm
}

// AccumulateEdit restarts v's relint timer.
func (lm *LintManager) AccumulateEdit(v *memhost.View) {
	lm.tasks.Schedule(v.ID(), config.RelintDebounce, v)
}

// Pending reports whether v has a relint waiting.
func (lm *LintManager) Pending(v *memhost.View) bool {
	return lm.tasks.Pending(v.ID())
}

func (lm *LintManager) run(v *memhost.View) {
	if err := lm.LintText(v, v.Text()); err != nil {
		logger.Warnf("LintManager: %v", err)
	}
}

// LintText lints text as v's content and publishes the result. Pending
// flash undo tasks run before the highlights are redrawn. Loading views are
// drawn once their load hook fires.
func (lm *LintManager) LintText(v *memhost.View, text string) error {
	name := linter.CanonicalFilename(v)
	errs, err := lm.linter.Lint(lm.context(), v.FileName(), []byte(text))
	switch {
	case errors.Is(err, lint.ErrNoLanguage):
		logger.DebugTagf("linter", "LintManager: no language for '%s', clearing errors", name)
		errs = nil
	case lm.context().Err() != nil:
		logger.DebugTagf("linter", "LintManager: lint of '%s' cancelled", name)
		return nil
	case err != nil:
		return fmt.Errorf("lint %s: %w", name, err)
	}

	lm.highlighter.Store().Set(name, errs)
	lm.flash.Flush(v)
	if v.IsLoading() {
		return nil
	}
	if err := lm.highlighter.Draw(v); err != nil {
		if errors.Is(err, host.ErrViewClosed) {
			return nil
		}
		return fmt.Errorf("draw %s: %w", name, err)
	}
	logger.DebugTagf("linter", "LintManager: '%s' has %d errors", name, len(errs))
	if lm.appRedraw != nil {
		lm.appRedraw()
	}
	return nil
}

func (lm *LintManager) context() context.Context {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.ctx
}

// Shutdown cancels running lints and drops pending ones.
func (lm *LintManager) Shutdown() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if lm.cancelFunc != nil {
		logger.Debugf("LintManager: Shutting down, cancelling pending lints.")
		lm.cancelFunc()
		lm.cancelFunc = nil
	}
}
