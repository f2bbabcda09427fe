// internal/app/app.go
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bethropolis/gotoflash/internal/clipboard"
	"github.com/bethropolis/gotoflash/internal/clock"
	"github.com/bethropolis/gotoflash/internal/config"
	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/flash"
	"github.com/bethropolis/gotoflash/internal/input"
	"github.com/bethropolis/gotoflash/internal/lint"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/logger"
	"github.com/bethropolis/gotoflash/internal/memhost"
	"github.com/bethropolis/gotoflash/internal/plugin"
	"github.com/bethropolis/gotoflash/internal/statusbar"
	"github.com/bethropolis/gotoflash/internal/theme"
	"github.com/bethropolis/gotoflash/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// App encapsulates the demo editor: one window with one view, the linter,
// the flash plugin and the terminal UI.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	clock         clock.Clock
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	themeManager  *theme.Manager
	statusBar     *statusbar.StatusBar
	input         *input.InputProcessor
	clipboard     *clipboard.Manager

	editor      *memhost.Editor
	window      *memhost.Window
	view        *memhost.View
	highlighter *linter.Highlighter
	flash       *flash.Plugin
	lints       *LintManager

	filePath string
	modified bool
	topLine  int

	// Channels managed by the App
	quit         chan struct{}
	quitOnce     sync.Once
	done         chan struct{}
	screenEvents chan tcell.Event
	tasks        chan func()
}

// Options override the terminal, the clock and the clipboard, for tests.
type Options struct {
	Screen    tcell.Screen
	Clock     clock.Clock
	Clipboard func(string) error
}

// NewApp creates the application on the real terminal.
func NewApp(cfg *config.Config, filePath string) (*App, error) {
	return newApp(cfg, filePath, Options{})
}

func newApp(cfg *config.Config, filePath string, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	// --- Create Core Components ---
	var tuiManager *tui.TUI
	var err error
	if opts.Screen != nil {
		tuiManager, err = tui.NewWithScreen(opts.Screen, tcell.StyleDefault)
	} else {
		tuiManager, err = tui.New(tcell.StyleDefault)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		eventManager:  event.NewManager(),
		pluginManager: plugin.NewManager(),
		themeManager:  theme.NewManager(),
		input:         input.NewInputProcessor(),
		clipboard:     clipboard.NewManager(opts.Clipboard),
		filePath:      filePath,
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
		screenEvents:  make(chan tcell.Event, 16),
		tasks:         make(chan func(), 64),
	}
	a.clock = opts.Clock
	if a.clock == nil {
		a.clock = loopClock{base: clock.System, post: a.post}
	}
	a.statusBar = statusbar.New(statusbar.DefaultConfig(), a.clock)
	a.loadThemes()

	// --- Linter and host ---
	a.editor = memhost.NewEditor(a.eventManager, memhost.WithScopeColors(a.themeManager.ScopeColor))
	a.window = a.editor.NewWindow()
	a.window.CreateOutputPanel(linter.PanelName)
	a.highlighter = linter.NewHighlighter(linter.NewStore(), linter.NewQuietState(), linter.Options{
		MarkStyle:   cfg.Highlights.MarkStyle,
		StartHidden: cfg.Highlights.StartHidden.Modes,
	})
	linter.Install(a.editor, a.highlighter)

	a.flash = flash.New(a.highlighter, flash.SettingsFromConfig(cfg), a.clock)
	a.lints = NewLintManager(lint.New(nil), a.highlighter, a.flash, a.clock, nil)

	// --- Subscribe Core Components (App level wiring) ---
	// Subscribed before the plugins so a loaded view is drawn before the
	// flash compares its cursor.
	a.eventManager.Subscribe(event.TypeViewModified, a.handleViewModified)
	a.eventManager.Subscribe(event.TypeViewLoaded, a.handleViewLoaded)

	// --- Register and Initialize Plugins ---
	if err := registerPlugins(a.pluginManager, a.flash); err != nil {
		logger.Warnf("App: %v", err)
	}
	if err := a.pluginManager.InitializePlugins(plugin.EventAPI{Events: a.eventManager}); err != nil {
		logger.Warnf("App: %v", err)
	}

	if err := a.openFile(filePath); err != nil {
		tuiManager.Close()
		return nil, err
	}
	return a, nil
}

// loadThemes activates the configured theme file, then any themes found
// next to the config file.
func (a *App) loadThemes() {
	if dir := config.DefaultPath(); dir != "" {
		if err := a.themeManager.LoadThemesFromDir(filepath.Join(filepath.Dir(dir), "themes")); err != nil {
			logger.Warnf("App: %v", err)
		}
	}
	if file := a.cfg.Editor.ThemeFile; file != "" {
		if err := a.themeManager.LoadFile(file); err != nil {
			logger.Warnf("App: theme file '%s': %v", file, err)
		}
	}
}

// openFile opens filePath in the window. With a load delay the view reports
// loading until the delay elapses, as a host does for large files.
func (a *App) openFile(filePath string) error {
	content := ""
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read '%s': %w", filePath, err)
		}
		content = string(data)
	}

	delay := a.cfg.Editor.LoadDelayValue()
	if delay <= 0 {
		a.view = a.window.NewView(filePath, content)
	} else {
		a.view = a.window.OpenLoading(filePath)
		view := a.view
		a.clock.AfterFunc(delay, func() { view.FinishLoading(content) })
		logger.Debugf("App: '%s' loading for %v", filePath, delay)
	}
	if err := a.lints.LintText(a.view, content); err != nil {
		logger.Warnf("App: initial lint failed: %v", err)
	}
	return nil
}

// Run starts the application's main event and drawing loop.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.shutdown()

	go a.pollEvents()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("gotoflash - F8/Shift+F8 goto error | Ctrl+K toggle | Ctrl+L panel | Esc quit")
	a.drawEditor()

	// Every state change happens on this goroutine.
	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.modified {
				logger.Warnf("Exited with unsaved changes.")
			}
			logger.Infof("Exiting application.")
			return nil
		case ev := <-a.screenEvents:
			if a.handleEvent(ev) {
				a.drawEditor()
			}
		case fn := <-a.tasks:
			fn()
			a.drawEditor()
		}
	}
}

// pollEvents forwards terminal events to the main loop until the screen closes.
func (a *App) pollEvents() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.screenEvents <- ev:
		case <-a.done:
			return
		}
	}
}

// post queues fn for the main loop. It is dropped once the loop has stopped.
func (a *App) post(fn func()) {
	select {
	case a.tasks <- fn:
	case <-a.done:
	}
}

func (a *App) requestQuit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

func (a *App) shutdown() {
	close(a.done)
	a.pluginManager.ShutdownPlugins()
	a.lints.Shutdown()
}

// handleEvent processes one terminal event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch eventData := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		return true
	case *tcell.EventKey:
		return a.handleAction(a.input.ProcessEvent(eventData))
	}
	return false
}
