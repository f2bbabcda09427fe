package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/gotoflash/internal/clock"
	"github.com/bethropolis/gotoflash/internal/config"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokenGo = "package main\n\nfunc main() {\n\tx :=\n}\n"

const flashPrefix = "SL.flash_jump_position.flash."

type testApp struct {
	*App
	clock  *clock.Fake
	screen tcell.SimulationScreen
	path   string
	copied []string
}

func newTestApp(t *testing.T, content string, mutate func(*config.Config)) *testApp {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := config.NewDefaultConfig()
	cfg.Editor.LoadDelay = "0s"
	if mutate != nil {
		mutate(cfg)
	}
	ta := &testApp{clock: clock.NewFake(), screen: tcell.NewSimulationScreen("UTF-8"), path: path}
	a, err := newApp(cfg, path, Options{
		Screen: ta.screen,
		Clock:  ta.clock,
		Clipboard: func(s string) error {
			ta.copied = append(ta.copied, s)
			return nil
		},
	})
	require.NoError(t, err)
	ta.App = a
	ta.screen.SetSize(80, 20)
	t.Cleanup(func() {
		a.shutdown()
		a.tuiManager.Close()
	})
	return ta
}

func (ta *testApp) press(key tcell.Key, r rune, mod tcell.ModMask) {
	ta.handleEvent(tcell.NewEventKey(key, r, mod))
}

func (ta *testApp) errors() []linter.ErrorRecord {
	return ta.highlighter.Store().FileErrors(linter.CanonicalFilename(ta.view))
}

func (ta *testApp) flashKeys() []string {
	var keys []string
	for _, k := range ta.view.RegionKeys() {
		if strings.HasPrefix(k, flashPrefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (ta *testApp) screenText() string {
	w, h := ta.screen.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := ta.screen.GetContent(x, y)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestOpenLintsAndDraws(t *testing.T) {
	ta := newTestApp(t, brokenGo, nil)

	errs := ta.errors()
	require.NotEmpty(t, errs)
	assert.Equal(t, "go", errs[0].Linter)
	assert.NotEmpty(t, ta.highlighter.RegionKeys(ta.view))

	ta.drawEditor()
	assert.Contains(t, ta.screenText(), "package main")
	assert.Contains(t, ta.statusBar.Text(), "main.go")
}

func TestGotoFlashesUntilDurationElapses(t *testing.T) {
	ta := newTestApp(t, brokenGo, nil)
	target := ta.errors()[0].Region.Begin
	require.NotZero(t, target)

	ta.press(tcell.KeyF8, 0, tcell.ModNone)
	assert.Equal(t, target, ta.cursor())
	require.Len(t, ta.flashKeys(), 1)
	assert.NotZero(t, ta.flash.PendingTasks())

	ta.clock.Advance(time.Second)
	assert.Empty(t, ta.flashKeys())
	assert.Zero(t, ta.flash.PendingTasks())
}

func TestPanelCommandFlashesContentView(t *testing.T) {
	ta := newTestApp(t, brokenGo, nil)
	target := ta.errors()[0].Region.Begin

	ta.press(tcell.KeyF9, 0, tcell.ModNone)
	assert.Equal(t, target, ta.cursor())
	assert.Len(t, ta.flashKeys(), 1)
}

func TestEditRelintsAfterDebounce(t *testing.T) {
	ta := newTestApp(t, "package main\n", nil)
	require.Empty(t, ta.errors())

	ta.press(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Equal(t, "xpackage main\n", ta.view.Text())
	assert.True(t, ta.modified)
	assert.True(t, ta.lints.Pending(ta.view))
	assert.Empty(t, ta.errors())

	ta.clock.Advance(config.RelintDebounce)
	assert.False(t, ta.lints.Pending(ta.view))
	assert.NotEmpty(t, ta.errors())

	// The insert moved the cursor past the new character.
	ta.press(tcell.KeyBackspace2, 0, tcell.ModNone)
	assert.Equal(t, "package main\n", ta.view.Text())
	assert.Equal(t, 0, ta.cursor())
}

func TestLoadingViewFlashesOnceLoaded(t *testing.T) {
	ta := newTestApp(t, brokenGo, func(cfg *config.Config) {
		cfg.Editor.LoadDelay = "100ms"
	})
	require.True(t, ta.view.IsLoading())
	require.NotEmpty(t, ta.errors())

	ta.press(tcell.KeyF8, 0, tcell.ModNone)
	assert.Empty(t, ta.flashKeys())

	ta.clock.Advance(100 * time.Millisecond)
	assert.False(t, ta.view.IsLoading())
	assert.Equal(t, brokenGo, ta.view.Text())
	assert.Equal(t, ta.errors()[0].Region.Begin, ta.cursor())
	assert.Len(t, ta.flashKeys(), 1)
}

func TestToggleHighlights(t *testing.T) {
	ta := newTestApp(t, brokenGo, nil)
	id := ta.view.ID()

	ta.press(tcell.KeyCtrlK, 0, tcell.ModCtrl)
	assert.True(t, ta.highlighter.State().IsQuiet(id))
	assert.True(t, ta.highlighter.State().HasNoPhantoms(id))
	ta.drawEditor()
	assert.Contains(t, ta.statusBar.Text(), "quiet: squiggles, phantoms")

	ta.press(tcell.KeyCtrlJ, 0, tcell.ModCtrl)
	assert.False(t, ta.highlighter.State().IsQuiet(id))
	assert.True(t, ta.highlighter.State().HasNoPhantoms(id))
}

func TestTogglePanel(t *testing.T) {
	ta := newTestApp(t, brokenGo, nil)

	ta.press(tcell.KeyCtrlL, 0, tcell.ModCtrl)
	assert.Equal(t, linter.OutputPanel, ta.window.ActivePanel())
	ta.drawEditor()
	assert.Contains(t, ta.screenText(), linter.PanelName)
	assert.Len(t, ta.panelLines(), len(ta.errors()))

	ta.press(tcell.KeyCtrlL, 0, tcell.ModCtrl)
	assert.Empty(t, ta.window.ActivePanel())
	assert.Nil(t, ta.panelLines())
}

func TestCopyErrorsUnderCursor(t *testing.T) {
	ta := newTestApp(t, brokenGo, nil)
	ta.press(tcell.KeyCtrlY, 0, tcell.ModCtrl)
	assert.Empty(t, ta.copied, "no error at offset 0")

	ta.press(tcell.KeyF8, 0, tcell.ModNone)
	ta.press(tcell.KeyCtrlY, 0, tcell.ModCtrl)
	require.Len(t, ta.copied, 1)
	assert.Contains(t, ta.copied[0], "error: ")
	assert.Equal(t, ta.copied[0], ta.clipboard.Contents())
}

func TestSave(t *testing.T) {
	ta := newTestApp(t, "package main\n", nil)
	ta.press(tcell.KeyEnd, 0, tcell.ModNone)
	ta.press(tcell.KeyRune, 'x', tcell.ModNone)
	ta.press(tcell.KeyCtrlS, 0, tcell.ModCtrl)

	data, err := os.ReadFile(ta.path)
	require.NoError(t, err)
	assert.Equal(t, "package mainx\n", string(data))
	assert.False(t, ta.modified)
}

func TestQuit(t *testing.T) {
	ta := newTestApp(t, "", nil)
	ta.press(tcell.KeyEscape, 0, tcell.ModNone)
	select {
	case <-ta.quit:
	default:
		t.Fatal("quit was not requested")
	}
	// A second quit must not panic on the closed channel.
	ta.press(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
}

func TestLoopClockPostsCallbacks(t *testing.T) {
	base := clock.NewFake()
	var queued []func()
	c := loopClock{base: base, post: func(fn func()) { queued = append(queued, fn) }}

	ran := false
	c.AfterFunc(time.Second, func() { ran = true })
	base.Advance(time.Second)
	require.Len(t, queued, 1)
	assert.False(t, ran)

	queued[0]()
	assert.True(t, ran)
	assert.Equal(t, base.Now(), c.Now())
}

func TestMoveCursor(t *testing.T) {
	ta := newTestApp(t, "ab\ncde\n", nil)
	ta.press(tcell.KeyDown, 0, tcell.ModNone)
	ta.press(tcell.KeyEnd, 0, tcell.ModNone)
	assert.Equal(t, 6, ta.cursor())
	ta.press(tcell.KeyUp, 0, tcell.ModNone)
	assert.Equal(t, 2, ta.cursor())
	ta.press(tcell.KeyHome, 0, tcell.ModNone)
	ta.press(tcell.KeyLeft, 0, tcell.ModNone)
	assert.Equal(t, 0, ta.cursor())

	ta.view.SetSelection([]host.Region{host.Point(7)})
	ta.press(tcell.KeyRight, 0, tcell.ModNone)
	assert.Equal(t, 7, ta.cursor())
}
