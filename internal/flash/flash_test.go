package flash

import (
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/gotoflash/internal/clock"
	"github.com/bethropolis/gotoflash/internal/config"
	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
	"github.com/bethropolis/gotoflash/internal/memhost"
	"github.com/bethropolis/gotoflash/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainText = "package main\n\nfunc main() {\n\tx :=\n}\n"

var defaultErrors = []linter.ErrorRecord{
	{UID: "e1", Linter: "gosyntax", Region: host.Region{Begin: 14, End: 18}, ErrorType: "warning", Message: "unused"},
	{UID: "e2", Linter: "gosyntax", Region: host.Region{Begin: 30, End: 32}, ErrorType: "error", Message: "missing expression"},
}

type fixture struct {
	ed     *memhost.Editor
	win    *memhost.Window
	view   *memhost.View
	store  *linter.Store
	state  *linter.QuietState
	hl     *linter.Highlighter
	clock  *clock.Fake
	plugin *Plugin
}

func defaultSettings() Settings {
	return SettingsFromConfig(config.NewDefaultConfig())
}

func newFixture(t *testing.T, settings Settings, errs ...linter.ErrorRecord) *fixture {
	t.Helper()
	if len(errs) == 0 {
		errs = defaultErrors
	}
	ed := memhost.NewEditor(nil, memhost.WithScopeColors(func(string) string { return "#e5c07b" }))
	win := ed.NewWindow()
	view := win.NewView("main.go", mainText)

	store := linter.NewStore()
	store.Set("main.go", errs)
	state := linter.NewQuietState()
	hl := linter.NewHighlighter(store, state, linter.Options{MarkStyle: "squiggly_underline"})
	linter.Install(ed, hl)

	fake := clock.NewFake()
	p := New(hl, settings, fake)
	require.NoError(t, p.Initialize(plugin.EventAPI{Events: ed.Events()}))

	return &fixture{ed: ed, win: win, view: view, store: store, state: state, hl: hl, clock: fake, plugin: p}
}

func (f *fixture) gotoNext(t *testing.T) {
	t.Helper()
	require.NoError(t, f.ed.RunTextCommand(f.view, linter.CmdGotoError, host.Args{"direction": "next"}))
}

func (f *fixture) cursor(t *testing.T) int {
	t.Helper()
	c, ok := host.Cursor(f.view)
	require.True(t, ok)
	return c
}

func (f *fixture) squiggle(t *testing.T, uid string) (linter.HighlightKey, host.RegionStyle) {
	t.Helper()
	for _, k := range f.hl.RegionKeys(f.view) {
		if k.UID == uid {
			style, ok := f.view.RegionStyle(k.Format())
			require.True(t, ok)
			return k, style
		}
	}
	t.Fatalf("no squiggle drawn for %s", uid)
	return linter.HighlightKey{}, host.RegionStyle{}
}

func flashKeys(v *memhost.View) []string {
	var keys []string
	for _, k := range v.RegionKeys() {
		if strings.HasPrefix(k, flashKeyPrefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

type drawn struct {
	regions []host.Region
	style   host.RegionStyle
}

func snapshot(v *memhost.View) map[string]drawn {
	out := make(map[string]drawn)
	for _, k := range v.RegionKeys() {
		style, _ := v.RegionStyle(k)
		out[k] = drawn{regions: v.GetRegions(k), style: style}
	}
	return out
}

func TestJumpIntoQuietViewRevealsFlashesAndRestores(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))
	before := snapshot(f.view)

	f.gotoNext(t)
	assert.Equal(t, 14, f.cursor(t))
	assert.False(t, f.state.IsQuiet(id), "squiggles are revealed by the jump")

	keys := flashKeys(f.view)
	require.Len(t, keys, 1)
	assert.Equal(t, []host.Region{{Begin: 14, End: 18}}, f.view.GetRegions(keys[0]))
	style, _ := f.view.RegionStyle(keys[0])
	assert.Equal(t, "region.yellowish", style.Scope)
	assert.Equal(t, linter.MarkStyles["fill"], style.Flags)

	k1, s1 := f.squiggle(t, "e1")
	assert.True(t, k1.Visible())
	assert.Empty(t, s1.Scope, "touched squiggle is drawn invisibly under the flash")
	k2, s2 := f.squiggle(t, "e2")
	assert.True(t, k2.Visible())
	assert.Equal(t, k2.Scope, s2.Scope)

	f.clock.Advance(time.Second)
	assert.True(t, f.state.IsQuiet(id))
	assert.Empty(t, flashKeys(f.view))
	assert.Equal(t, before, snapshot(f.view))
	assert.Zero(t, f.plugin.PendingTasks())
}

func TestJumpIntoVisibleViewSuppressesAndResurrects(t *testing.T) {
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.hl.Draw(f.view))
	before := snapshot(f.view)

	f.gotoNext(t)
	_, s1 := f.squiggle(t, "e1")
	assert.Empty(t, s1.Scope)
	require.Len(t, flashKeys(f.view), 1)

	f.clock.Advance(999 * time.Millisecond)
	require.Len(t, flashKeys(f.view), 1)

	f.clock.Advance(time.Millisecond)
	assert.Equal(t, before, snapshot(f.view))
	assert.Zero(t, f.plugin.PendingTasks())
}

func TestWidestTouchingErrorIsFlashed(t *testing.T) {
	f := newFixture(t, defaultSettings(),
		linter.ErrorRecord{UID: "short", Linter: "gosyntax", Region: host.Region{Begin: 14, End: 18}, ErrorType: "error", Message: "a"},
		linter.ErrorRecord{UID: "long", Linter: "gosyntax", Region: host.Region{Begin: 14, End: 26}, ErrorType: "error", Message: "b"},
	)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	keys := flashKeys(f.view)
	require.Len(t, keys, 1)
	assert.Equal(t, []host.Region{{Begin: 14, End: 26}}, f.view.GetRegions(keys[0]))

	for _, uid := range []string{"short", "long"} {
		_, style := f.squiggle(t, uid)
		assert.Empty(t, style.Scope, uid)
	}
}

func TestWidestRegionTieGoesToLast(t *testing.T) {
	r, ok := widestRegion([]linter.ErrorRecord{
		{Region: host.Region{Begin: 2, End: 9}},
		{Region: host.Region{Begin: 5, End: 9}},
		{Region: host.Region{Begin: 1, End: 4}},
	})
	require.True(t, ok)
	assert.Equal(t, host.Region{Begin: 5, End: 9}, r)

	_, ok = widestRegion(nil)
	assert.False(t, ok)
}

func TestErrorsTouching(t *testing.T) {
	f := newFixture(t, defaultSettings())

	got := ErrorsTouching(f.store, f.view, 14, TouchBegin)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].UID)

	assert.Empty(t, ErrorsTouching(f.store, f.view, 16, TouchBegin))
	assert.Len(t, ErrorsTouching(f.store, f.view, 16, TouchContains), 1)
	assert.Len(t, ErrorsTouching(f.store, f.view, 18, TouchContains), 1, "end is inclusive")
	assert.Empty(t, ErrorsTouching(f.store, f.view, 5, TouchContains))
}

func TestJumpTouchingNothingOnlyReveals(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))
	before := snapshot(f.view)

	for _, offset := range []int{0, 5, 13, 16, 29, 33} {
		f.plugin.cursorJumped(f.view, offset)
	}
	assert.False(t, f.state.IsQuiet(id), "a jump into a quiet view reveals its squiggles")
	assert.Empty(t, flashKeys(f.view))
	assert.Equal(t, 1, f.plugin.PendingTasks(), "only the quiet restore is scheduled")

	f.clock.Advance(time.Second)
	assert.True(t, f.state.IsQuiet(id))
	assert.Equal(t, before, snapshot(f.view))
	assert.Zero(t, f.plugin.PendingTasks())
}

func TestJumpTouchingNothingOnVisibleViewDoesNothing(t *testing.T) {
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.hl.Draw(f.view))
	before := snapshot(f.view)

	f.plugin.cursorJumped(f.view, 5)
	assert.Equal(t, before, snapshot(f.view))
	assert.Zero(t, f.plugin.PendingTasks())
}

func TestTwoJumpsWithinDurationRestoreFully(t *testing.T) {
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.hl.Draw(f.view))
	before := snapshot(f.view)

	f.gotoNext(t)
	f.clock.Advance(500 * time.Millisecond)
	f.gotoNext(t)
	assert.Equal(t, 30, f.cursor(t))

	_, s1 := f.squiggle(t, "e1")
	assert.NotEmpty(t, s1.Scope, "first suppression is flushed before the second")
	_, s2 := f.squiggle(t, "e2")
	assert.Empty(t, s2.Scope)

	keys := flashKeys(f.view)
	require.Len(t, keys, 1, "earlier flash on the same view is erased")
	assert.Equal(t, []host.Region{{Begin: 30, End: 32}}, f.view.GetRegions(keys[0]))

	f.clock.Advance(time.Second)
	assert.Equal(t, before, snapshot(f.view))
	assert.Zero(t, f.plugin.PendingTasks())
}

func TestSecondJumpPostponesQuietRestore(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))
	before := snapshot(f.view)

	f.gotoNext(t)
	f.clock.Advance(500 * time.Millisecond)
	f.gotoNext(t)

	f.clock.Advance(600 * time.Millisecond)
	assert.False(t, f.state.IsQuiet(id), "restore was superseded by the second jump")

	f.clock.Advance(400 * time.Millisecond)
	assert.True(t, f.state.IsQuiet(id))
	assert.Equal(t, before, snapshot(f.view))
}

func TestRestoreIfNeededIsIdempotent(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	require.False(t, f.state.IsQuiet(id))

	f.plugin.RestoreIfNeeded(f.view)
	assert.True(t, f.state.IsQuiet(id))
	f.plugin.RestoreIfNeeded(f.view)
	assert.True(t, f.state.IsQuiet(id), "second restore must not toggle again")

	f.clock.Advance(time.Second)
	assert.True(t, f.state.IsQuiet(id))
}

func TestOnlyIfQuiet(t *testing.T) {
	settings := defaultSettings()
	settings.OnlyIfQuiet = true
	f := newFixture(t, settings)
	require.NoError(t, f.hl.Draw(f.view))
	before := snapshot(f.view)

	f.gotoNext(t)
	assert.Equal(t, 14, f.cursor(t))
	assert.Equal(t, before, snapshot(f.view), "no flash and no suppression on a visible view")
	assert.Zero(t, f.plugin.PendingTasks())

	require.NoError(t, f.win.RunCommand(linter.CmdToggleHighlights, host.Args{"what": []string{"squiggles"}}))
	require.True(t, f.state.IsQuiet(f.view.ID()))

	f.gotoNext(t)
	assert.Len(t, flashKeys(f.view), 1)
}

func TestOnlyIfQuietStillRevealsPhantom(t *testing.T) {
	settings := defaultSettings()
	settings.OnlyIfQuiet = true
	f := newFixture(t, settings)
	id := f.view.ID()
	f.state.SetNoPhantoms(id, true)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	phantoms := f.view.Phantoms(linter.PhantomSet)
	require.Len(t, phantoms, 1)
	assert.Equal(t, host.Point(14), phantoms[0].Region)
	assert.Empty(t, flashKeys(f.view), "squiggles are visible so there is no flash")

	f.clock.Advance(time.Second)
	assert.Empty(t, f.view.Phantoms(linter.PhantomSet))
	assert.True(t, f.state.HasNoPhantoms(id))
	assert.Zero(t, f.plugin.PendingTasks())
}

func TestJumpOutOfQuietDisabled(t *testing.T) {
	settings := defaultSettings()
	settings.JumpOutOfQuiet = false
	f := newFixture(t, settings)
	f.state.SetQuiet(f.view.ID(), true)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	assert.True(t, f.state.IsQuiet(f.view.ID()))
	assert.Len(t, flashKeys(f.view), 1, "the flash still marks the target")
}

func TestStartHiddenLimitsReveal(t *testing.T) {
	settings := defaultSettings()
	settings.StartHidden = config.HiddenModes{Explicit: true, Modes: []linter.Mode{linter.ModePhantoms}}
	f := newFixture(t, settings)
	f.state.SetQuiet(f.view.ID(), true)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	assert.True(t, f.state.IsQuiet(f.view.ID()), "squiggles were not hidden by default so a jump leaves them alone")
}

func TestCursorUnchangedIsNoJump(t *testing.T) {
	f := newFixture(t, defaultSettings(), defaultErrors[0])
	require.NoError(t, f.hl.Draw(f.view))
	f.view.SetSelection([]host.Region{host.Point(14)})

	f.gotoNext(t)
	assert.Equal(t, 14, f.cursor(t))
	assert.Empty(t, flashKeys(f.view))
	assert.False(t, f.plugin.Registry().Armed())
}

func TestStrayCompletionIgnored(t *testing.T) {
	f := newFixture(t, defaultSettings())
	f.view.SetSelection([]host.Region{host.Point(14)})
	f.ed.Events().Dispatch(event.TypePostTextCommand, event.TextCommandData{View: f.view, Name: linter.CmdGotoError})
	assert.Empty(t, flashKeys(f.view))
}

func TestPanelCommandActsOnActiveView(t *testing.T) {
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.hl.Draw(f.view))
	panel := f.win.CreateOutputPanel(linter.PanelName)

	require.NoError(t, f.ed.RunTextCommand(panel, linter.CmdPanelNext, nil))
	assert.Equal(t, 14, f.cursor(t))
	assert.Len(t, flashKeys(f.view), 1)
	assert.Empty(t, flashKeys(panel))
}

func TestLoadingViewDefersComparisonOnce(t *testing.T) {
	f := newFixture(t, defaultSettings())
	other := f.win.OpenLoading("other.go")
	f.store.Set("other.go", []linter.ErrorRecord{
		{UID: "o1", Linter: "gosyntax", Region: host.Region{Begin: 8, End: 13}, ErrorType: "error", Message: "bad"},
	})

	require.NoError(t, f.ed.RunTextCommand(other, linter.CmdGotoError, nil))
	assert.False(t, f.plugin.Registry().Armed())
	assert.Empty(t, flashKeys(other))

	other.FinishLoading("package other\n")
	keys := flashKeys(other)
	require.Len(t, keys, 1)
	assert.Equal(t, []host.Region{{Begin: 8, End: 13}}, other.GetRegions(keys[0]))

	other.FinishLoading("package other\n")
	assert.Equal(t, keys, flashKeys(other), "deferred comparison runs exactly once")
}

func TestEditRestoresEverything(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	require.False(t, f.state.IsQuiet(id))

	require.NoError(t, f.view.Insert(0, "// x\n"))
	assert.True(t, f.state.IsQuiet(id))
	assert.Empty(t, flashKeys(f.view))
	assert.Zero(t, f.plugin.PendingTasks())
	for _, k := range f.hl.RegionKeys(f.view) {
		assert.False(t, k.Visible(), k.UID)
	}
}

func TestToggleCommandFoldsInReveal(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))

	var seen []string
	f.ed.Events().Subscribe(event.TypeWindowCommand, func(e event.Event) bool {
		seen = e.Data.(*event.WindowCommandData).Args.Strings("what")
		return false
	})

	f.gotoNext(t)
	require.NoError(t, f.win.RunCommand(linter.CmdToggleHighlights, host.Args{"what": []string{"phantoms"}}))
	assert.Equal(t, []string{"phantoms", "squiggles"}, seen)
	assert.True(t, f.state.IsQuiet(id))
	assert.True(t, f.state.HasNoPhantoms(id))
	for _, k := range f.hl.RegionKeys(f.view) {
		assert.False(t, k.Visible(), k.UID)
	}

	f.clock.Advance(time.Second)
	assert.True(t, f.state.IsQuiet(id), "the pending restore has nothing left to undo")
}

func TestToggleCommandUnchangedArgsNotRewritten(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))
	f.gotoNext(t)

	args := host.Args{"what": []string{"squiggles"}}
	var seen host.Args
	f.ed.Events().Subscribe(event.TypeWindowCommand, func(e event.Event) bool {
		seen = e.Data.(*event.WindowCommandData).Args
		return false
	})
	require.NoError(t, f.win.RunCommand(linter.CmdToggleHighlights, args))

	seen["marker"] = true
	assert.Equal(t, true, args["marker"], "handlers saw the caller's args unchanged")
	assert.True(t, f.state.IsQuiet(id))
}

func TestPanelRevealsQuietView(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))

	require.NoError(t, f.win.RunCommand(linter.CmdShowPanel, host.Args{"panel": linter.OutputPanel}))
	assert.Equal(t, linter.OutputPanel, f.win.ActivePanel())
	assert.False(t, f.state.IsQuiet(id))

	require.NoError(t, f.win.RunCommand(linter.CmdHidePanel, nil))
	assert.Empty(t, f.win.ActivePanel())
	assert.True(t, f.state.IsQuiet(id))
}

func TestPanelTakesOverJumpReveal(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	require.NoError(t, f.win.RunCommand(linter.CmdShowPanel, host.Args{"panel": linter.OutputPanel}))
	f.clock.Advance(2 * time.Second)
	assert.False(t, f.state.IsQuiet(id), "squiggles stay visible while the panel is open")

	require.NoError(t, f.win.RunCommand(linter.CmdHidePanel, nil))
	assert.True(t, f.state.IsQuiet(id))
}

func TestOtherPanelsIgnored(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetQuiet(id, true)
	require.NoError(t, f.hl.Draw(f.view))

	require.NoError(t, f.win.RunCommand(linter.CmdShowPanel, host.Args{"panel": "output.exec"}))
	assert.True(t, f.state.IsQuiet(id))
	require.NoError(t, f.win.RunCommand(linter.CmdHidePanel, nil))
	assert.True(t, f.state.IsQuiet(id))
}

func TestJumpRevealsTouchedPhantomOnly(t *testing.T) {
	f := newFixture(t, defaultSettings())
	id := f.view.ID()
	f.state.SetNoPhantoms(id, true)
	require.NoError(t, f.hl.Draw(f.view))
	require.Empty(t, f.view.Phantoms(linter.PhantomSet))

	f.gotoNext(t)
	phantoms := f.view.Phantoms(linter.PhantomSet)
	require.Len(t, phantoms, 1)
	assert.Equal(t, host.Point(14), phantoms[0].Region)
	assert.Equal(t, "warning: unused", phantoms[0].Content)
	assert.True(t, f.state.HasNoPhantoms(id))

	f.clock.Advance(time.Second)
	assert.Empty(t, f.view.Phantoms(linter.PhantomSet))
	assert.True(t, f.state.HasNoPhantoms(id))
}

func TestJumpAwayClearsRevealedPhantom(t *testing.T) {
	f := newFixture(t, defaultSettings())
	f.state.SetNoPhantoms(f.view.ID(), true)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	require.Len(t, f.view.Phantoms(linter.PhantomSet), 1)

	f.plugin.cursorJumped(f.view, 5)
	assert.Empty(t, f.view.Phantoms(linter.PhantomSet))
}

func TestNoPhantomRevealWhilePanelVisible(t *testing.T) {
	f := newFixture(t, defaultSettings())
	f.state.SetNoPhantoms(f.view.ID(), true)
	require.NoError(t, f.hl.Draw(f.view))
	require.NoError(t, f.win.RunCommand(linter.CmdShowPanel, host.Args{"panel": linter.OutputPanel}))

	f.gotoNext(t)
	assert.Empty(t, f.view.Phantoms(linter.PhantomSet))
}

func TestClosedViewDropsUndo(t *testing.T) {
	f := newFixture(t, defaultSettings())
	f.state.SetQuiet(f.view.ID(), true)
	require.NoError(t, f.hl.Draw(f.view))

	f.gotoNext(t)
	f.view.Close()
	assert.NotPanics(t, func() { f.clock.Advance(time.Second) })
	assert.Zero(t, f.plugin.PendingTasks())
}

func TestShutdownFlushesPending(t *testing.T) {
	f := newFixture(t, defaultSettings())
	require.NoError(t, f.hl.Draw(f.view))
	before := snapshot(f.view)

	f.gotoNext(t)
	require.NotZero(t, f.plugin.PendingTasks())

	require.NoError(t, f.plugin.Shutdown())
	assert.Zero(t, f.plugin.PendingTasks())
	assert.Equal(t, before, snapshot(f.view))
}

// windowless is a view detached from any window.
type windowless struct{ host.View }

func (windowless) Window() (host.Window, bool) { return nil, false }

func TestCommandOnWindowlessViewIgnored(t *testing.T) {
	f := newFixture(t, defaultSettings())
	v := windowless{f.view}

	_, ok := targetView(v)
	assert.False(t, ok)

	data := event.TextCommandData{View: v, Name: linter.CmdGotoError}
	f.plugin.onTextCommand(event.Event{Type: event.TypeTextCommand, Data: data})
	assert.False(t, f.plugin.Registry().Armed())
}

func TestClosingLoadingViewDropsDeferredJump(t *testing.T) {
	f := newFixture(t, defaultSettings())
	other := f.win.OpenLoading("other.go")
	f.store.Set("other.go", []linter.ErrorRecord{
		{UID: "o1", Linter: "gosyntax", Region: host.Region{Begin: 8, End: 13}, ErrorType: "error", Message: "bad"},
	})

	require.NoError(t, f.ed.RunTextCommand(other, linter.CmdGotoError, nil))
	require.True(t, f.plugin.Registry().AwaitingLoad(other.ID()))

	other.Close()
	assert.False(t, f.plugin.Registry().AwaitingLoad(other.ID()))
	assert.Zero(t, f.plugin.PendingTasks())
}
