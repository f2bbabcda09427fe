package memhost

import (
	"errors"
	"testing"

	"github.com/bethropolis/gotoflash/internal/event"
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextCommandHooksBracketCommand(t *testing.T) {
	ed := NewEditor(nil)
	w := ed.NewWindow()
	v := w.NewView("a.go", "hello world")

	var order []string
	ed.Events().Subscribe(event.TypeTextCommand, func(e event.Event) bool {
		order = append(order, "pre:"+e.Data.(event.TextCommandData).Name)
		return false
	})
	ed.Events().Subscribe(event.TypePostTextCommand, func(e event.Event) bool {
		order = append(order, "post:"+e.Data.(event.TextCommandData).Name)
		return false
	})
	ed.RegisterTextCommand("move", func(v host.View, args host.Args) error {
		order = append(order, "run")
		v.SetSelection([]host.Region{host.Point(6)})
		return nil
	})

	require.NoError(t, ed.RunTextCommand(v, "move", nil))
	assert.Equal(t, []string{"pre:move", "run", "post:move"}, order)
	cursor, ok := host.Cursor(v)
	require.True(t, ok)
	assert.Equal(t, 6, cursor)

	err := ed.RunTextCommand(v, "nope", nil)
	assert.True(t, errors.Is(err, host.ErrUnknownCommand))
}

func TestWindowCommandArgsRewrittenByHook(t *testing.T) {
	ed := NewEditor(nil)
	w := ed.NewWindow()
	ed.Events().Subscribe(event.TypeWindowCommand, func(e event.Event) bool {
		data := e.Data.(*event.WindowCommandData)
		if data.Name == "toggle" {
			data.Args = host.Args{"what": []string{"squiggles", "phantoms"}}
		}
		return false
	})
	var got []string
	ed.RegisterWindowCommand("toggle", func(w host.Window, args host.Args) error {
		got = args.Strings("what")
		return nil
	})

	require.NoError(t, w.RunCommand("toggle", host.Args{"what": []string{"squiggles"}}))
	assert.Equal(t, []string{"squiggles", "phantoms"}, got)
}

func TestPanels(t *testing.T) {
	ed := NewEditor(nil)
	w := ed.NewWindow()
	require.NoError(t, w.RunCommand("show_panel", host.Args{"panel": "output.SublimeLinter"}))
	assert.Equal(t, "output.SublimeLinter", w.ActivePanel())
	_, ok := w.Panel("output.SublimeLinter")
	assert.True(t, ok)

	require.NoError(t, w.RunCommand("hide_panel", nil))
	assert.Equal(t, "", w.ActivePanel())
	assert.Error(t, w.RunCommand("show_panel", nil))
}

func TestRegionsShiftOnEdit(t *testing.T) {
	ed := NewEditor(nil)
	w := ed.NewWindow()
	v := w.NewView("a.go", "0123456789")
	modified := 0
	ed.Events().Subscribe(event.TypeViewModified, func(e event.Event) bool {
		modified++
		return false
	})

	require.NoError(t, v.AddRegions("k", []host.Region{{Begin: 4, End: 6}}, host.RegionStyle{Scope: "s"}))
	require.NoError(t, v.Insert(0, "ab"))
	assert.Equal(t, []host.Region{{Begin: 6, End: 8}}, v.GetRegions("k"))
	require.NoError(t, v.Delete(host.Region{Begin: 0, End: 2}))
	assert.Equal(t, []host.Region{{Begin: 4, End: 6}}, v.GetRegions("k"))
	assert.Equal(t, "0123456789", v.Text())
	assert.Equal(t, 2, modified)
}

func TestClosedViewRejectsDraws(t *testing.T) {
	ed := NewEditor(nil)
	w := ed.NewWindow()
	v := w.NewView("a.go", "x")
	v.Close()

	assert.ErrorIs(t, v.AddRegions("k", []host.Region{{Begin: 0, End: 1}}, host.RegionStyle{}), host.ErrViewClosed)
	assert.ErrorIs(t, v.EraseRegions("k"), host.ErrViewClosed)
	assert.ErrorIs(t, v.UpdatePhantoms("p", nil), host.ErrViewClosed)
	_, ok := v.Window()
	assert.False(t, ok)
	_, ok = w.ActiveView()
	assert.False(t, ok)
}

func TestFinishLoadingFiresHook(t *testing.T) {
	ed := NewEditor(nil)
	w := ed.NewWindow()
	v := w.OpenLoading("big.go")
	assert.True(t, v.IsLoading())

	loaded := 0
	ed.Events().Subscribe(event.TypeViewLoaded, func(e event.Event) bool {
		loaded++
		return false
	})
	v.FinishLoading("package big")
	assert.False(t, v.IsLoading())
	assert.Equal(t, 1, loaded)
	assert.Equal(t, "package big", v.Text())
}

func TestSelectionWhileLoadingAppliesOnLoad(t *testing.T) {
	ed := NewEditor(nil)
	w := ed.NewWindow()
	v := w.OpenLoading("big.go")

	v.SetSelection([]host.Region{host.Point(4)})
	assert.Equal(t, []host.Region{host.Point(0)}, v.Selection())

	var seen []host.Region
	ed.Events().Subscribe(event.TypeViewLoaded, func(e event.Event) bool {
		seen = e.Data.(event.ViewData).View.Selection()
		return false
	})
	v.FinishLoading("package big")
	assert.Equal(t, []host.Region{host.Point(4)}, seen)
}

func TestCloseFiresHookOnce(t *testing.T) {
	ed := NewEditor(nil)
	v := ed.NewWindow().NewView("a.go", "x")

	var closed []host.ViewID
	ed.Events().Subscribe(event.TypeViewClosed, func(e event.Event) bool {
		closed = append(closed, e.Data.(event.ViewData).View.ID())
		return false
	})
	v.Close()
	v.Close()
	assert.Equal(t, []host.ViewID{v.ID()}, closed)
	_, ok := v.Window()
	assert.False(t, ok)
}
