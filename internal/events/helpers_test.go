package events

import (
	"io"
	"testing"

	"github.com/bnema/gdkevents/internal/window"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

const (
	nativeTop   uintptr = 0x100
	nativeOther uintptr = 0x200
)

// fixture is a display with two toplevels:
//
//	top (0,0 400x300)
//	├── left (0,0 200x300)
//	│   └── leftInner (10,10 100x100)
//	└── right (200,0 200x300)
//	    └── rightInner (10,10 100x100)
//	other (500,0 100x100)
type fixture struct {
	tree *window.Tree
	d    *Display

	top, left, leftInner, right, rightInner, other window.Handle
}

type testSettings struct {
	clickTime     uint32
	clickDistance int
	maxScroll     int
}

func (s testSettings) DoubleClickTime() uint32  { return s.clickTime }
func (s testSettings) DoubleClickDistance() int { return s.clickDistance }
func (s testSettings) MaxScrollSteps() int      { return s.maxScroll }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tree := window.NewTree()
	f := &fixture{tree: tree}
	var err error
	all := window.AllEventsMask
	f.top, err = tree.NewToplevel(nativeTop, window.Rect{Width: 400, Height: 300}, all, "top")
	require.NoError(t, err)
	f.left, err = tree.NewChild(f.top, 0, window.Rect{Width: 200, Height: 300}, all, "left")
	require.NoError(t, err)
	f.leftInner, err = tree.NewChild(f.left, 0, window.Rect{X: 10, Y: 10, Width: 100, Height: 100}, all, "leftInner")
	require.NoError(t, err)
	f.right, err = tree.NewChild(f.top, 0, window.Rect{X: 200, Width: 200, Height: 300}, all, "right")
	require.NoError(t, err)
	f.rightInner, err = tree.NewChild(f.right, 0, window.Rect{X: 10, Y: 10, Width: 100, Height: 100}, all, "rightInner")
	require.NoError(t, err)
	f.other, err = tree.NewToplevel(nativeOther, window.Rect{X: 500, Width: 100, Height: 100}, all, "other")
	require.NoError(t, err)

	f.d = NewDisplay(tree,
		WithLogger(log.New(io.Discard)),
		WithSettings(testSettings{clickTime: 250, clickDistance: 5, maxScroll: 64}),
	)
	return f
}

// pointer builds a pointer input at toplevel-relative coordinates of top.
func pointer(kind InputKind, x, y float64, time uint32) Input {
	return Input{
		Kind:   kind,
		Native: nativeTop,
		Time:   time,
		X:      x,
		Y:      y,
		XRoot:  x,
		YRoot:  y,
	}
}

func press(x, y float64, button uint, time uint32) Input {
	in := pointer(InputButtonPress, x, y, time)
	in.Button = button
	return in
}

func release(x, y float64, button uint, time uint32) Input {
	in := pointer(InputButtonRelease, x, y, time)
	in.Button = button
	in.State = ButtonMask(button)
	return in
}

// drain pops every queued event.
func (f *fixture) drain() []*Event {
	var out []*Event
	for ev := f.d.NextEvent(); ev != nil; ev = f.d.NextEvent() {
		out = append(out, ev)
		f.d.Release(ev)
	}
	return out
}

type summary struct {
	kind   Kind
	window window.Handle
	detail CrossingDetail
}

func summarize(evs []*Event) []summary {
	out := make([]summary, 0, len(evs))
	for _, ev := range evs {
		s := summary{kind: ev.Kind, window: ev.Window}
		if ev.Kind == EnterNotify || ev.Kind == LeaveNotify {
			s.detail = ev.Crossing.Detail
		}
		out = append(out, s)
	}
	return out
}

func kinds(evs []*Event) []Kind {
	out := make([]Kind, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Kind)
	}
	return out
}
