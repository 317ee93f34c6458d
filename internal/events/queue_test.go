package events

import (
	"testing"

	"github.com/bnema/gdkevents/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRetainer map[window.Handle]int

func (r countingRetainer) Ref(h window.Handle)   { r[h]++ }
func (r countingRetainer) Unref(h window.Handle) { r[h]-- }

func TestQueue_PendingNodesAreHidden(t *testing.T) {
	refs := countingRetainer{}
	q := NewQueue(refs)
	a := q.Append(&Event{Kind: MotionNotify})
	p := q.reserve(&Event{Kind: ButtonPress})
	q.InsertAfter(p, &Event{Kind: Delete})

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []Kind{MotionNotify, Delete}, kinds(q.Events()))

	q.commit(p)
	assert.Equal(t, []Kind{MotionNotify, ButtonPress, Delete}, kinds(q.Events()))

	assert.True(t, q.Remove(a))
	assert.False(t, q.Remove(a), "second removal is a no-op")
	assert.Equal(t, ButtonPress, q.Peek().Kind)
	assert.Equal(t, ButtonPress, q.Pop().Kind)
	assert.Equal(t, Delete, q.Pop().Kind)
	assert.Nil(t, q.Pop())
	assert.Nil(t, q.Peek())
	assert.Empty(t, refs)
}

func TestQueue_References(t *testing.T) {
	f := newFixture(t)
	refs := countingRetainer{}
	q := NewQueue(refs)

	n := q.Append(&Event{Kind: Map, Window: f.left})
	q.Append(&Event{Kind: Map, Window: f.left})
	p := q.reserve(&Event{Kind: Map, Window: f.right})
	assert.Equal(t, 2, refs[f.left])
	assert.Equal(t, 0, refs[f.right], "pending nodes hold no reference")

	q.commit(p)
	assert.Equal(t, 1, refs[f.right])

	q.Remove(n)
	assert.Equal(t, 1, refs[f.left])

	ev := q.Pop()
	require.NotNil(t, ev)
	assert.Equal(t, 1, refs[f.left], "popping hands the reference to the caller")
}

func TestFilters_GlobalVerdicts(t *testing.T) {
	t.Run("remove stops translation", func(t *testing.T) {
		f := newFixture(t)
		var seen []any
		f.d.AddFilter(func(native any, ev *Event, data any) FilterVerdict {
			seen = append(seen, native, data)
			assert.Equal(t, Nothing, ev.Kind)
			return FilterRemove
		}, "data")

		assert.True(t, f.d.Translate("native", press(50, 50, 1, 1)))
		assert.Equal(t, []any{"native", "data"}, seen)
		assert.Equal(t, 0, f.d.Pending())
		assert.Equal(t, window.None, f.d.PointerWindow(), "no crossing synthesis")
		assert.False(t, f.d.IsPointerGrabbed())
	})

	t.Run("translate keeps the filter's event", func(t *testing.T) {
		f := newFixture(t)
		f.d.AddFilter(func(_ any, ev *Event, _ any) FilterVerdict {
			ev.Kind = Delete
			ev.Window = f.other
			return FilterTranslate
		}, nil)

		assert.True(t, f.d.Translate(nil, press(50, 50, 1, 1)))
		evs := f.d.QueuedEvents()
		require.Len(t, evs, 1)
		assert.Equal(t, Delete, evs[0].Kind)
		assert.Equal(t, 1, f.tree.Refs(f.other))
	})

	t.Run("first non-continue verdict wins", func(t *testing.T) {
		f := newFixture(t)
		var calls []string
		f.d.AddFilter(func(any, *Event, any) FilterVerdict {
			calls = append(calls, "a")
			return FilterContinue
		}, nil)
		f.d.AddFilter(func(any, *Event, any) FilterVerdict {
			calls = append(calls, "b")
			return FilterRemove
		}, nil)
		f.d.AddFilter(func(any, *Event, any) FilterVerdict {
			calls = append(calls, "c")
			return FilterRemove
		}, nil)

		f.d.Translate(nil, pointer(InputMotion, 1, 1, 1))
		assert.Equal(t, []string{"a", "b"}, calls)
	})
}

func TestFilters_RemovedWhileRunning(t *testing.T) {
	f := newFixture(t)
	var second FilterID
	calls := 0
	f.d.AddFilter(func(any, *Event, any) FilterVerdict {
		f.d.RemoveFilter(second)
		return FilterContinue
	}, nil)
	second = f.d.AddFilter(func(any, *Event, any) FilterVerdict {
		calls++
		return FilterRemove
	}, nil)

	assert.True(t, f.d.Translate(nil, pointer(InputMotion, 50, 50, 1)))
	assert.Zero(t, calls)
	assert.NotZero(t, f.d.Pending())
	assert.False(t, f.d.RemoveFilter(second))
}

func TestFilters_WindowFilterFollowUpsKeepCausalOrder(t *testing.T) {
	f := newFixture(t)
	f.d.Put(&Event{Kind: Map, Window: f.other})

	f.d.AddWindowFilter(f.leftInner, func(_ any, ev *Event, _ any) FilterVerdict {
		assert.Equal(t, ButtonPress, ev.Kind)
		f.d.Put(&Event{Kind: Map, Window: f.left})
		f.d.Put(&Event{Kind: Unmap, Window: f.left})
		return FilterContinue
	}, nil)

	require.True(t, f.d.Translate(nil, press(50, 50, 1, 1)))
	f.d.Put(&Event{Kind: Delete, Window: f.top})

	assert.Equal(t, []summary{
		{Map, f.other, 0},
		{EnterNotify, f.leftInner, DetailUnknown},
		{ButtonPress, f.leftInner, 0},
		{Map, f.left, 0},
		{Unmap, f.left, 0},
		{Delete, f.top, 0},
	}, summarize(f.drain()))
}

func TestFilters_WindowFilterRemove(t *testing.T) {
	f := newFixture(t)
	var followUp *Node
	id := f.d.AddWindowFilter(f.leftInner, func(_ any, ev *Event, _ any) FilterVerdict {
		followUp = f.d.Put(&Event{Kind: Map, Window: f.leftInner})
		assert.True(t, f.d.RemoveEvent(followUp))
		return FilterRemove
	}, nil)

	assert.True(t, f.d.Translate(nil, press(50, 50, 1, 1)))
	assert.Equal(t, []Kind{EnterNotify}, kinds(f.drain()), "crossings survive a removed event")
	assert.False(t, f.d.IsPointerGrabbed())
	assert.False(t, f.d.RemoveEvent(followUp))

	assert.True(t, f.d.RemoveWindowFilter(f.leftInner, id))
	assert.False(t, f.d.RemoveWindowFilter(f.leftInner, id))

	assert.True(t, f.d.Translate(nil, press(50, 50, 1, 2)))
	assert.Equal(t, []Kind{ButtonPress}, kinds(f.drain()), "the removed press never counted")
}

func TestFilters_WindowFilterTranslate(t *testing.T) {
	f := newFixture(t)
	f.d.AddWindowFilter(f.leftInner, func(_ any, ev *Event, _ any) FilterVerdict {
		ev.Button = 9
		return FilterTranslate
	}, nil)

	assert.True(t, f.d.Translate(nil, press(50, 50, 1, 1)))
	evs := f.drain()
	require.Len(t, evs, 2)
	assert.Equal(t, ButtonPress, evs[1].Kind)
	assert.Equal(t, uint(9), evs[1].Button)
	assert.False(t, f.d.IsPointerGrabbed(), "translated by the filter, not by the display")
}

func TestFilters_VerdictString(t *testing.T) {
	assert.Equal(t, "continue", FilterContinue.String())
	assert.Equal(t, "translate", FilterTranslate.String())
	assert.Equal(t, "remove", FilterRemove.String())
}
