package events

import (
	"testing"

	"github.com/bnema/gdkevents/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) cross(from, to window.Handle) []*Event {
	f.d.resident = from
	f.d.synthesizeCrossing(to, crossingPoint{time: 7, xRoot: 1, yRoot: 1})
	return f.drain()
}

func TestSynthesizeCrossing_Table(t *testing.T) {
	f := newFixture(t)
	none := window.None

	tests := []struct {
		name     string
		from, to window.Handle
		want     []summary
	}{
		{
			name: "no previous residency",
			from: none,
			to:   f.leftInner,
			want: []summary{{EnterNotify, f.leftInner, DetailUnknown}},
		},
		{
			name: "into a descendant",
			from: f.top,
			to:   f.leftInner,
			want: []summary{
				{LeaveNotify, f.top, DetailInferior},
				{EnterNotify, f.left, DetailVirtual},
				{EnterNotify, f.leftInner, DetailAncestor},
			},
		},
		{
			name: "into a direct child",
			from: f.right,
			to:   f.rightInner,
			want: []summary{
				{LeaveNotify, f.right, DetailInferior},
				{EnterNotify, f.rightInner, DetailAncestor},
			},
		},
		{
			name: "out to an ancestor",
			from: f.rightInner,
			to:   f.top,
			want: []summary{
				{LeaveNotify, f.rightInner, DetailAncestor},
				{LeaveNotify, f.right, DetailVirtual},
				{EnterNotify, f.top, DetailInferior},
			},
		},
		{
			name: "across cousins",
			from: f.leftInner,
			to:   f.rightInner,
			want: []summary{
				{LeaveNotify, f.leftInner, DetailNonlinear},
				{LeaveNotify, f.left, DetailNonlinearVirtual},
				{EnterNotify, f.right, DetailNonlinearVirtual},
				{EnterNotify, f.rightInner, DetailNonlinear},
			},
		},
		{
			name: "across siblings",
			from: f.left,
			to:   f.right,
			want: []summary{
				{LeaveNotify, f.left, DetailNonlinear},
				{EnterNotify, f.right, DetailNonlinear},
			},
		},
		{
			name: "to another toplevel",
			from: f.leftInner,
			to:   f.other,
			want: []summary{
				{LeaveNotify, f.leftInner, DetailNonlinear},
				{LeaveNotify, f.left, DetailNonlinearVirtual},
				{LeaveNotify, f.top, DetailNonlinearVirtual},
				{EnterNotify, f.other, DetailNonlinear},
			},
		},
		{
			name: "out of every window",
			from: f.rightInner,
			to:   none,
			want: []summary{
				{LeaveNotify, f.rightInner, DetailNonlinear},
				{LeaveNotify, f.right, DetailNonlinearVirtual},
				{LeaveNotify, f.top, DetailNonlinearVirtual},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs := f.cross(tt.from, tt.to)
			assert.Equal(t, tt.want, summarize(evs))
			assert.Equal(t, tt.to, f.d.PointerWindow())
		})
	}
}

func TestSynthesizeCrossing_Subwindow(t *testing.T) {
	f := newFixture(t)
	evs := f.cross(f.top, f.rightInner)
	require.Len(t, evs, 3)
	assert.Equal(t, f.right, evs[0].Crossing.Subwindow, "leave on top names the child on the path")
	assert.Equal(t, f.rightInner, evs[1].Crossing.Subwindow)
	assert.Equal(t, window.None, evs[2].Crossing.Subwindow)

	for _, ev := range evs {
		assert.Equal(t, CrossingNormal, ev.Crossing.Mode)
		assert.Equal(t, uint32(7), ev.Time)
	}
}

func TestSynthesizeCrossing_RelativeCoordinates(t *testing.T) {
	f := newFixture(t)
	f.d.synthesizeCrossing(f.rightInner, crossingPoint{xRoot: 250, yRoot: 40})
	evs := f.drain()
	require.Len(t, evs, 1)
	assert.Equal(t, 40.0, evs[0].X)
	assert.Equal(t, 30.0, evs[0].Y)
	assert.Equal(t, 250.0, evs[0].XRoot)
}

// Every pair of windows in one toplevel yields one event per window on the
// path and leaves residency at the destination.
func TestSynthesizeCrossing_Completeness(t *testing.T) {
	f := newFixture(t)
	wins := []window.Handle{f.top, f.left, f.leftInner, f.right, f.rightInner}

	pathLen := func(from, to window.Handle) int {
		common := f.d.commonAncestor(from, to)
		depth := func(w window.Handle) int { return len(f.d.ancestors(w)) }
		n := depth(from) - depth(common) + depth(to) - depth(common)
		if common == from || common == to {
			return n + 1
		}
		return n
	}

	for _, from := range wins {
		for _, to := range wins {
			if from == to {
				continue
			}
			evs := f.cross(from, to)
			seen := map[window.Handle]bool{}
			for _, ev := range evs {
				assert.False(t, seen[ev.Window], "%s appears twice crossing %s -> %s",
					f.tree.Name(ev.Window), f.tree.Name(from), f.tree.Name(to))
				seen[ev.Window] = true
			}
			assert.Len(t, evs, pathLen(from, to), "%s -> %s", f.tree.Name(from), f.tree.Name(to))
			assert.Equal(t, LeaveNotify, evs[0].Kind)
			assert.Equal(t, from, evs[0].Window)
			assert.Equal(t, EnterNotify, evs[len(evs)-1].Kind)
			assert.Equal(t, to, evs[len(evs)-1].Window)
			assert.Equal(t, to, f.d.PointerWindow())
		}
	}
}

func TestSynthesizeCrossing_MaskSuppressesButResidencyMoves(t *testing.T) {
	f := newFixture(t)
	f.tree.SetEventMask(f.left, window.ButtonPressMask)
	f.tree.SetEventMask(f.leftInner, window.LeaveNotifyMask)

	evs := f.cross(f.top, f.leftInner)
	assert.Equal(t, []summary{{LeaveNotify, f.top, DetailInferior}}, summarize(evs))
	assert.Equal(t, f.leftInner, f.d.PointerWindow())

	f.tree.SetEventMask(f.top, 0)
	f.tree.SetEventMask(f.leftInner, 0)
	evs = f.cross(f.leftInner, f.top)
	assert.Empty(t, evs)
	assert.Equal(t, f.top, f.d.PointerWindow())
}

func TestSynthesizeCrossing_GrabFiltering(t *testing.T) {
	t.Run("without owner events only the grab window is told", func(t *testing.T) {
		f := newFixture(t)
		require.Equal(t, GrabSuccess, f.d.PointerGrab(f.left, false, window.EnterNotifyMask|window.LeaveNotifyMask, 1))
		evs := f.cross(f.leftInner, f.rightInner)
		assert.Equal(t, []summary{{LeaveNotify, f.left, DetailNonlinearVirtual}}, summarize(evs))
	})

	t.Run("grab mask without crossings silences everything", func(t *testing.T) {
		f := newFixture(t)
		require.Equal(t, GrabSuccess, f.d.PointerGrab(f.left, false, window.ButtonPressMask, 1))
		evs := f.cross(f.leftInner, f.rightInner)
		assert.Empty(t, evs)
		assert.Equal(t, f.rightInner, f.d.PointerWindow())
	})

	t.Run("owner events keeps window masks", func(t *testing.T) {
		f := newFixture(t)
		require.Equal(t, GrabSuccess, f.d.PointerGrab(f.left, true, 0, 1))
		evs := f.cross(f.leftInner, f.rightInner)
		assert.Len(t, evs, 4)
	})
}

func TestSynthesizeCrossing_DestroyedTarget(t *testing.T) {
	f := newFixture(t)
	gone := f.rightInner
	f.tree.Destroy(gone)

	evs := f.cross(f.right, gone)
	assert.Equal(t, []summary{
		{LeaveNotify, f.right, DetailNonlinear},
		{LeaveNotify, f.top, DetailNonlinearVirtual},
	}, summarize(evs))
	assert.Equal(t, window.None, f.d.PointerWindow())
}

type modeSummary struct {
	kind   Kind
	window window.Handle
	detail CrossingDetail
	mode   CrossingMode
}

func crossings(evs []*Event) []modeSummary {
	var out []modeSummary
	for _, ev := range evs {
		if ev.Kind == EnterNotify || ev.Kind == LeaveNotify {
			out = append(out, modeSummary{ev.Kind, ev.Window, ev.Crossing.Detail, ev.Crossing.Mode})
		}
	}
	return out
}

func TestGrabCrossings(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.d.Translate(nil, pointer(InputMotion, 50, 50, 1)))
	f.drain()
	require.Equal(t, f.leftInner, f.d.PointerWindow())

	t.Run("grab moves the pointer to the grab window", func(t *testing.T) {
		require.Equal(t, GrabSuccess, f.d.PointerGrab(f.right, false, window.ButtonPressMask, 2))
		evs := f.drain()
		assert.Equal(t, []modeSummary{
			{LeaveNotify, f.leftInner, DetailNonlinear, CrossingGrab},
			{LeaveNotify, f.left, DetailNonlinearVirtual, CrossingGrab},
			{EnterNotify, f.right, DetailNonlinear, CrossingGrab},
		}, crossings(evs))
		enter := evs[len(evs)-1]
		assert.Equal(t, uint32(2), enter.Time)
		assert.Equal(t, -150.0, enter.X)
		assert.Equal(t, 50.0, enter.YRoot)
		assert.Equal(t, f.leftInner, f.d.PointerWindow(), "residency is unchanged")
	})

	t.Run("ungrab moves it back", func(t *testing.T) {
		f.d.PointerUngrab(3)
		assert.Equal(t, []modeSummary{
			{LeaveNotify, f.right, DetailNonlinear, CrossingUngrab},
			{EnterNotify, f.left, DetailNonlinearVirtual, CrossingUngrab},
			{EnterNotify, f.leftInner, DetailNonlinear, CrossingUngrab},
		}, crossings(f.drain()))
	})

	t.Run("grab on an ancestor", func(t *testing.T) {
		require.Equal(t, GrabSuccess, f.d.PointerGrab(f.left, true, 0, 4))
		assert.Equal(t, []modeSummary{
			{LeaveNotify, f.leftInner, DetailAncestor, CrossingGrab},
			{EnterNotify, f.left, DetailInferior, CrossingGrab},
		}, crossings(f.drain()))
	})

	t.Run("broken grab reports an ungrab crossing", func(t *testing.T) {
		f.d.BreakGrabs(5)
		evs := f.drain()
		require.NotEmpty(t, evs)
		assert.Equal(t, GrabBroken, evs[0].Kind)
		assert.Equal(t, []modeSummary{
			{LeaveNotify, f.left, DetailInferior, CrossingUngrab},
			{EnterNotify, f.leftInner, DetailAncestor, CrossingUngrab},
		}, crossings(evs[1:]))
	})

	t.Run("grab on the pointer window is silent", func(t *testing.T) {
		require.Equal(t, GrabSuccess, f.d.PointerGrab(f.leftInner, false, 0, 6))
		assert.Equal(t, 0, f.d.Pending())
		f.d.PointerUngrab(7)
		assert.Equal(t, 0, f.d.Pending())
	})

	t.Run("keyboard grabs never cross", func(t *testing.T) {
		require.Equal(t, GrabSuccess, f.d.KeyboardGrab(f.right, false, window.KeyPressMask, 8))
		f.d.KeyboardUngrab(9)
		assert.Equal(t, 0, f.d.Pending())
	})
}

func TestGrabCrossings_PointerOutside(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, GrabSuccess, f.d.PointerGrab(f.right, false, window.AllEventsMask, 1))
	f.d.PointerUngrab(2)
	assert.Equal(t, 0, f.d.Pending())
}
