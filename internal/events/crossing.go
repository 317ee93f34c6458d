package events

import "github.com/bnema/gdkevents/internal/window"

// crossingPoint carries the pointer position and state stamped on the
// crossing events of one synthesis.
type crossingPoint struct {
	time         uint32
	xRoot, yRoot float64
	state        ModifierType
	mode         CrossingMode
	// follow queues the events as follow-ups instead of ahead of the
	// event being translated.
	follow bool
}

// ancestors returns the strict ancestors of w, nearest first.
func (d *Display) ancestors(w window.Handle) []window.Handle {
	var out []window.Handle
	for {
		p, ok := d.windows.Parent(w)
		if !ok || d.windows.IsDestroyed(p) {
			return out
		}
		out = append(out, p)
		w = p
	}
}

// commonAncestor returns the nearest window that is an ancestor of both a
// and b, or none when they live in different toplevels.
func (d *Display) commonAncestor(a, b window.Handle) window.Handle {
	seen := map[window.Handle]bool{a: true}
	for _, w := range d.ancestors(a) {
		seen[w] = true
	}
	if seen[b] {
		return b
	}
	for _, w := range d.ancestors(b) {
		if seen[w] {
			return w
		}
	}
	return window.None
}

func (d *Display) crossing(kind Kind, w window.Handle, detail CrossingDetail, sub window.Handle, pt crossingPoint) {
	if !d.crossingWanted(w, kind) {
		return
	}
	x, y := d.relative(w, pt.xRoot, pt.yRoot)
	ev := &Event{
		Kind:   kind,
		Window: w,
		Time:   pt.time,
		X:      x,
		Y:      y,
		XRoot:  pt.xRoot,
		YRoot:  pt.yRoot,
		State:  pt.state,
		Crossing: CrossingData{
			Mode:      pt.mode,
			Detail:    detail,
			Subwindow: sub,
		},
	}
	if pt.follow {
		d.Put(ev)
	} else {
		d.putBefore(ev)
	}
}

// synthesizeCrossing emits the leave/enter sequence for the pointer moving
// from the current residency window to `to`, then records `to` as the
// residency window. The update happens even when every event was filtered.
func (d *Display) synthesizeCrossing(to window.Handle, pt crossingPoint) {
	from := d.PointerWindow()
	if to == from {
		return
	}
	if !d.alive(to) {
		to = window.None
	}
	defer func() { d.resident = to }()
	d.emitCrossing(from, to, pt)
}

// grabCrossing reports the pointer appearing to jump between from and to
// as an explicit grab starts or ends. Nothing is reported while the pointer
// is outside the toolkit's windows, and residency does not change.
func (d *Display) grabCrossing(from, to window.Handle, mode CrossingMode, time uint32) {
	if !d.alive(d.PointerWindow()) || !d.alive(from) || !d.alive(to) || from == to {
		return
	}
	d.emitCrossing(from, to, crossingPoint{
		time:   time,
		xRoot:  d.pointerX,
		yRoot:  d.pointerY,
		state:  d.pointerState,
		mode:   mode,
		follow: true,
	})
}

// emitCrossing queues the leave/enter sequence for a move from `from` to
// `to`. Either may be none.
func (d *Display) emitCrossing(from, to window.Handle, pt crossingPoint) {
	switch {
	case from.IsNone() && to.IsNone():
		return

	case from.IsNone():
		d.crossing(EnterNotify, to, DetailUnknown, window.None, pt)

	case to.IsNone():
		d.crossing(LeaveNotify, from, DetailNonlinear, window.None, pt)
		for _, a := range d.ancestors(from) {
			d.crossing(LeaveNotify, a, DetailNonlinearVirtual, window.None, pt)
		}

	case d.windows.IsAncestor(from, to):
		// Moving inwards: from is an ancestor of to.
		down := d.pathDown(from, to)
		d.crossing(LeaveNotify, from, DetailInferior, down[0], pt)
		for i, w := range down[:len(down)-1] {
			d.crossing(EnterNotify, w, DetailVirtual, down[i+1], pt)
		}
		d.crossing(EnterNotify, to, DetailAncestor, window.None, pt)

	case d.windows.IsAncestor(to, from):
		// Moving outwards: to is an ancestor of from.
		up := d.pathDown(to, from)
		d.crossing(LeaveNotify, from, DetailAncestor, window.None, pt)
		for i := len(up) - 2; i >= 0; i-- {
			d.crossing(LeaveNotify, up[i], DetailVirtual, up[i+1], pt)
		}
		d.crossing(EnterNotify, to, DetailInferior, up[0], pt)

	default:
		common := d.commonAncestor(from, to)
		d.crossing(LeaveNotify, from, DetailNonlinear, window.None, pt)
		for _, a := range d.ancestors(from) {
			if a == common {
				break
			}
			d.crossing(LeaveNotify, a, DetailNonlinearVirtual, window.None, pt)
		}
		var down []window.Handle
		for _, a := range d.ancestors(to) {
			if a == common {
				break
			}
			down = append(down, a)
		}
		for i := len(down) - 1; i >= 0; i-- {
			d.crossing(EnterNotify, down[i], DetailNonlinearVirtual, window.None, pt)
		}
		d.crossing(EnterNotify, to, DetailNonlinear, window.None, pt)
	}
}

// pathDown returns the windows strictly below top on the way to bottom,
// top-most first, ending with bottom itself.
func (d *Display) pathDown(top, bottom window.Handle) []window.Handle {
	var rev []window.Handle
	for w := bottom; w != top && !w.IsNone(); {
		rev = append(rev, w)
		p, ok := d.windows.Parent(w)
		if !ok {
			break
		}
		w = p
	}
	path := make([]window.Handle, len(rev))
	for i, w := range rev {
		path[len(rev)-1-i] = w
	}
	return path
}
