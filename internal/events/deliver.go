package events

import "github.com/bnema/gdkevents/internal/window"

var buttonMotionMasks = [...]struct {
	state ModifierType
	mask  window.EventMask
}{
	{Button1Mask, window.Button1MotionMask},
	{Button2Mask, window.Button2MotionMask},
	{Button3Mask, window.Button3MotionMask},
	{Button4Mask, window.Button4MotionMask},
	{Button5Mask, window.Button5MotionMask},
}

// wants reports whether an event mask selects an event of the given kind.
// Motion follows X11: pointer motion always matches, button motion only
// while a (specific) button is held.
func wants(mask window.EventMask, kind Kind, state ModifierType) bool {
	switch kind {
	case MotionNotify:
		if mask.Any(window.PointerMotionMask) {
			return true
		}
		if state&AllButtonsMask != 0 && mask.Any(window.ButtonMotionMask) {
			return true
		}
		for _, b := range buttonMotionMasks {
			if state&b.state != 0 && mask.Any(b.mask) {
				return true
			}
		}
		return false
	case ButtonPress, DoubleButtonPress, TripleButtonPress:
		return mask.Any(window.ButtonPressMask)
	case ButtonRelease:
		return mask.Any(window.ButtonReleaseMask)
	case Scroll:
		return mask.Any(window.ScrollMask | window.ButtonPressMask)
	case KeyPress:
		return mask.Any(window.KeyPressMask)
	case KeyRelease:
		return mask.Any(window.KeyReleaseMask)
	case EnterNotify:
		return mask.Any(window.EnterNotifyMask)
	case LeaveNotify:
		return mask.Any(window.LeaveNotifyMask)
	case FocusChange:
		return mask.Any(window.FocusChangeMask)
	case Map, Unmap:
		return mask.Any(window.StructureMask)
	}
	return true
}

// propagate walks from w towards its toplevel and returns the first window
// selecting the event. The walk never leaves the toplevel.
func (d *Display) propagate(w window.Handle, kind Kind, state ModifierType) (window.Handle, bool) {
	for !w.IsNone() {
		if !d.windows.IsDestroyed(w) && wants(d.windows.EventMask(w), kind, state) {
			return w, true
		}
		if d.windows.IsToplevel(w) {
			break
		}
		p, ok := d.windows.Parent(w)
		if !ok {
			break
		}
		w = p
	}
	return window.None, false
}

// pointerTarget resolves the window a pointer event goes to, given the
// window the pointer is naturally over (possibly none).
func (d *Display) pointerTarget(natural window.Handle, kind Kind, state ModifierType) (window.Handle, bool) {
	if g := d.liveGrab(false); g != nil {
		if g.ownerEvents {
			if w, ok := d.propagate(natural, kind, state); ok {
				return w, true
			}
		}
		if wants(g.mask, kind, state) {
			return g.window, true
		}
		return window.None, false
	}
	return d.propagate(natural, kind, state)
}

// keyTarget resolves the window a key event goes to. toplevel is the
// toplevel the native event arrived in, used when nothing has focus.
func (d *Display) keyTarget(toplevel window.Handle, kind Kind, state ModifierType) (window.Handle, bool) {
	focus := d.Focus()
	if focus.IsNone() {
		focus = toplevel
	}
	if g := d.liveGrab(true); g != nil {
		if g.ownerEvents {
			if w, ok := d.propagate(focus, kind, state); ok {
				return w, true
			}
		}
		if wants(g.mask, kind, state) {
			return g.window, true
		}
		return window.None, false
	}
	return d.propagate(focus, kind, state)
}

// crossingWanted decides whether an enter/leave for w is delivered. Crossing
// events are never propagated. During a grab without owner events only the
// grab window hears about crossings.
func (d *Display) crossingWanted(w window.Handle, kind Kind) bool {
	if !d.alive(w) {
		return false
	}
	own := wants(d.windows.EventMask(w), kind, 0)
	g := d.liveGrab(false)
	if g == nil {
		return own
	}
	if g.ownerEvents && own {
		return true
	}
	return g.window == w && wants(g.mask, kind, 0)
}

// relative converts root coordinates into w's coordinate space.
func (d *Display) relative(w window.Handle, xRoot, yRoot float64) (float64, float64) {
	ox, oy := d.windows.RootOrigin(w)
	return xRoot - ox, yRoot - oy
}

// windowAt descends from toplevel to the innermost mapped window containing
// the toplevel-relative point. It returns none when the point is outside
// the toplevel.
func (d *Display) windowAt(toplevel window.Handle, x, y float64) window.Handle {
	if !d.alive(toplevel) || !d.windows.IsMapped(toplevel) {
		return window.None
	}
	g := d.windows.Geometry(toplevel)
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return window.None
	}
	w := toplevel
	for {
		c, ok := d.windows.ChildAt(w, x, y)
		if !ok {
			return w
		}
		cg := d.windows.Geometry(c)
		x -= cg.X
		y -= cg.Y
		w = c
	}
}
