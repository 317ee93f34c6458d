package events

import "github.com/bnema/gdkevents/internal/window"

type grab struct {
	window      window.Handle
	ownerEvents bool
	mask        window.EventMask
	implicit    bool
	// button that installed an implicit grab
	button uint
	time   uint32
}

// GrabInfo describes an active grab.
type GrabInfo struct {
	Window      window.Handle
	OwnerEvents bool
	EventMask   window.EventMask
	Implicit    bool
}

func (d *Display) grabState(keyboard bool) *grab {
	if keyboard {
		return &d.keyboardGrab
	}
	return &d.pointerGrab
}

// liveGrab returns the active grab of the given kind. A grab whose window
// has been destroyed counts as no grab and is cleared.
func (d *Display) liveGrab(keyboard bool) *grab {
	g := d.grabState(keyboard)
	if g.window.IsNone() {
		return nil
	}
	if d.windows.IsDestroyed(g.window) {
		d.log.Debug("dropping grab on destroyed window", "window", g.window, "keyboard", keyboard)
		*g = grab{}
		return nil
	}
	return g
}

func (d *Display) acquire(keyboard bool, w window.Handle, ownerEvents bool, mask window.EventMask, implicit bool, button uint, time uint32) GrabStatus {
	if !d.alive(w) || !d.windows.IsMapped(w) {
		return GrabNotViewable
	}
	from := d.apparentPointerWindow()
	cur := d.liveGrab(keyboard)
	if cur != nil {
		if cur.window == w && !cur.implicit {
			return GrabAlreadyGrabbed
		}
		if cur.window != w {
			d.Put(&Event{
				Kind:   GrabBroken,
				Window: cur.window,
				Time:   time,
				Grab: GrabBrokenData{
					Keyboard:   keyboard,
					Implicit:   cur.implicit,
					GrabWindow: w,
				},
			})
		}
	}
	if !keyboard && !implicit {
		// Crossings for the grab are delivered as without any grab.
		*d.grabState(false) = grab{}
		d.grabCrossing(from, w, CrossingGrab, time)
	}
	*d.grabState(keyboard) = grab{
		window:      w,
		ownerEvents: ownerEvents,
		mask:        mask,
		implicit:    implicit,
		button:      button,
		time:        time,
	}
	d.log.Debug("grab acquired", "window", d.windows.Name(w), "keyboard", keyboard,
		"owner_events", ownerEvents, "implicit", implicit)
	return GrabSuccess
}

func (d *Display) release(keyboard bool, onlyIfImplicit bool, time uint32) {
	g := d.liveGrab(keyboard)
	if g == nil {
		return
	}
	if onlyIfImplicit && !g.implicit {
		return
	}
	d.log.Debug("grab released", "window", d.windows.Name(g.window), "keyboard", keyboard, "implicit", g.implicit)
	d.clearGrab(keyboard, time)
}

// clearGrab ends a grab. Ending an explicit pointer grab moves the
// pointer back, as far as crossings go, from the grab window to the
// window it is in.
func (d *Display) clearGrab(keyboard bool, time uint32) {
	g := d.grabState(keyboard)
	from, explicit := g.window, !keyboard && !g.implicit
	*g = grab{}
	if explicit {
		d.grabCrossing(from, d.PointerWindow(), CrossingUngrab, time)
	}
}

// apparentPointerWindow is where crossings consider the pointer to be:
// the explicit pointer grab window if any, else the residency window.
func (d *Display) apparentPointerWindow() window.Handle {
	if g := d.liveGrab(false); g != nil && !g.implicit {
		return g.window
	}
	return d.PointerWindow()
}

// PointerGrab routes all pointer events to w. With ownerEvents, windows of
// the application still get the events they select and w only receives
// what nobody else wanted.
func (d *Display) PointerGrab(w window.Handle, ownerEvents bool, mask window.EventMask, time uint32) GrabStatus {
	return d.acquire(false, w, ownerEvents, mask, false, 0, time)
}

// PointerUngrab ends the pointer grab.
func (d *Display) PointerUngrab(time uint32) {
	d.release(false, false, time)
}

// KeyboardGrab routes all key events to w.
func (d *Display) KeyboardGrab(w window.Handle, ownerEvents bool, mask window.EventMask, time uint32) GrabStatus {
	return d.acquire(true, w, ownerEvents, mask, false, 0, time)
}

// KeyboardUngrab ends the keyboard grab.
func (d *Display) KeyboardUngrab(time uint32) {
	d.release(true, false, time)
}

// ReleasePointerGrab clears the pointer grab; with onlyIfImplicit an
// explicit grab is left in place.
func (d *Display) ReleasePointerGrab(onlyIfImplicit bool, time uint32) {
	d.release(false, onlyIfImplicit, time)
}

func (d *Display) grabInfo(keyboard bool) (GrabInfo, bool) {
	g := d.liveGrab(keyboard)
	if g == nil {
		return GrabInfo{}, false
	}
	return GrabInfo{
		Window:      g.window,
		OwnerEvents: g.ownerEvents,
		EventMask:   g.mask,
		Implicit:    g.implicit,
	}, true
}

// PointerGrabInfo reports the active pointer grab.
func (d *Display) PointerGrabInfo() (GrabInfo, bool) {
	return d.grabInfo(false)
}

// KeyboardGrabInfo reports the active keyboard grab.
func (d *Display) KeyboardGrabInfo() (GrabInfo, bool) {
	return d.grabInfo(true)
}

// IsPointerGrabbed reports whether a pointer grab is active.
func (d *Display) IsPointerGrabbed() bool {
	return d.liveGrab(false) != nil
}

// BreakGrabs ends both grabs because the application lost focus. Each
// broken grab is reported with no replacement grab window.
func (d *Display) BreakGrabs(time uint32) {
	for _, keyboard := range []bool{false, true} {
		g := d.liveGrab(keyboard)
		if g == nil {
			continue
		}
		d.Put(&Event{
			Kind:   GrabBroken,
			Window: g.window,
			Time:   time,
			Grab: GrabBrokenData{
				Keyboard:   keyboard,
				Implicit:   g.implicit,
				GrabWindow: window.None,
			},
		})
		d.log.Debug("grab broken by focus loss", "window", d.windows.Name(g.window), "keyboard", keyboard)
		d.clearGrab(keyboard, time)
	}
}
