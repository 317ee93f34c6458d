package events

import "github.com/bnema/gdkevents/internal/window"

// SetFocus moves the keyboard focus to w. The old focus window is told
// first, then the new one. Setting the current focus again does nothing.
func (d *Display) SetFocus(w window.Handle, time uint32) {
	old := d.Focus()
	if !d.alive(w) {
		w = window.None
	}
	if old == w {
		return
	}
	if !old.IsNone() {
		d.Put(&Event{Kind: FocusChange, Window: old, Time: time, FocusIn: false})
	}
	d.focus = w
	if !w.IsNone() {
		d.Put(&Event{Kind: FocusChange, Window: w, Time: time, FocusIn: true})
	}
}

// Notify queues a window lifecycle event (Map, Unmap or Delete) for w.
// Map and Unmap are only delivered to windows selecting structure events.
func (d *Display) Notify(kind Kind, w window.Handle, time uint32) bool {
	if !d.alive(w) {
		return false
	}
	switch kind {
	case Map, Unmap:
		if !wants(d.windows.EventMask(w), kind, 0) {
			return false
		}
	case Delete:
	default:
		d.log.Warn("not a window notification", "kind", kind)
		return false
	}
	d.Put(&Event{Kind: kind, Window: w, Time: time})
	return true
}

// Forget drops every reference the display keeps on w without emitting
// events. Backends call it when a window is destroyed.
func (d *Display) Forget(w window.Handle) {
	if d.resident == w {
		d.resident = window.None
	}
	if d.focus == w {
		d.focus = window.None
	}
	if d.clicks.window == w {
		d.clicks.reset()
	}
	delete(d.windowFilters, w)
}
