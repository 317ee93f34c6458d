package events

import (
	"fmt"
	"math"

	"github.com/bnema/gdkevents/internal/window"
)

// InputKind classifies a decoded native event.
type InputKind int

const (
	InputUnknown InputKind = iota
	InputMotion
	InputButtonPress
	InputButtonRelease
	InputScroll
	InputKeyPress
	InputKeyRelease
	// InputEnter and InputLeave report the pointer entering or leaving a
	// toplevel. They only drive crossing synthesis.
	InputEnter
	InputLeave
)

func (k InputKind) String() string {
	switch k {
	case InputMotion:
		return "motion"
	case InputButtonPress:
		return "button-press"
	case InputButtonRelease:
		return "button-release"
	case InputScroll:
		return "scroll"
	case InputKeyPress:
		return "key-press"
	case InputKeyRelease:
		return "key-release"
	case InputEnter:
		return "enter"
	case InputLeave:
		return "leave"
	}
	return fmt.Sprintf("input(%d)", int(k))
}

func (k InputKind) isPointer() bool {
	switch k {
	case InputMotion, InputButtonPress, InputButtonRelease, InputScroll, InputEnter, InputLeave:
		return true
	}
	return false
}

// Input is a native event after a backend has decoded its fields. It never
// carries native types.
type Input struct {
	Kind InputKind
	// Native is the native handle of the toplevel the event occurred in.
	Native uintptr
	Time   uint32
	// X and Y are relative to the toplevel, top-left origin.
	X, Y         float64
	XRoot, YRoot float64
	State        ModifierType
	Button       uint
	// ScrollDX and ScrollDY are continuous wheel deltas. Positive DY scrolls
	// up, positive DX scrolls left.
	ScrollDX, ScrollDY float64
	Key                KeyData
}

// Translate turns one decoded native event into queued events. It reports
// whether the event was consumed; when it was, the platform's default
// handling must be suppressed. Events for windows this display does not
// know are not consumed.
func (d *Display) Translate(native any, in Input) bool {
	ev := &Event{Kind: Nothing, Time: in.Time}
	node := d.queue.reserve(ev)

	prevPending, prevMark := d.pending, d.mark
	d.pending, d.mark = node, node
	defer func() { d.pending, d.mark = prevPending, prevMark }()

	res := d.translate(native, &in, ev)
	if res.keep {
		d.queue.commit(node)
	} else {
		d.queue.Remove(node)
	}
	if res.endImplicitGrab {
		if g := d.liveGrab(false); g != nil && g.implicit && g.button == in.Button {
			d.release(false, true, in.Time)
		}
	}
	return res.consumed
}

type translation struct {
	consumed        bool
	keep            bool
	endImplicitGrab bool
}

func (d *Display) translate(native any, in *Input, ev *Event) translation {
	switch d.filters.run(native, ev) {
	case FilterRemove:
		return translation{consumed: true}
	case FilterTranslate:
		return translation{consumed: true, keep: true}
	}

	w, ok := d.windows.Lookup(in.Native)
	if !ok {
		d.log.Debug("event for unknown window", "native", fmt.Sprintf("%#x", in.Native), "kind", in.Kind)
		return translation{}
	}
	if d.windows.IsDestroyed(w) {
		d.log.Debug("event for destroyed window", "window", w, "kind", in.Kind)
		return translation{}
	}
	toplevel := d.windows.Toplevel(w)

	switch {
	case in.Kind.isPointer():
		d.pointerX, d.pointerY, d.pointerState = in.XRoot, in.YRoot, in.State
		natural := window.None
		if in.Kind != InputLeave {
			natural = d.windowAt(toplevel, in.X, in.Y)
		}
		if natural != d.PointerWindow() {
			d.synthesizeCrossing(natural, crossingPoint{
				time:  in.Time,
				xRoot: in.XRoot,
				yRoot: in.YRoot,
				state: in.State,
				mode:  CrossingNormal,
			})
		}
		if in.Kind == InputEnter || in.Kind == InputLeave {
			return translation{consumed: true}
		}
		res := d.translatePointer(native, in, ev, natural)
		res.endImplicitGrab = in.Kind == InputButtonRelease
		return res

	case in.Kind == InputKeyPress || in.Kind == InputKeyRelease:
		return d.translateKey(native, in, ev, toplevel)
	}

	d.log.Debug("unhandled input", "kind", in.Kind)
	return translation{}
}

func pointerKind(k InputKind) Kind {
	switch k {
	case InputButtonPress:
		return ButtonPress
	case InputButtonRelease:
		return ButtonRelease
	case InputScroll:
		return Scroll
	}
	return MotionNotify
}

func (d *Display) translatePointer(native any, in *Input, ev *Event, natural window.Handle) translation {
	kind := pointerKind(in.Kind)
	target, ok := d.pointerTarget(natural, kind, in.State)
	if !ok {
		d.log.Debug("no window selects event", "kind", kind, "natural", d.windows.Name(natural))
		return translation{consumed: true}
	}

	ev.Kind = kind
	ev.Window = target
	ev.XRoot, ev.YRoot = in.XRoot, in.YRoot
	ev.X, ev.Y = d.relative(target, in.XRoot, in.YRoot)
	ev.State = in.State
	if kind != MotionNotify && kind != Scroll {
		ev.Button = in.Button
	}

	switch d.runWindowFilters(target, native, ev) {
	case FilterRemove:
		return translation{consumed: true}
	case FilterTranslate:
		return translation{consumed: true, keep: true}
	}

	switch kind {
	case ButtonPress:
		count := d.clicks.press(target, in.Button, in.Time, in.XRoot, in.YRoot,
			d.settings.DoubleClickTime(), d.settings.DoubleClickDistance())
		ev.Kind = pressKind(count)
		d.implicitGrab(target, in.Button, in.Time)
	case Scroll:
		if !d.fanOutScroll(in, ev) {
			return translation{consumed: true}
		}
	}
	return translation{consumed: true, keep: true}
}

// implicitGrab reproduces the X11 grab a button press installs on a window
// selecting both presses and releases, so drags keep reporting to it.
func (d *Display) implicitGrab(target window.Handle, button uint, time uint32) {
	if d.liveGrab(false) != nil {
		return
	}
	mask := d.windows.EventMask(target)
	if !mask.Has(window.ButtonPressMask | window.ButtonReleaseMask) {
		return
	}
	d.acquire(false, target, true, mask, true, button, time)
}

type scrollStep struct {
	direction ScrollDirection
	count     int
}

// ScrollStepLimit bounds the scroll events of one native event when the
// settings ask for no cap, or for a larger one.
const ScrollStepLimit = 1024

// scrollCount is the number of whole units in v, at most limit.
func scrollCount(v float64, limit int) int {
	if v <= 0 {
		return 0
	}
	return int(min(math.Trunc(v), float64(limit)))
}

// fanOutScroll turns a continuous delta into one Scroll event per whole
// unit. The first step fills ev, the rest are queued right behind it.
// Fractions are dropped, not carried over to the next native event.
func (d *Display) fanOutScroll(in *Input, ev *Event) bool {
	dx, dy := in.ScrollDX, in.ScrollDY
	if math.IsNaN(dx) || math.IsInf(dx, 0) || math.IsNaN(dy) || math.IsInf(dy, 0) {
		d.log.Debug("dropping non-finite scroll delta", "dx", dx, "dy", dy)
		return false
	}

	limit := d.settings.MaxScrollSteps()
	if limit <= 0 || limit > ScrollStepLimit {
		limit = ScrollStepLimit
	}
	steps := []scrollStep{
		{ScrollUp, scrollCount(dy, limit)},
		{ScrollDown, scrollCount(-dy, limit)},
		{ScrollLeft, scrollCount(dx, limit)},
		{ScrollRight, scrollCount(-dx, limit)},
	}

	total := 0
	var dirs []ScrollDirection
collect:
	for _, s := range steps {
		for i := 0; i < s.count; i++ {
			if total == limit {
				d.log.Debug("scroll delta capped", "dx", dx, "dy", dy, "limit", limit)
				break collect
			}
			dirs = append(dirs, s.direction)
			total++
		}
	}
	if len(dirs) == 0 {
		return false
	}

	ev.Direction = dirs[0]
	prev := d.pending
	for _, dir := range dirs[1:] {
		extra := *ev
		extra.Direction = dir
		prev = d.queue.InsertAfter(prev, &extra)
	}
	if d.mark == d.pending {
		d.mark = prev
	}
	return true
}

func (d *Display) translateKey(native any, in *Input, ev *Event, toplevel window.Handle) translation {
	kind := KeyPress
	if in.Kind == InputKeyRelease {
		kind = KeyRelease
	}
	target, ok := d.keyTarget(toplevel, kind, in.State)
	if !ok {
		d.log.Debug("no window selects key event", "kind", kind)
		return translation{consumed: true}
	}

	ev.Kind = kind
	ev.Window = target
	ev.State = in.State
	ev.Key = in.Key

	if d.runWindowFilters(target, native, ev) == FilterRemove {
		return translation{consumed: true}
	}
	return translation{consumed: true, keep: true}
}
