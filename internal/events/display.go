package events

import (
	"github.com/bnema/gdkevents/internal/logger"
	"github.com/bnema/gdkevents/internal/window"
	"github.com/charmbracelet/log"
)

// Hierarchy is the window index the pipeline consults. *window.Tree
// satisfies it.
type Hierarchy interface {
	Retainer

	Lookup(native uintptr) (window.Handle, bool)
	Parent(h window.Handle) (window.Handle, bool)
	Toplevel(h window.Handle) window.Handle
	Geometry(h window.Handle) window.Rect
	EventMask(h window.Handle) window.EventMask
	IsDestroyed(h window.Handle) bool
	IsMapped(h window.Handle) bool
	IsToplevel(h window.Handle) bool
	IsAncestor(a, h window.Handle) bool
	RootOrigin(h window.Handle) (x, y float64)
	ChildAt(h window.Handle, x, y float64) (window.Handle, bool)
	Name(h window.Handle) string
}

// Settings supplies the platform input settings.
type Settings interface {
	// DoubleClickTime is the longest gap, in milliseconds, between presses
	// of a multi-click.
	DoubleClickTime() uint32
	// DoubleClickDistance is how far, in pixels, consecutive presses of a
	// multi-click may be apart. Negative disables the check.
	DoubleClickDistance() int
	// MaxScrollSteps caps the discrete scroll events produced from one
	// native scroll event. Zero, negative or larger values fall back to
	// ScrollStepLimit.
	MaxScrollSteps() int
}

// DefaultSettings is used when no Settings are provided.
type DefaultSettings struct{}

func (DefaultSettings) DoubleClickTime() uint32  { return 250 }
func (DefaultSettings) DoubleClickDistance() int { return 5 }
func (DefaultSettings) MaxScrollSteps() int      { return 64 }

// Display is the event translation context of one display.
type Display struct {
	windows  Hierarchy
	settings Settings
	log      *log.Logger

	queue         *Queue
	filters       filterList
	windowFilters map[window.Handle]*filterList
	nextFilterID  FilterID

	pointerGrab  grab
	keyboardGrab grab
	resident     window.Handle
	focus        window.Handle

	// root position and state of the last pointer event
	pointerX, pointerY float64
	pointerState       ModifierType

	clicks clickState

	// pending is the node reserved for the native event being translated;
	// mark is where follow-up events queued by filters are inserted.
	pending *Node
	mark    *Node
}

// Option configures a Display.
type Option func(*Display)

// WithSettings sets the platform settings source.
func WithSettings(s Settings) Option {
	return func(d *Display) {
		if s != nil {
			d.settings = s
		}
	}
}

// WithLogger sets the logger used for dropped and malformed events.
func WithLogger(l *log.Logger) Option {
	return func(d *Display) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDisplay creates the translation context for a display whose windows
// are indexed by windows. The index must exist before any native event is
// translated, so a nil index panics.
func NewDisplay(windows Hierarchy, opts ...Option) *Display {
	if windows == nil {
		panic("events: NewDisplay requires a window hierarchy")
	}
	d := &Display{
		windows:       windows,
		settings:      DefaultSettings{},
		log:           logger.Named("events"),
		queue:         NewQueue(windows),
		windowFilters: make(map[window.Handle]*filterList),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetSettings replaces the platform settings source.
func (d *Display) SetSettings(s Settings) {
	if s != nil {
		d.settings = s
	}
}

// Windows returns the window hierarchy of the display.
func (d *Display) Windows() Hierarchy {
	return d.windows
}

func (d *Display) alive(h window.Handle) bool {
	return !h.IsNone() && !d.windows.IsDestroyed(h)
}

// Put queues ev. While a native event is being translated the new event is
// placed right after it, behind any follow-ups queued before; otherwise it
// goes to the tail.
func (d *Display) Put(ev *Event) *Node {
	if d.mark != nil && d.mark.elem != nil {
		n := d.queue.InsertAfter(d.mark, ev)
		d.mark = n
		return n
	}
	return d.queue.Append(ev)
}

// putBefore queues ev ahead of the event being translated.
func (d *Display) putBefore(ev *Event) *Node {
	if d.pending != nil && d.pending.elem != nil {
		return d.queue.InsertBefore(d.pending, ev)
	}
	return d.queue.Append(ev)
}

// RemoveEvent unlinks a queued event. It is meant for filters dropping an
// event they queued themselves.
func (d *Display) RemoveEvent(n *Node) bool {
	if n == nil || n.pending {
		return false
	}
	if d.mark == n {
		prev := n.elem.Prev()
		d.mark = nil
		if prev != nil {
			d.mark = prev.Value.(*Node)
		}
	}
	return d.queue.Remove(n)
}

// NextEvent pops the next event, or returns nil when the queue is empty.
// The caller hands the event back with Release after dispatching it.
func (d *Display) NextEvent() *Event {
	return d.queue.Pop()
}

// PeekEvent returns the next event without removing it.
func (d *Display) PeekEvent() *Event {
	return d.queue.Peek()
}

// Release drops the window reference an event obtained from NextEvent holds.
func (d *Display) Release(ev *Event) {
	if ev != nil && !ev.Window.IsNone() {
		d.windows.Unref(ev.Window)
	}
}

// Pending returns the number of queued events.
func (d *Display) Pending() int {
	return d.queue.Len()
}

// QueuedEvents returns the queued events in dispatch order.
func (d *Display) QueuedEvents() []*Event {
	return d.queue.Events()
}

// AddFilter registers a filter run on every native event before translation.
func (d *Display) AddFilter(fn FilterFunc, data any) FilterID {
	d.nextFilterID++
	d.filters.add(d.nextFilterID, fn, data)
	return d.nextFilterID
}

// RemoveFilter unregisters a global filter.
func (d *Display) RemoveFilter(id FilterID) bool {
	return d.filters.remove(id)
}

// AddWindowFilter registers a filter run on events delivered to w.
func (d *Display) AddWindowFilter(w window.Handle, fn FilterFunc, data any) FilterID {
	l, ok := d.windowFilters[w]
	if !ok {
		l = &filterList{}
		d.windowFilters[w] = l
	}
	d.nextFilterID++
	l.add(d.nextFilterID, fn, data)
	return d.nextFilterID
}

// RemoveWindowFilter unregisters a filter added with AddWindowFilter.
func (d *Display) RemoveWindowFilter(w window.Handle, id FilterID) bool {
	l, ok := d.windowFilters[w]
	if !ok {
		return false
	}
	removed := l.remove(id)
	if l.len() == 0 {
		delete(d.windowFilters, w)
	}
	return removed
}

func (d *Display) runWindowFilters(w window.Handle, native any, ev *Event) FilterVerdict {
	l, ok := d.windowFilters[w]
	if !ok {
		return FilterContinue
	}
	if d.windows.IsDestroyed(w) {
		delete(d.windowFilters, w)
		return FilterContinue
	}
	return l.run(native, ev)
}

// PointerWindow returns the window the pointer is currently in.
func (d *Display) PointerWindow() window.Handle {
	if !d.alive(d.resident) {
		d.resident = window.None
	}
	return d.resident
}

// Focus returns the keyboard focus window.
func (d *Display) Focus() window.Handle {
	if !d.alive(d.focus) {
		d.focus = window.None
	}
	return d.focus
}
