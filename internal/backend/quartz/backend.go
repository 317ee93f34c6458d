package quartz

import (
	"fmt"

	"github.com/bnema/gdkevents/internal/events"
	"github.com/bnema/gdkevents/internal/logger"
	"github.com/bnema/gdkevents/internal/window"
	"github.com/charmbracelet/log"
)

// DefaultScreenHeight is used to flip root coordinates when no screen
// height is configured.
const DefaultScreenHeight = 1080

// Backend feeds Cocoa events into a Display.
type Backend struct {
	display      *events.Display
	keymap       Keymap
	encoder      *LocaleEncoder
	screenHeight float64
	log          *log.Logger

	// pointer buttons held as of the last pointer event
	buttons events.ModifierType
}

// Option configures a Backend.
type Option func(*Backend)

// WithKeymap replaces the US keymap.
func WithKeymap(k Keymap) Option {
	return func(b *Backend) {
		if k != nil {
			b.keymap = k
		}
	}
}

// WithEncoder sets the locale encoder used for key strings.
func WithEncoder(e *LocaleEncoder) Option {
	return func(b *Backend) {
		if e != nil {
			b.encoder = e
		}
	}
}

// WithScreenHeight sets the height of the main screen, in points.
func WithScreenHeight(h float64) Option {
	return func(b *Backend) {
		if h > 0 {
			b.screenHeight = h
		}
	}
}

// WithLogger sets the backend logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates a backend translating into d.
func New(d *events.Display, opts ...Option) *Backend {
	utf8, err := NewLocaleEncoder("UTF-8")
	if err != nil {
		panic(fmt.Sprintf("quartz: %v", err))
	}
	b := &Backend{
		display:      d,
		keymap:       MacKeymap{},
		encoder:      utf8,
		screenHeight: DefaultScreenHeight,
		log:          logger.Named("quartz"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Display returns the display the backend translates into.
func (b *Backend) Display() *events.Display {
	return b.display
}

// Process translates one native event. It reports whether the event was
// consumed, in which case Cocoa's default handling must be skipped.
func (b *Backend) Process(ev NativeEvent) bool {
	h := ev.header()
	switch e := ev.(type) {
	case MouseDown:
		in := b.pointerInput(events.InputButtonPress, h, e.Pointer)
		in.Button = cocoaButton(e.Button)
		// X11 reports the state before the press.
		in.State &^= events.ButtonMask(in.Button)
		return b.display.Translate(ev, in)

	case MouseUp:
		in := b.pointerInput(events.InputButtonRelease, h, e.Pointer)
		in.Button = cocoaButton(e.Button)
		in.State |= events.ButtonMask(in.Button)
		return b.display.Translate(ev, in)

	case MouseMoved:
		return b.display.Translate(ev, b.pointerInput(events.InputMotion, h, e.Pointer))

	case MouseEntered:
		return b.display.Translate(ev, b.pointerInput(events.InputEnter, h, e.Pointer))

	case MouseExited:
		return b.display.Translate(ev, b.pointerInput(events.InputLeave, h, e.Pointer))

	case ScrollWheel:
		in := b.pointerInput(events.InputScroll, h, e.Pointer)
		in.ScrollDX, in.ScrollDY = e.DeltaX, e.DeltaY
		return b.display.Translate(ev, in)

	case KeyDown:
		return b.display.Translate(ev, b.keyInput(events.InputKeyPress, h, e.Keycode, e.Flags))

	case KeyUp:
		return b.display.Translate(ev, b.keyInput(events.InputKeyRelease, h, e.Keycode, e.Flags))

	case FlagsChanged:
		return b.flagsChanged(ev, h, e)

	case AppActivated:
		b.log.Debug("application activated")
		return false

	case AppDeactivated:
		// Releases happening while inactive are never seen.
		b.buttons = 0
		b.display.BreakGrabs(h.Time)
		return false

	case WindowBecameKey:
		w, ok := b.lookup(h)
		if !ok {
			return false
		}
		b.display.SetFocus(w, h.Time)
		return true

	case WindowResignedKey:
		w, ok := b.lookup(h)
		if !ok {
			return false
		}
		if focus := b.display.Focus(); !focus.IsNone() && b.display.Windows().Toplevel(focus) == w {
			b.display.SetFocus(window.None, h.Time)
		}
		return true

	case WindowClosed:
		return b.notify(events.Delete, h)

	case WindowShown:
		return b.notify(events.Map, h)

	case WindowHidden:
		return b.notify(events.Unmap, h)
	}

	b.log.Debug("unhandled native event", "event", Describe(ev))
	return false
}

func (b *Backend) lookup(h Header) (window.Handle, bool) {
	w, ok := b.display.Windows().Lookup(h.Window)
	if !ok || b.display.Windows().IsDestroyed(w) {
		b.log.Debug("notification for foreign window", "native", fmt.Sprintf("%#x", h.Window))
		return window.None, false
	}
	return w, true
}

func (b *Backend) notify(kind events.Kind, h Header) bool {
	w, ok := b.lookup(h)
	if !ok {
		return false
	}
	b.display.Notify(kind, w, h.Time)
	return true
}

// pointerInput flips Cocoa's bottom-left coordinates. Window coordinates
// use the toplevel height, root coordinates the screen height.
func (b *Backend) pointerInput(kind events.InputKind, h Header, p Pointer) events.Input {
	b.buttons = buttonState(p.Buttons)
	in := events.Input{
		Kind:   kind,
		Native: h.Window,
		Time:   h.Time,
		X:      p.X,
		Y:      p.Y,
		XRoot:  p.ScreenX,
		YRoot:  b.screenHeight - p.ScreenY,
		State:  pointerState(p),
	}
	if w, ok := b.display.Windows().Lookup(h.Window); ok {
		in.Y = b.display.Windows().Geometry(w).Height - p.Y
	}
	return in
}

// keyInput reports the buttons held during the last pointer event, since
// key events carry no button state of their own.
func (b *Backend) keyInput(kind events.InputKind, h Header, keycode uint16, flags ModifierFlags) events.Input {
	keyval, ok := b.keymap.Lookup(keycode, flags, 0)
	if !ok {
		b.log.Debug("keycode has no keyval", "keycode", keycode)
	}
	return events.Input{
		Kind:   kind,
		Native: h.Window,
		Time:   h.Time,
		State:  convertModifiers(flags) | b.buttons,
		Key: events.KeyData{
			Keyval:          keyval,
			HardwareKeycode: keycode,
			String:          b.encoder.KeyString(keyval),
			IsModifier:      IsModifierKeycode(keycode),
		},
	}
}

// flagsChanged turns a modifier key transition into a press or release of
// that key. The key is down when its flag is set after the change.
func (b *Backend) flagsChanged(ev NativeEvent, h Header, e FlagsChanged) bool {
	m, ok := modifierKeys[e.Keycode]
	if !ok {
		b.log.Debug("flags changed for unknown keycode", "keycode", e.Keycode, "flags", e.Flags)
		return false
	}
	kind := events.InputKeyRelease
	if e.Flags&m.flag != 0 {
		kind = events.InputKeyPress
	}
	in := b.keyInput(kind, h, e.Keycode, e.Flags)
	in.Key.String = ""
	// As for buttons, the state is the one before the transition.
	mod := convertModifiers(m.flag)
	if kind == events.InputKeyPress {
		in.State &^= mod
	} else {
		in.State |= mod
	}
	return b.display.Translate(ev, in)
}
