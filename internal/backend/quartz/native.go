// Package quartz decodes Cocoa events into the neutral input the events
// core translates.
package quartz

import "fmt"

// Kind tags the variant of a NativeEvent.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMouseDown
	KindMouseUp
	KindMouseMoved
	KindMouseEntered
	KindMouseExited
	KindScrollWheel
	KindKeyDown
	KindKeyUp
	KindFlagsChanged
	KindAppActivated
	KindAppDeactivated
	KindWindowBecameKey
	KindWindowResignedKey
	KindWindowClosed
	KindWindowShown
	KindWindowHidden
)

var kindNames = [...]string{
	KindUnknown:           "unknown",
	KindMouseDown:         "mouse-down",
	KindMouseUp:           "mouse-up",
	KindMouseMoved:        "mouse-moved",
	KindMouseEntered:      "mouse-entered",
	KindMouseExited:       "mouse-exited",
	KindScrollWheel:       "scroll-wheel",
	KindKeyDown:           "key-down",
	KindKeyUp:             "key-up",
	KindFlagsChanged:      "flags-changed",
	KindAppActivated:      "app-activated",
	KindAppDeactivated:    "app-deactivated",
	KindWindowBecameKey:   "window-became-key",
	KindWindowResignedKey: "window-resigned-key",
	KindWindowClosed:      "window-closed",
	KindWindowShown:       "window-shown",
	KindWindowHidden:      "window-hidden",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// NativeEvent is one Cocoa event or notification. The concrete types are
// the variants declared in this file.
type NativeEvent interface {
	Kind() Kind
	header() Header
}

// Header holds the fields every native event carries.
type Header struct {
	// Window is the NSWindow the event was delivered to, 0 for
	// application-wide events.
	Window uintptr
	// Time is the event timestamp in milliseconds.
	Time uint32
}

func (h Header) header() Header { return h }

// HeaderOf returns the common fields of ev.
func HeaderOf(ev NativeEvent) Header {
	return ev.header()
}

// Pointer holds the pointer fields of mouse events. Cocoa coordinates have
// their origin at the bottom-left corner.
type Pointer struct {
	// X and Y are relative to the window content.
	X, Y float64
	// ScreenX and ScreenY are global screen coordinates.
	ScreenX, ScreenY float64
	Flags            ModifierFlags
	// Buttons is the pressedMouseButtons bitmask, bit n for Cocoa button n.
	Buttons uint
}

type (
	MouseDown struct {
		Header
		Pointer
		// Button is the Cocoa button number: 0 left, 1 right, 2 middle.
		Button int
	}
	MouseUp struct {
		Header
		Pointer
		Button int
	}
	// MouseMoved covers both plain motion and drags.
	MouseMoved struct {
		Header
		Pointer
	}
	MouseEntered struct {
		Header
		Pointer
	}
	MouseExited struct {
		Header
		Pointer
	}
	ScrollWheel struct {
		Header
		Pointer
		DeltaX, DeltaY float64
	}
	KeyDown struct {
		Header
		Keycode uint16
		Flags   ModifierFlags
		Repeat  bool
	}
	KeyUp struct {
		Header
		Keycode uint16
		Flags   ModifierFlags
	}
	// FlagsChanged reports a modifier key going down or up; Flags is the
	// state after the change.
	FlagsChanged struct {
		Header
		Keycode uint16
		Flags   ModifierFlags
	}
	AppActivated      struct{ Header }
	AppDeactivated    struct{ Header }
	WindowBecameKey   struct{ Header }
	WindowResignedKey struct{ Header }
	WindowClosed      struct{ Header }
	WindowShown       struct{ Header }
	WindowHidden      struct{ Header }
	// Unknown is any event type the backend does not translate. Type is the
	// raw NSEventType.
	Unknown struct {
		Header
		Type uint
	}
)

func (MouseDown) Kind() Kind         { return KindMouseDown }
func (MouseUp) Kind() Kind           { return KindMouseUp }
func (MouseMoved) Kind() Kind        { return KindMouseMoved }
func (MouseEntered) Kind() Kind      { return KindMouseEntered }
func (MouseExited) Kind() Kind       { return KindMouseExited }
func (ScrollWheel) Kind() Kind       { return KindScrollWheel }
func (KeyDown) Kind() Kind           { return KindKeyDown }
func (KeyUp) Kind() Kind             { return KindKeyUp }
func (FlagsChanged) Kind() Kind      { return KindFlagsChanged }
func (AppActivated) Kind() Kind      { return KindAppActivated }
func (AppDeactivated) Kind() Kind    { return KindAppDeactivated }
func (WindowBecameKey) Kind() Kind   { return KindWindowBecameKey }
func (WindowResignedKey) Kind() Kind { return KindWindowResignedKey }
func (WindowClosed) Kind() Kind      { return KindWindowClosed }
func (WindowShown) Kind() Kind       { return KindWindowShown }
func (WindowHidden) Kind() Kind      { return KindWindowHidden }
func (Unknown) Kind() Kind           { return KindUnknown }

// Describe renders ev on one line for logs and the inspector.
func Describe(ev NativeEvent) string {
	h := ev.header()
	prefix := fmt.Sprintf("%s win=%#x t=%d", ev.Kind(), h.Window, h.Time)
	switch e := ev.(type) {
	case MouseDown:
		return fmt.Sprintf("%s button=%d at=(%.0f,%.0f)", prefix, e.Button, e.X, e.Y)
	case MouseUp:
		return fmt.Sprintf("%s button=%d at=(%.0f,%.0f)", prefix, e.Button, e.X, e.Y)
	case MouseMoved:
		return fmt.Sprintf("%s at=(%.0f,%.0f) buttons=%#x", prefix, e.X, e.Y, e.Buttons)
	case MouseEntered:
		return fmt.Sprintf("%s at=(%.0f,%.0f)", prefix, e.X, e.Y)
	case MouseExited:
		return fmt.Sprintf("%s at=(%.0f,%.0f)", prefix, e.X, e.Y)
	case ScrollWheel:
		return fmt.Sprintf("%s delta=(%.2f,%.2f)", prefix, e.DeltaX, e.DeltaY)
	case KeyDown:
		return fmt.Sprintf("%s keycode=%#x flags=%s", prefix, e.Keycode, e.Flags)
	case KeyUp:
		return fmt.Sprintf("%s keycode=%#x flags=%s", prefix, e.Keycode, e.Flags)
	case FlagsChanged:
		return fmt.Sprintf("%s keycode=%#x flags=%s", prefix, e.Keycode, e.Flags)
	case Unknown:
		return fmt.Sprintf("%s type=%d", prefix, e.Type)
	}
	return prefix
}
