// Package events translates platform input into platform-neutral events.
//
// A Display is the event translation context of one display connection. It
// owns the event queue, the filter chains, pointer and keyboard grab state,
// the window currently under the pointer and the keyboard focus window.
// Backends decode their native events into an Input and hand them to
// Display.Translate; the application drains the queue with NextEvent.
//
// Everything here runs on the thread that pumps the native event loop, so
// nothing is locked. Filters may re-enter the Display (queue events, grab,
// ungrab) while an event is being translated; grab state is re-read at every
// decision point.
package events

import (
	"fmt"
	"strings"

	"github.com/bnema/gdkevents/internal/window"
	"github.com/jezek/xgb/xproto"
)

// Kind identifies the variant of an Event.
type Kind int

const (
	Nothing Kind = iota
	Delete
	MotionNotify
	ButtonPress
	DoubleButtonPress
	TripleButtonPress
	ButtonRelease
	KeyPress
	KeyRelease
	EnterNotify
	LeaveNotify
	FocusChange
	Map
	Unmap
	Scroll
	GrabBroken
)

var kindNames = [...]string{
	Nothing:           "nothing",
	Delete:            "delete",
	MotionNotify:      "motion",
	ButtonPress:       "button-press",
	DoubleButtonPress: "2button-press",
	TripleButtonPress: "3button-press",
	ButtonRelease:     "button-release",
	KeyPress:          "key-press",
	KeyRelease:        "key-release",
	EnterNotify:       "enter",
	LeaveNotify:       "leave",
	FocusChange:       "focus-change",
	Map:               "map",
	Unmap:             "unmap",
	Scroll:            "scroll",
	GrabBroken:        "grab-broken",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsButtonPress reports whether k is a single, double or triple press.
func (k Kind) IsButtonPress() bool {
	return k == ButtonPress || k == DoubleButtonPress || k == TripleButtonPress
}

// ModifierType is the modifier and pointer button state carried by input
// events. Bit values are those of the X11 core protocol.
type ModifierType uint32

const (
	ShiftMask   ModifierType = xproto.ModMaskShift
	LockMask    ModifierType = xproto.ModMaskLock
	ControlMask ModifierType = xproto.ModMaskControl
	Mod1Mask    ModifierType = xproto.ModMask1
	Mod2Mask    ModifierType = xproto.ModMask2
	Mod3Mask    ModifierType = xproto.ModMask3
	Mod4Mask    ModifierType = xproto.ModMask4
	Mod5Mask    ModifierType = xproto.ModMask5
	Button1Mask ModifierType = xproto.ButtonMask1
	Button2Mask ModifierType = xproto.ButtonMask2
	Button3Mask ModifierType = xproto.ButtonMask3
	Button4Mask ModifierType = xproto.ButtonMask4
	Button5Mask ModifierType = xproto.ButtonMask5

	AllButtonsMask = Button1Mask | Button2Mask | Button3Mask | Button4Mask | Button5Mask
)

// ButtonMask returns the state bit for pointer button n, or 0 for buttons
// without one.
func ButtonMask(n uint) ModifierType {
	if n < 1 || n > 5 {
		return 0
	}
	return Button1Mask << (n - 1)
}

func (m ModifierType) String() string {
	names := []struct {
		bit  ModifierType
		name string
	}{
		{ShiftMask, "shift"}, {LockMask, "lock"}, {ControlMask, "control"},
		{Mod1Mask, "mod1"}, {Mod2Mask, "mod2"}, {Mod3Mask, "mod3"},
		{Mod4Mask, "mod4"}, {Mod5Mask, "mod5"},
		{Button1Mask, "button1"}, {Button2Mask, "button2"}, {Button3Mask, "button3"},
		{Button4Mask, "button4"}, {Button5Mask, "button5"},
	}
	var parts []string
	for _, n := range names {
		if m&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "|")
}

// CrossingDetail describes the hierarchy relationship behind an enter or
// leave event.
type CrossingDetail int

const (
	DetailAncestor         CrossingDetail = xproto.NotifyDetailAncestor
	DetailVirtual          CrossingDetail = xproto.NotifyDetailVirtual
	DetailInferior         CrossingDetail = xproto.NotifyDetailInferior
	DetailNonlinear        CrossingDetail = xproto.NotifyDetailNonlinear
	DetailNonlinearVirtual CrossingDetail = xproto.NotifyDetailNonlinearVirtual
	DetailUnknown          CrossingDetail = 5
)

func (d CrossingDetail) String() string {
	switch d {
	case DetailAncestor:
		return "ancestor"
	case DetailVirtual:
		return "virtual"
	case DetailInferior:
		return "inferior"
	case DetailNonlinear:
		return "nonlinear"
	case DetailNonlinearVirtual:
		return "nonlinear-virtual"
	case DetailUnknown:
		return "unknown"
	}
	return fmt.Sprintf("detail(%d)", int(d))
}

// CrossingMode tells whether a crossing was caused by pointer motion or by
// a grab starting or ending.
type CrossingMode int

const (
	CrossingNormal CrossingMode = xproto.NotifyModeNormal
	CrossingGrab   CrossingMode = xproto.NotifyModeGrab
	CrossingUngrab CrossingMode = xproto.NotifyModeUngrab
)

func (m CrossingMode) String() string {
	switch m {
	case CrossingNormal:
		return "normal"
	case CrossingGrab:
		return "grab"
	case CrossingUngrab:
		return "ungrab"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ScrollDirection is the discrete direction of a Scroll event.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollLeft
	ScrollRight
)

func (d ScrollDirection) String() string {
	switch d {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	case ScrollLeft:
		return "left"
	case ScrollRight:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// GrabStatus is the result of a grab request.
type GrabStatus int

const (
	GrabSuccess        GrabStatus = xproto.GrabStatusSuccess
	GrabAlreadyGrabbed GrabStatus = xproto.GrabStatusAlreadyGrabbed
	GrabNotViewable    GrabStatus = xproto.GrabStatusNotViewable
)

func (s GrabStatus) String() string {
	switch s {
	case GrabSuccess:
		return "success"
	case GrabAlreadyGrabbed:
		return "already-grabbed"
	case GrabNotViewable:
		return "not-viewable"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// KeyData holds the key-event specific fields.
type KeyData struct {
	Keyval          uint32
	HardwareKeycode uint16
	Group           uint8
	// String is the locale-encoded text of the key, kept for compatibility
	// with clients that predate input methods.
	String     string
	IsModifier bool
}

// CrossingData holds the enter/leave specific fields.
type CrossingData struct {
	Mode      CrossingMode
	Detail    CrossingDetail
	Subwindow window.Handle
	Focus     bool
}

// GrabBrokenData holds the grab-broken specific fields.
type GrabBrokenData struct {
	Keyboard bool
	Implicit bool
	// GrabWindow is the window taking over the grab, or window.None when the
	// grab was broken because the application lost focus.
	GrabWindow window.Handle
}

// Event is the platform-neutral event. Which fields are meaningful depends
// on Kind.
type Event struct {
	Kind      Kind
	Window    window.Handle
	Time      uint32
	SendEvent bool

	X, Y         float64
	XRoot, YRoot float64
	State        ModifierType
	Button       uint
	Direction    ScrollDirection

	Key      KeyData
	Crossing CrossingData
	FocusIn  bool
	Grab     GrabBrokenData
}

func (e *Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s window=%s time=%d", e.Kind, e.Window, e.Time)
	switch e.Kind {
	case MotionNotify:
		fmt.Fprintf(&b, " x=%.1f y=%.1f state=%s", e.X, e.Y, e.State)
	case ButtonPress, DoubleButtonPress, TripleButtonPress, ButtonRelease:
		fmt.Fprintf(&b, " button=%d x=%.1f y=%.1f state=%s", e.Button, e.X, e.Y, e.State)
	case Scroll:
		fmt.Fprintf(&b, " direction=%s x=%.1f y=%.1f", e.Direction, e.X, e.Y)
	case KeyPress, KeyRelease:
		fmt.Fprintf(&b, " keyval=%#x keycode=%d state=%s string=%q", e.Key.Keyval, e.Key.HardwareKeycode, e.State, e.Key.String)
	case EnterNotify, LeaveNotify:
		fmt.Fprintf(&b, " detail=%s mode=%s x=%.1f y=%.1f", e.Crossing.Detail, e.Crossing.Mode, e.X, e.Y)
	case FocusChange:
		fmt.Fprintf(&b, " in=%t", e.FocusIn)
	case GrabBroken:
		fmt.Fprintf(&b, " keyboard=%t implicit=%t grab-window=%s", e.Grab.Keyboard, e.Grab.Implicit, e.Grab.GrabWindow)
	}
	return b.String()
}
