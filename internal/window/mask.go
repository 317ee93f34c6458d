package window

import (
	"strings"

	"github.com/jezek/xgb/xproto"
)

// EventMask selects the event categories a window wants delivered.
// Bits share their values with the X11 core protocol.
type EventMask uint32

const (
	KeyPressMask          EventMask = xproto.EventMaskKeyPress
	KeyReleaseMask        EventMask = xproto.EventMaskKeyRelease
	ButtonPressMask       EventMask = xproto.EventMaskButtonPress
	ButtonReleaseMask     EventMask = xproto.EventMaskButtonRelease
	EnterNotifyMask       EventMask = xproto.EventMaskEnterWindow
	LeaveNotifyMask       EventMask = xproto.EventMaskLeaveWindow
	PointerMotionMask     EventMask = xproto.EventMaskPointerMotion
	PointerMotionHintMask EventMask = xproto.EventMaskPointerMotionHint
	Button1MotionMask     EventMask = xproto.EventMaskButton1Motion
	Button2MotionMask     EventMask = xproto.EventMaskButton2Motion
	Button3MotionMask     EventMask = xproto.EventMaskButton3Motion
	Button4MotionMask     EventMask = xproto.EventMaskButton4Motion
	Button5MotionMask     EventMask = xproto.EventMaskButton5Motion
	ButtonMotionMask      EventMask = xproto.EventMaskButtonMotion
	ExposureMask          EventMask = xproto.EventMaskExposure
	StructureMask         EventMask = xproto.EventMaskStructureNotify
	FocusChangeMask       EventMask = xproto.EventMaskFocusChange

	// ScrollMask has no X11 counterpart; X11 reports wheels as buttons 4-7.
	ScrollMask EventMask = 1 << 25

	AllEventsMask EventMask = KeyPressMask | KeyReleaseMask |
		ButtonPressMask | ButtonReleaseMask |
		EnterNotifyMask | LeaveNotifyMask |
		PointerMotionMask | ButtonMotionMask |
		Button1MotionMask | Button2MotionMask | Button3MotionMask |
		Button4MotionMask | Button5MotionMask |
		ExposureMask | StructureMask | FocusChangeMask | ScrollMask
)

var maskNames = []struct {
	mask EventMask
	name string
}{
	{KeyPressMask, "key-press"},
	{KeyReleaseMask, "key-release"},
	{ButtonPressMask, "button-press"},
	{ButtonReleaseMask, "button-release"},
	{EnterNotifyMask, "enter"},
	{LeaveNotifyMask, "leave"},
	{PointerMotionMask, "motion"},
	{PointerMotionHintMask, "motion-hint"},
	{Button1MotionMask, "button1-motion"},
	{Button2MotionMask, "button2-motion"},
	{Button3MotionMask, "button3-motion"},
	{Button4MotionMask, "button4-motion"},
	{Button5MotionMask, "button5-motion"},
	{ButtonMotionMask, "button-motion"},
	{ExposureMask, "exposure"},
	{StructureMask, "structure"},
	{FocusChangeMask, "focus"},
	{ScrollMask, "scroll"},
}

// Has reports whether every bit of other is set in m.
func (m EventMask) Has(other EventMask) bool {
	return m&other == other
}

// Any reports whether at least one bit of other is set in m.
func (m EventMask) Any(other EventMask) bool {
	return m&other != 0
}

func (m EventMask) String() string {
	if m == 0 {
		return "none"
	}
	if m == AllEventsMask {
		return "all"
	}
	var parts []string
	for _, n := range maskNames {
		if m&n.mask != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseEventMask parses a list of mask names as produced by String.
// Unknown names are reported with ok=false.
func ParseEventMask(names []string) (EventMask, bool) {
	var m EventMask
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "all" {
			m |= AllEventsMask
			continue
		}
		found := false
		for _, n := range maskNames {
			if n.name == name {
				m |= n.mask
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return m, true
}
