package quartz

import (
	"strings"

	"github.com/bnema/gdkevents/internal/events"
)

// ModifierFlags mirrors NSEventModifierFlags.
type ModifierFlags uint

const (
	FlagAlphaShift ModifierFlags = 1 << 16
	FlagShift      ModifierFlags = 1 << 17
	FlagControl    ModifierFlags = 1 << 18
	FlagAlternate  ModifierFlags = 1 << 19
	FlagCommand    ModifierFlags = 1 << 20
	FlagNumericPad ModifierFlags = 1 << 21
	FlagHelp       ModifierFlags = 1 << 22
	FlagFunction   ModifierFlags = 1 << 23
)

var modifierMap = []struct {
	flag ModifierFlags
	mod  events.ModifierType
	name string
}{
	{FlagAlphaShift, events.LockMask, "caps"},
	{FlagShift, events.ShiftMask, "shift"},
	{FlagControl, events.ControlMask, "control"},
	{FlagAlternate, events.Mod1Mask, "option"},
	{FlagCommand, events.Mod2Mask, "command"},
}

func (f ModifierFlags) String() string {
	var parts []string
	for _, m := range modifierMap {
		if f&m.flag != 0 {
			parts = append(parts, m.name)
		}
	}
	if f&FlagNumericPad != 0 {
		parts = append(parts, "numpad")
	}
	if f&FlagFunction != 0 {
		parts = append(parts, "fn")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseModifierFlags is the inverse of ModifierFlags.String.
func ParseModifierFlags(names []string) (ModifierFlags, bool) {
	var f ModifierFlags
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "none":
			continue
		case "numpad":
			f |= FlagNumericPad
			continue
		case "fn":
			f |= FlagFunction
			continue
		}
		found := false
		for _, m := range modifierMap {
			if m.name == name {
				f |= m.flag
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return f, true
}

func convertModifiers(flags ModifierFlags) events.ModifierType {
	var state events.ModifierType
	for _, m := range modifierMap {
		if flags&m.flag != 0 {
			state |= m.mod
		}
	}
	return state
}

// cocoaButton maps a Cocoa button number to the X11 one: right and middle
// swap places.
func cocoaButton(n int) uint {
	switch n {
	case 0:
		return 1
	case 1:
		return 3
	case 2:
		return 2
	}
	if n < 0 {
		return 0
	}
	return uint(n) + 1
}

// buttonState converts a pressedMouseButtons bitmask into button state bits.
func buttonState(pressed uint) events.ModifierType {
	var state events.ModifierType
	for n := 0; n < 5; n++ {
		if pressed&(1<<n) != 0 {
			state |= events.ButtonMask(cocoaButton(n))
		}
	}
	return state
}

func pointerState(p Pointer) events.ModifierType {
	return convertModifiers(p.Flags) | buttonState(p.Buttons)
}
