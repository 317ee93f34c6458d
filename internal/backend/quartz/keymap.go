package quartz

import "github.com/bnema/gdkevents/internal/events"

// Keymap resolves hardware keycodes to keyvals.
type Keymap interface {
	Lookup(keycode uint16, flags ModifierFlags, group uint8) (keyval uint32, ok bool)
}

// MacKeymap is the US ANSI layout. It has a single group.
type MacKeymap struct{}

// Lookup implements Keymap. Shift selects the upper symbol of a key; caps
// lock only affects letters.
func (MacKeymap) Lookup(keycode uint16, flags ModifierFlags, group uint8) (uint32, bool) {
	if sym, ok := usKeys[keycode]; ok {
		upper := flags&FlagShift != 0
		if flags&FlagAlphaShift != 0 && isLetter(sym[0]) {
			upper = !upper
		}
		if upper {
			return uint32(sym[1]), true
		}
		return uint32(sym[0]), true
	}
	if keyval, ok := functionKeys[keycode]; ok {
		return keyval, true
	}
	if m, ok := modifierKeys[keycode]; ok {
		return m.keyval, true
	}
	return events.KeyVoidSymbol, false
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// Printable keys of the ANSI layout: unshifted and shifted symbol, indexed
// by kVK_ANSI_* virtual keycode.
var usKeys = map[uint16][2]rune{
	0x00: {'a', 'A'},
	0x01: {'s', 'S'},
	0x02: {'d', 'D'},
	0x03: {'f', 'F'},
	0x04: {'h', 'H'},
	0x05: {'g', 'G'},
	0x06: {'z', 'Z'},
	0x07: {'x', 'X'},
	0x08: {'c', 'C'},
	0x09: {'v', 'V'},
	0x0b: {'b', 'B'},
	0x0c: {'q', 'Q'},
	0x0d: {'w', 'W'},
	0x0e: {'e', 'E'},
	0x0f: {'r', 'R'},
	0x10: {'y', 'Y'},
	0x11: {'t', 'T'},
	0x12: {'1', '!'},
	0x13: {'2', '@'},
	0x14: {'3', '#'},
	0x15: {'4', '$'},
	0x16: {'6', '^'},
	0x17: {'5', '%'},
	0x18: {'=', '+'},
	0x19: {'9', '('},
	0x1a: {'7', '&'},
	0x1b: {'-', '_'},
	0x1c: {'8', '*'},
	0x1d: {'0', ')'},
	0x1e: {']', '}'},
	0x1f: {'o', 'O'},
	0x20: {'u', 'U'},
	0x21: {'[', '{'},
	0x22: {'i', 'I'},
	0x23: {'p', 'P'},
	0x25: {'l', 'L'},
	0x26: {'j', 'J'},
	0x27: {'\'', '"'},
	0x28: {'k', 'K'},
	0x29: {';', ':'},
	0x2a: {'\\', '|'},
	0x2b: {',', '<'},
	0x2c: {'/', '?'},
	0x2d: {'n', 'N'},
	0x2e: {'m', 'M'},
	0x2f: {'.', '>'},
	0x31: {' ', ' '},
	0x32: {'`', '~'},
}

// Keys producing the same keyval whatever the modifiers.
var functionKeys = map[uint16]uint32{
	0x24: events.KeyReturn,
	0x30: events.KeyTab,
	0x33: events.KeyBackSpace,
	0x35: events.KeyEscape,
	0x41: events.KeyKPDecimal,
	0x43: events.KeyKPMultiply,
	0x45: events.KeyKPAdd,
	0x47: events.KeyNumLock, // keypad clear
	0x4b: events.KeyKPDivide,
	0x4c: events.KeyKPEnter,
	0x4e: events.KeyKPSubtract,
	0x51: events.KeyKPEqual,
	0x52: events.KeyKP0,
	0x53: events.KeyKP0 + 1,
	0x54: events.KeyKP0 + 2,
	0x55: events.KeyKP0 + 3,
	0x56: events.KeyKP0 + 4,
	0x57: events.KeyKP0 + 5,
	0x58: events.KeyKP0 + 6,
	0x59: events.KeyKP0 + 7,
	0x5b: events.KeyKP0 + 8,
	0x5c: events.KeyKP0 + 9,
	0x60: events.KeyF1 + 4,
	0x61: events.KeyF1 + 5,
	0x62: events.KeyF1 + 6,
	0x63: events.KeyF1 + 2,
	0x64: events.KeyF1 + 7,
	0x65: events.KeyF1 + 8,
	0x67: events.KeyF1 + 10,
	0x6d: events.KeyF1 + 9,
	0x6f: events.KeyF1 + 11,
	0x72: events.KeyHelp,
	0x73: events.KeyHome,
	0x74: events.KeyPageUp,
	0x75: events.KeyDelete,
	0x76: events.KeyF1 + 3,
	0x77: events.KeyEnd,
	0x78: events.KeyF1 + 1,
	0x79: events.KeyPageDown,
	0x7a: events.KeyF1,
	0x7b: events.KeyLeft,
	0x7c: events.KeyRight,
	0x7d: events.KeyDown,
	0x7e: events.KeyUp,
}

type modifierKey struct {
	flag   ModifierFlags
	keyval uint32
}

// Modifier keys report through FlagsChanged; flag is the bit they drive.
var modifierKeys = map[uint16]modifierKey{
	0x36: {FlagCommand, events.KeyMetaR},
	0x37: {FlagCommand, events.KeyMetaL},
	0x38: {FlagShift, events.KeyShiftL},
	0x39: {FlagAlphaShift, events.KeyCapsLock},
	0x3a: {FlagAlternate, events.KeyAltL},
	0x3b: {FlagControl, events.KeyControlL},
	0x3c: {FlagShift, events.KeyShiftR},
	0x3d: {FlagAlternate, events.KeyAltR},
	0x3e: {FlagControl, events.KeyControlR},
	0x3f: {FlagFunction, events.KeyVoidSymbol},
}

// IsModifierKeycode reports whether keycode is a modifier key.
func IsModifierKeycode(keycode uint16) bool {
	_, ok := modifierKeys[keycode]
	return ok
}
