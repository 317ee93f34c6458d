package events

// Keyvals are X11 keysym values.
const (
	KeyVoidSymbol uint32 = 0xffffff

	KeyBackSpace  uint32 = 0xff08
	KeyTab        uint32 = 0xff09
	KeyReturn     uint32 = 0xff0d
	KeyEscape     uint32 = 0xff1b
	KeyDelete     uint32 = 0xffff
	KeyHome       uint32 = 0xff50
	KeyLeft       uint32 = 0xff51
	KeyUp         uint32 = 0xff52
	KeyRight      uint32 = 0xff53
	KeyDown       uint32 = 0xff54
	KeyPageUp     uint32 = 0xff55
	KeyPageDown   uint32 = 0xff56
	KeyEnd        uint32 = 0xff57
	KeyHelp       uint32 = 0xff6a
	KeyNumLock    uint32 = 0xff7f
	KeyKPEnter    uint32 = 0xff8d
	KeyKPEqual    uint32 = 0xffbd
	KeyKPMultiply uint32 = 0xffaa
	KeyKPAdd      uint32 = 0xffab
	KeyKPSubtract uint32 = 0xffad
	KeyKPDecimal  uint32 = 0xffae
	KeyKPDivide   uint32 = 0xffaf
	KeyKP0        uint32 = 0xffb0
	KeyF1         uint32 = 0xffbe

	KeyShiftL   uint32 = 0xffe1
	KeyShiftR   uint32 = 0xffe2
	KeyControlL uint32 = 0xffe3
	KeyControlR uint32 = 0xffe4
	KeyCapsLock uint32 = 0xffe5
	KeyMetaL    uint32 = 0xffe7
	KeyMetaR    uint32 = 0xffe8
	KeyAltL     uint32 = 0xffe9
	KeyAltR     uint32 = 0xffea
	KeySuperL   uint32 = 0xffeb
	KeySuperR   uint32 = 0xffec

	KeySpace uint32 = 0x020
)

// KeyvalToUnicode returns the character a keyval produces, or 0 when it
// has no printable form.
func KeyvalToUnicode(keyval uint32) rune {
	switch {
	case keyval >= 0x20 && keyval <= 0x7e, keyval >= 0xa0 && keyval <= 0xff:
		// Latin-1 keysyms coincide with their code points.
		return rune(keyval)
	case keyval&0xff000000 == 0x01000000:
		// Directly encoded Unicode keysyms.
		r := rune(keyval & 0x00ffffff)
		if r < 0x20 || (r >= 0x7f && r < 0xa0) {
			return 0
		}
		return r
	}
	switch keyval {
	case KeyKPMultiply:
		return '*'
	case KeyKPAdd:
		return '+'
	case KeyKPSubtract:
		return '-'
	case KeyKPDecimal:
		return '.'
	case KeyKPDivide:
		return '/'
	case KeyKPEqual:
		return '='
	}
	if keyval >= KeyKP0 && keyval <= KeyKP0+9 {
		return rune('0' + keyval - KeyKP0)
	}
	return 0
}

// UnicodeToKeyval is the inverse of KeyvalToUnicode for printable characters.
func UnicodeToKeyval(r rune) uint32 {
	if (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff) {
		return uint32(r)
	}
	if r < 0x20 || r > 0x10ffff {
		return KeyVoidSymbol
	}
	return 0x01000000 | uint32(r)
}
