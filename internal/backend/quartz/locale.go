package quartz

import (
	"fmt"

	"github.com/bnema/gdkevents/internal/events"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// LocaleEncoder converts characters to the locale charset for the legacy
// string field of key events.
type LocaleEncoder struct {
	charset string
	enc     *encoding.Encoder
}

// NewLocaleEncoder looks up an IANA charset name such as "UTF-8" or
// "ISO-8859-1".
func NewLocaleEncoder(charset string) (*LocaleEncoder, error) {
	e, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown locale charset %q: %w", charset, err)
	}
	if e == nil {
		return nil, fmt.Errorf("locale charset %q is not supported", charset)
	}
	name, err := ianaindex.IANA.Name(e)
	if err != nil {
		name = charset
	}
	return &LocaleEncoder{charset: name, enc: e.NewEncoder()}, nil
}

// Charset returns the canonical name of the charset.
func (l *LocaleEncoder) Charset() string {
	return l.charset
}

// Encode returns r in the locale charset. It fails when the charset cannot
// represent r.
func (l *LocaleEncoder) Encode(r rune) (string, bool) {
	s, err := l.enc.String(string(r))
	if err != nil {
		return "", false
	}
	return s, true
}

// KeyString is the text a key event carries: the keyval's character in the
// locale charset, with fixed strings for Escape and Return.
func (l *LocaleEncoder) KeyString(keyval uint32) string {
	if r := events.KeyvalToUnicode(keyval); r != 0 {
		if s, ok := l.Encode(r); ok {
			return s
		}
	}
	switch keyval {
	case events.KeyEscape:
		return "\033"
	case events.KeyReturn, events.KeyKPEnter:
		return "\r"
	}
	return ""
}
