// Package trace records and replays Quartz native events.
//
// A trace starts with the magic "GDKT" and a format version byte. Each
// event follows as a 4-byte big-endian length prefix and a protobuf
// wire-format message with the fields below.
package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/bnema/gdkevents/internal/backend/quartz"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	magic   = "GDKT"
	version = 1

	// maxRecord bounds a single encoded event.
	maxRecord = 4096
)

// Field numbers of an event record.
const (
	fieldKind    protowire.Number = 1
	fieldWindow  protowire.Number = 2
	fieldTime    protowire.Number = 3
	fieldX       protowire.Number = 4
	fieldY       protowire.Number = 5
	fieldScreenX protowire.Number = 6
	fieldScreenY protowire.Number = 7
	fieldFlags   protowire.Number = 8
	fieldButtons protowire.Number = 9
	fieldButton  protowire.Number = 10
	fieldDeltaX  protowire.Number = 11
	fieldDeltaY  protowire.Number = 12
	fieldKeycode protowire.Number = 13
	fieldRepeat  protowire.Number = 14
	fieldNSType  protowire.Number = 15
)

var (
	ErrBadMagic     = errors.New("trace: not a native event trace")
	ErrVersion      = errors.New("trace: unsupported format version")
	ErrUnknownField = errors.New("trace: unknown field")
	ErrUnknownKind  = errors.New("trace: unknown event kind")
	ErrTooLarge     = errors.New("trace: record too large")
)

// record is the flattened form of every native event variant.
type record struct {
	kind             quartz.Kind
	window           uint64
	time             uint32
	x, y             float64
	screenX, screenY float64
	flags            uint64
	buttons          uint64
	button           int64
	deltaX, deltaY   float64
	keycode          uint16
	repeat           bool
	nsType           uint64
}

func flatten(ev quartz.NativeEvent) record {
	h := quartz.HeaderOf(ev)
	r := record{kind: ev.Kind(), window: uint64(h.Window), time: h.Time}
	pointer := func(p quartz.Pointer) {
		r.x, r.y = p.X, p.Y
		r.screenX, r.screenY = p.ScreenX, p.ScreenY
		r.flags = uint64(p.Flags)
		r.buttons = uint64(p.Buttons)
	}
	switch e := ev.(type) {
	case quartz.MouseDown:
		pointer(e.Pointer)
		r.button = int64(e.Button)
	case quartz.MouseUp:
		pointer(e.Pointer)
		r.button = int64(e.Button)
	case quartz.MouseMoved:
		pointer(e.Pointer)
	case quartz.MouseEntered:
		pointer(e.Pointer)
	case quartz.MouseExited:
		pointer(e.Pointer)
	case quartz.ScrollWheel:
		pointer(e.Pointer)
		r.deltaX, r.deltaY = e.DeltaX, e.DeltaY
	case quartz.KeyDown:
		r.keycode, r.flags, r.repeat = e.Keycode, uint64(e.Flags), e.Repeat
	case quartz.KeyUp:
		r.keycode, r.flags = e.Keycode, uint64(e.Flags)
	case quartz.FlagsChanged:
		r.keycode, r.flags = e.Keycode, uint64(e.Flags)
	case quartz.Unknown:
		r.nsType = uint64(e.Type)
	}
	return r
}

func (r record) event() (quartz.NativeEvent, error) {
	h := quartz.Header{Window: uintptr(r.window), Time: r.time}
	p := quartz.Pointer{
		X: r.x, Y: r.y,
		ScreenX: r.screenX, ScreenY: r.screenY,
		Flags:   quartz.ModifierFlags(r.flags),
		Buttons: uint(r.buttons),
	}
	flags := quartz.ModifierFlags(r.flags)
	switch r.kind {
	case quartz.KindMouseDown:
		return quartz.MouseDown{Header: h, Pointer: p, Button: int(r.button)}, nil
	case quartz.KindMouseUp:
		return quartz.MouseUp{Header: h, Pointer: p, Button: int(r.button)}, nil
	case quartz.KindMouseMoved:
		return quartz.MouseMoved{Header: h, Pointer: p}, nil
	case quartz.KindMouseEntered:
		return quartz.MouseEntered{Header: h, Pointer: p}, nil
	case quartz.KindMouseExited:
		return quartz.MouseExited{Header: h, Pointer: p}, nil
	case quartz.KindScrollWheel:
		return quartz.ScrollWheel{Header: h, Pointer: p, DeltaX: r.deltaX, DeltaY: r.deltaY}, nil
	case quartz.KindKeyDown:
		return quartz.KeyDown{Header: h, Keycode: r.keycode, Flags: flags, Repeat: r.repeat}, nil
	case quartz.KindKeyUp:
		return quartz.KeyUp{Header: h, Keycode: r.keycode, Flags: flags}, nil
	case quartz.KindFlagsChanged:
		return quartz.FlagsChanged{Header: h, Keycode: r.keycode, Flags: flags}, nil
	case quartz.KindAppActivated:
		return quartz.AppActivated{Header: h}, nil
	case quartz.KindAppDeactivated:
		return quartz.AppDeactivated{Header: h}, nil
	case quartz.KindWindowBecameKey:
		return quartz.WindowBecameKey{Header: h}, nil
	case quartz.KindWindowResignedKey:
		return quartz.WindowResignedKey{Header: h}, nil
	case quartz.KindWindowClosed:
		return quartz.WindowClosed{Header: h}, nil
	case quartz.KindWindowShown:
		return quartz.WindowShown{Header: h}, nil
	case quartz.KindWindowHidden:
		return quartz.WindowHidden{Header: h}, nil
	case quartz.KindUnknown:
		return quartz.Unknown{Header: h, Type: uint(r.nsType)}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, r.kind)
}

// Marshal encodes one event record. Zero fields are omitted.
func Marshal(ev quartz.NativeEvent) []byte {
	r := flatten(ev)
	var b []byte
	varint := func(num protowire.Number, v uint64) {
		if v == 0 {
			return
		}
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, v)
	}
	double := func(num protowire.Number, v float64) {
		if v == 0 {
			return
		}
		b = protowire.AppendTag(b, num, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	}

	varint(fieldKind, uint64(r.kind))
	varint(fieldWindow, r.window)
	varint(fieldTime, uint64(r.time))
	double(fieldX, r.x)
	double(fieldY, r.y)
	double(fieldScreenX, r.screenX)
	double(fieldScreenY, r.screenY)
	varint(fieldFlags, r.flags)
	varint(fieldButtons, r.buttons)
	varint(fieldButton, protowire.EncodeZigZag(r.button))
	double(fieldDeltaX, r.deltaX)
	double(fieldDeltaY, r.deltaY)
	varint(fieldKeycode, uint64(r.keycode))
	varint(fieldRepeat, protowire.EncodeBool(r.repeat))
	varint(fieldNSType, r.nsType)
	return b
}

// Unmarshal decodes one event record.
func Unmarshal(b []byte) (quartz.NativeEvent, error) {
	var r record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("trace: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		var v uint64
		switch typ {
		case protowire.VarintType:
			v, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			v, n = protowire.ConsumeFixed64(b)
		default:
			return nil, fmt.Errorf("%w: %d has wire type %d", ErrUnknownField, num, typ)
		}
		if n < 0 {
			return nil, fmt.Errorf("trace: field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldKind:
			r.kind = quartz.Kind(v)
		case fieldWindow:
			r.window = v
		case fieldTime:
			r.time = uint32(v)
		case fieldX:
			r.x = math.Float64frombits(v)
		case fieldY:
			r.y = math.Float64frombits(v)
		case fieldScreenX:
			r.screenX = math.Float64frombits(v)
		case fieldScreenY:
			r.screenY = math.Float64frombits(v)
		case fieldFlags:
			r.flags = v
		case fieldButtons:
			r.buttons = v
		case fieldButton:
			r.button = protowire.DecodeZigZag(v)
		case fieldDeltaX:
			r.deltaX = math.Float64frombits(v)
		case fieldDeltaY:
			r.deltaY = math.Float64frombits(v)
		case fieldKeycode:
			r.keycode = uint16(v)
		case fieldRepeat:
			r.repeat = protowire.DecodeBool(v)
		case fieldNSType:
			r.nsType = v
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownField, num)
		}
	}
	return r.event()
}

// IsTrace reports whether data starts with a trace header.
func IsTrace(data []byte) bool {
	return len(data) >= len(magic) && string(data[:len(magic)]) == magic
}

// Writer appends events to a trace.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter writes the trace header to w.
func NewWriter(w io.Writer) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return nil, fmt.Errorf("failed to write trace header: %w", err)
	}
	if err := bw.WriteByte(version); err != nil {
		return nil, fmt.Errorf("failed to write trace header: %w", err)
	}
	return &Writer{w: bw}, nil
}

// Write appends ev.
func (w *Writer) Write(ev quartz.NativeEvent) error {
	data := Marshal(ev)
	if len(data) > maxRecord {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	if _, err := w.w.Write(length[:]); err != nil {
		return fmt.Errorf("failed to write length: %w", err)
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of events written.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes buffered events to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Reader reads events from a trace.
type Reader struct {
	r *bufio.Reader
}

// NewReader checks the trace header of r.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	header := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(br, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadMagic
		}
		return nil, fmt.Errorf("failed to read trace header: %w", err)
	}
	if string(header[:len(magic)]) != magic {
		return nil, ErrBadMagic
	}
	if header[len(magic)] != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, header[len(magic)])
	}
	return &Reader{r: br}, nil
}

// Next returns the next event, or io.EOF after the last one.
func (r *Reader) Next() (quartz.NativeEvent, error) {
	var length [4]byte
	if _, err := io.ReadFull(r.r, length[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read length: %w", err)
	}
	n := binary.BigEndian.Uint32(length[:])
	if n > maxRecord {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}
	return Unmarshal(data)
}

// ReadAll reads every event of a trace.
func ReadAll(r io.Reader) ([]quartz.NativeEvent, error) {
	tr, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	var out []quartz.NativeEvent
	for {
		ev, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("event %d: %w", len(out), err)
		}
		out = append(out, ev)
	}
}

// WriteAll writes a complete trace of evs to w.
func WriteAll(w io.Writer, evs []quartz.NativeEvent) error {
	tw, err := NewWriter(w)
	if err != nil {
		return err
	}
	for i, ev := range evs {
		if err := tw.Write(ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return tw.Flush()
}
