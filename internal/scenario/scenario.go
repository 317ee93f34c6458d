// Package scenario loads YAML descriptions of a window tree and a script of
// native events to run through the Quartz backend.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/bnema/gdkevents/internal/backend/quartz"
	"github.com/bnema/gdkevents/internal/window"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownWindow = errors.New("unknown window")
	ErrUnknownStep   = errors.New("unknown step type")
)

// DefaultTimeStep is how far the clock advances for steps without a time.
const DefaultTimeStep = 20

// Scenario is the YAML document.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// ScreenHeight overrides the configured screen height when set.
	ScreenHeight float64      `yaml:"screen_height"`
	Windows      []WindowSpec `yaml:"windows"`
	Steps        []StepSpec   `yaml:"steps"`
}

// WindowSpec describes a window and its children. Toplevels need a native
// handle; their rect is in screen coordinates, top-left origin. Children
// are positioned relative to their parent.
type WindowSpec struct {
	Name     string       `yaml:"name"`
	Native   uint64       `yaml:"native"`
	Rect     [4]float64   `yaml:"rect"`
	Mask     []string     `yaml:"mask"`
	Hidden   bool         `yaml:"hidden"`
	Children []WindowSpec `yaml:"children"`
}

// StepSpec is one scripted step: a native event (type is a quartz kind
// name such as "mouse-down") or a display action such as "pointer-grab".
type StepSpec struct {
	Type   string `yaml:"type"`
	Window string `yaml:"window"`
	Time   uint32 `yaml:"time"`

	// At is relative to Window, top-left origin.
	At      [2]float64 `yaml:"at"`
	Button  int        `yaml:"button"`
	Buttons uint       `yaml:"buttons"`
	Flags   []string   `yaml:"flags"`
	Delta   [2]float64 `yaml:"delta"`
	Keycode uint16     `yaml:"keycode"`
	Repeat  bool       `yaml:"repeat"`
	NSType  uint       `yaml:"ns_type"`

	OwnerEvents bool     `yaml:"owner_events"`
	Mask        []string `yaml:"mask"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario document. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(sc.Windows) == 0 {
		return nil, fmt.Errorf("parsing scenario: no windows")
	}
	return &sc, nil
}

// Windows is the tree built from a scenario, with its windows by name.
type Windows struct {
	Tree  *window.Tree
	names map[string]window.Handle
}

// Handle returns the window called name.
func (w *Windows) Handle(name string) (window.Handle, error) {
	h, ok := w.names[name]
	if !ok {
		return window.None, fmt.Errorf("%w %q", ErrUnknownWindow, name)
	}
	return h, nil
}

// BuildWindows creates the window tree.
func (s *Scenario) BuildWindows() (*Windows, error) {
	ws := &Windows{Tree: window.NewTree(), names: make(map[string]window.Handle)}
	for _, spec := range s.Windows {
		if spec.Native == 0 {
			return nil, fmt.Errorf("toplevel %q needs a native handle", spec.Name)
		}
		if err := ws.add(window.None, spec); err != nil {
			return nil, err
		}
	}
	return ws, nil
}

func (w *Windows) add(parent window.Handle, spec WindowSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("window without a name")
	}
	if _, dup := w.names[spec.Name]; dup {
		return fmt.Errorf("duplicate window name %q", spec.Name)
	}
	mask := window.AllEventsMask
	if spec.Mask != nil {
		m, ok := window.ParseEventMask(spec.Mask)
		if !ok {
			return fmt.Errorf("window %q: bad event mask %v", spec.Name, spec.Mask)
		}
		mask = m
	}
	rect := window.Rect{X: spec.Rect[0], Y: spec.Rect[1], Width: spec.Rect[2], Height: spec.Rect[3]}

	var h window.Handle
	var err error
	if parent.IsNone() {
		h, err = w.Tree.NewToplevel(uintptr(spec.Native), rect, mask, spec.Name)
	} else {
		h, err = w.Tree.NewChild(parent, uintptr(spec.Native), rect, mask, spec.Name)
	}
	if err != nil {
		return fmt.Errorf("window %q: %w", spec.Name, err)
	}
	if spec.Hidden {
		w.Tree.Hide(h)
	}
	w.names[spec.Name] = h
	for _, c := range spec.Children {
		if err := w.add(h, c); err != nil {
			return err
		}
	}
	return nil
}

// Compile turns the step script into native events and actions. Pointer
// positions are converted to Cocoa coordinates with screenHeight.
func (s *Scenario) Compile(ws *Windows, screenHeight float64) ([]Step, error) {
	var steps []Step
	var clock uint32
	for i, spec := range s.Steps {
		if spec.Time != 0 {
			clock = spec.Time
		} else {
			clock += DefaultTimeStep
		}
		step, err := compileStep(ws, spec, clock, screenHeight)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, spec.Type, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func compileStep(ws *Windows, spec StepSpec, time uint32, screenHeight float64) (Step, error) {
	if kind, ok := actionKinds[spec.Type]; ok {
		return compileAction(ws, spec, kind, time)
	}
	kind, ok := quartz.ParseKind(spec.Type)
	if !ok {
		return Step{}, fmt.Errorf("%w %q", ErrUnknownStep, spec.Type)
	}

	flags, ok := quartz.ParseModifierFlags(spec.Flags)
	if !ok {
		return Step{}, fmt.Errorf("bad modifier flags %v", spec.Flags)
	}

	h := quartz.Header{Time: time}
	var p quartz.Pointer
	switch kind {
	case quartz.KindAppActivated, quartz.KindAppDeactivated:
	default:
		w, err := ws.Handle(spec.Window)
		if err != nil {
			return Step{}, err
		}
		top := ws.Tree.Toplevel(w)
		h.Window = ws.Tree.Native(top)

		// Position relative to the toplevel, then flip.
		ox, oy := ws.Tree.RootOrigin(w)
		tx, ty := ws.Tree.RootOrigin(top)
		x := spec.At[0] + ox - tx
		y := spec.At[1] + oy - ty
		height := ws.Tree.Geometry(top).Height
		p = quartz.Pointer{
			X:       x,
			Y:       height - y,
			ScreenX: tx + x,
			ScreenY: screenHeight - (ty + y),
			Flags:   flags,
			Buttons: spec.Buttons,
		}
	}

	var ev quartz.NativeEvent
	switch kind {
	case quartz.KindMouseDown:
		ev = quartz.MouseDown{Header: h, Pointer: p, Button: spec.Button}
	case quartz.KindMouseUp:
		ev = quartz.MouseUp{Header: h, Pointer: p, Button: spec.Button}
	case quartz.KindMouseMoved:
		ev = quartz.MouseMoved{Header: h, Pointer: p}
	case quartz.KindMouseEntered:
		ev = quartz.MouseEntered{Header: h, Pointer: p}
	case quartz.KindMouseExited:
		ev = quartz.MouseExited{Header: h, Pointer: p}
	case quartz.KindScrollWheel:
		ev = quartz.ScrollWheel{Header: h, Pointer: p, DeltaX: spec.Delta[0], DeltaY: spec.Delta[1]}
	case quartz.KindKeyDown:
		ev = quartz.KeyDown{Header: h, Keycode: spec.Keycode, Flags: flags, Repeat: spec.Repeat}
	case quartz.KindKeyUp:
		ev = quartz.KeyUp{Header: h, Keycode: spec.Keycode, Flags: flags}
	case quartz.KindFlagsChanged:
		ev = quartz.FlagsChanged{Header: h, Keycode: spec.Keycode, Flags: flags}
	case quartz.KindAppActivated:
		ev = quartz.AppActivated{Header: h}
	case quartz.KindAppDeactivated:
		ev = quartz.AppDeactivated{Header: h}
	case quartz.KindWindowBecameKey:
		ev = quartz.WindowBecameKey{Header: h}
	case quartz.KindWindowResignedKey:
		ev = quartz.WindowResignedKey{Header: h}
	case quartz.KindWindowClosed:
		ev = quartz.WindowClosed{Header: h}
	case quartz.KindWindowShown:
		ev = quartz.WindowShown{Header: h}
	case quartz.KindWindowHidden:
		ev = quartz.WindowHidden{Header: h}
	default:
		ev = quartz.Unknown{Header: h, Type: spec.NSType}
	}
	return Step{Native: ev}, nil
}

func compileAction(ws *Windows, spec StepSpec, kind ActionKind, time uint32) (Step, error) {
	a := Action{Kind: kind, Time: time, OwnerEvents: spec.OwnerEvents}
	if spec.Window != "" {
		w, err := ws.Handle(spec.Window)
		if err != nil {
			return Step{}, err
		}
		a.Window = w
	} else if kind.needsWindow() {
		return Step{}, fmt.Errorf("%s needs a window", kind)
	}
	if spec.Mask != nil {
		m, ok := window.ParseEventMask(spec.Mask)
		if !ok {
			return Step{}, fmt.Errorf("bad event mask %v", spec.Mask)
		}
		a.Mask = m
	}
	return Step{Action: &a}, nil
}
