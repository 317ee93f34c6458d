package scenario

import (
	"fmt"

	"github.com/bnema/gdkevents/internal/backend/quartz"
	"github.com/bnema/gdkevents/internal/events"
	"github.com/bnema/gdkevents/internal/logger"
	"github.com/bnema/gdkevents/internal/window"
	"github.com/charmbracelet/log"
)

// ActionKind is a scripted call into the display that does not come from
// a native event.
type ActionKind int

const (
	PointerGrab ActionKind = iota
	PointerUngrab
	KeyboardGrab
	KeyboardUngrab
	BreakGrabs
	SetFocus
	Show
	Hide
	Destroy
)

var actionKinds = map[string]ActionKind{
	"pointer-grab":    PointerGrab,
	"pointer-ungrab":  PointerUngrab,
	"keyboard-grab":   KeyboardGrab,
	"keyboard-ungrab": KeyboardUngrab,
	"break-grabs":     BreakGrabs,
	"set-focus":       SetFocus,
	"show":            Show,
	"hide":            Hide,
	"destroy":         Destroy,
}

func (k ActionKind) String() string {
	for name, kind := range actionKinds {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("action(%d)", int(k))
}

func (k ActionKind) needsWindow() bool {
	switch k {
	case PointerGrab, KeyboardGrab, Show, Hide, Destroy:
		return true
	}
	return false
}

// Action is a compiled display call.
type Action struct {
	Kind        ActionKind
	Window      window.Handle
	Time        uint32
	OwnerEvents bool
	Mask        window.EventMask
}

// Step is either a native event or an action.
type Step struct {
	Native quartz.NativeEvent
	Action *Action
}

// Result is what one step did.
type Result struct {
	Index int
	// Description names the step.
	Description string
	// Consumed is the backend's verdict for native events.
	Consumed bool
	// Status is the grab status for grab actions, empty otherwise.
	Status string
	// Events are the events the display queued during the step.
	Events []*events.Event
}

// Session runs a compiled scenario one step at a time, draining the queue
// after each step.
type Session struct {
	Name    string
	Windows *Windows
	Display *events.Display
	Backend *quartz.Backend

	steps []Step
	pos   int
	log   *log.Logger
}

// Options configure a Session.
type Options struct {
	Settings     events.Settings
	ScreenHeight float64
	Backend      []quartz.Option
	Logger       *log.Logger
}

// NewSession builds the windows and steps of s.
func NewSession(s *Scenario, opts Options) (*Session, error) {
	ws, err := s.BuildWindows()
	if err != nil {
		return nil, err
	}
	height := opts.ScreenHeight
	if s.ScreenHeight > 0 {
		height = s.ScreenHeight
	}
	if height <= 0 {
		height = quartz.DefaultScreenHeight
	}
	steps, err := s.Compile(ws, height)
	if err != nil {
		return nil, err
	}

	l := opts.Logger
	if l == nil {
		l = logger.Named("scenario")
	}
	d := events.NewDisplay(ws.Tree, events.WithSettings(opts.Settings), events.WithLogger(l))
	bopts := append([]quartz.Option{quartz.WithScreenHeight(height), quartz.WithLogger(l)}, opts.Backend...)
	return &Session{
		Name:    s.Name,
		Windows: ws,
		Display: d,
		Backend: quartz.New(d, bopts...),
		steps:   steps,
		log:     l,
	}, nil
}

// UseNatives replaces the remaining script with recorded native events.
func (s *Session) UseNatives(evs []quartz.NativeEvent) {
	steps := make([]Step, len(evs))
	for i, ev := range evs {
		steps[i] = Step{Native: ev}
	}
	s.steps = steps
	s.pos = 0
}

// Natives returns the native events of the script, in order.
func (s *Session) Natives() []quartz.NativeEvent {
	var evs []quartz.NativeEvent
	for _, st := range s.steps {
		if st.Native != nil {
			evs = append(evs, st.Native)
		}
	}
	return evs
}

// Len is the number of steps.
func (s *Session) Len() int { return len(s.steps) }

// Pos is the index of the next step.
func (s *Session) Pos() int { return s.pos }

// Done reports whether every step has run.
func (s *Session) Done() bool { return s.pos >= len(s.steps) }

// Describe names step i.
func (s *Session) Describe(i int) string {
	if i < 0 || i >= len(s.steps) {
		return ""
	}
	st := s.steps[i]
	if st.Native != nil {
		return quartz.Describe(st.Native)
	}
	a := st.Action
	if a.Window.IsNone() {
		return fmt.Sprintf("%s t=%d", a.Kind, a.Time)
	}
	return fmt.Sprintf("%s %s t=%d", a.Kind, s.Windows.Tree.Name(a.Window), a.Time)
}

// Step runs the next step. It returns false when the script is done.
func (s *Session) Step() (Result, bool) {
	if s.Done() {
		return Result{}, false
	}
	i := s.pos
	s.pos++
	st := s.steps[i]
	res := Result{Index: i, Description: s.Describe(i)}
	if st.Native != nil {
		res.Consumed = s.Backend.Process(st.Native)
	} else {
		res.Status = s.apply(*st.Action)
	}
	for ev := s.Display.NextEvent(); ev != nil; ev = s.Display.NextEvent() {
		res.Events = append(res.Events, ev)
		s.Display.Release(ev)
	}
	s.log.Debug("step", "index", i, "step", res.Description, "consumed", res.Consumed, "events", len(res.Events))
	return res, true
}

// Run executes every remaining step.
func (s *Session) Run() []Result {
	var out []Result
	for {
		r, ok := s.Step()
		if !ok {
			return out
		}
		out = append(out, r)
	}
}

func (s *Session) apply(a Action) string {
	d := s.Display
	tree := s.Windows.Tree
	switch a.Kind {
	case PointerGrab:
		return d.PointerGrab(a.Window, a.OwnerEvents, a.Mask, a.Time).String()
	case PointerUngrab:
		d.PointerUngrab(a.Time)
	case KeyboardGrab:
		return d.KeyboardGrab(a.Window, a.OwnerEvents, a.Mask, a.Time).String()
	case KeyboardUngrab:
		d.KeyboardUngrab(a.Time)
	case BreakGrabs:
		d.BreakGrabs(a.Time)
	case SetFocus:
		d.SetFocus(a.Window, a.Time)
	case Show:
		tree.Show(a.Window)
		d.Notify(events.Map, a.Window, a.Time)
	case Hide:
		tree.Hide(a.Window)
		d.Notify(events.Unmap, a.Window, a.Time)
	case Destroy:
		d.Forget(a.Window)
		tree.Destroy(a.Window)
	}
	return ""
}
