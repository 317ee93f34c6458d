package window

import "fmt"

type slot struct {
	gen       uint32
	used      bool
	destroyed bool
	mapped    bool
	refs      int

	parent   Handle
	children []Handle
	geometry Rect
	mask     EventMask
	native   uintptr
	name     string
}

// Tree owns every window known to a display. It is not safe for concurrent
// use; like the rest of the event pipeline it lives on the thread running
// the native event loop.
type Tree struct {
	slots    []slot
	free     []uint32
	byNative map[uintptr]Handle
}

// NewTree creates an empty hierarchy.
func NewTree() *Tree {
	return &Tree{
		// index 0 is reserved so the zero Handle means "no window"
		slots:    make([]slot, 1),
		byNative: make(map[uintptr]Handle),
	}
}

func (t *Tree) get(h Handle) *slot {
	if h.index == 0 || int(h.index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[h.index]
	if !s.used || s.gen != h.gen {
		return nil
	}
	return s
}

func (t *Tree) alloc() Handle {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		idx = uint32(len(t.slots) - 1) //nolint:gosec // arena size bounded by open windows
	}
	s := &t.slots[idx]
	gen := s.gen + 1
	*s = slot{gen: gen, used: true, mapped: true}
	return Handle{index: idx, gen: gen}
}

func (t *Tree) create(parent Handle, native uintptr, geometry Rect, mask EventMask, name string) (Handle, error) {
	if native != 0 {
		if _, exists := t.byNative[native]; exists {
			return None, fmt.Errorf("native handle %#x already registered", native)
		}
	}
	h := t.alloc()
	s := &t.slots[h.index]
	s.parent = parent
	s.geometry = geometry
	s.mask = mask
	s.native = native
	s.name = name
	if native != 0 {
		t.byNative[native] = h
	}
	return h, nil
}

// NewToplevel registers a toplevel window. Its geometry is in root coordinates.
func (t *Tree) NewToplevel(native uintptr, geometry Rect, mask EventMask, name string) (Handle, error) {
	return t.create(None, native, geometry, mask, name)
}

// NewChild registers a child of parent, stacked above its existing siblings.
// Child windows may share the toplevel's native handle, so native may be 0.
func (t *Tree) NewChild(parent Handle, native uintptr, geometry Rect, mask EventMask, name string) (Handle, error) {
	p := t.get(parent)
	if p == nil || p.destroyed {
		return None, fmt.Errorf("parent %s is not a live window", parent)
	}
	h, err := t.create(parent, native, geometry, mask, name)
	if err != nil {
		return None, err
	}
	// t.slots may have grown; re-fetch the parent.
	p = t.get(parent)
	p.children = append(p.children, h)
	return h, nil
}

// Destroy marks h and all of its descendants destroyed. Destroyed windows
// drop out of native lookups and geometry searches; their slots are recycled
// once the last strong reference is released.
func (t *Tree) Destroy(h Handle) {
	s := t.get(h)
	if s == nil || s.destroyed {
		return
	}
	for _, c := range append([]Handle(nil), s.children...) {
		t.Destroy(c)
	}
	s = t.get(h)
	s.destroyed = true
	s.mapped = false
	if s.native != 0 && t.byNative[s.native] == h {
		delete(t.byNative, s.native)
	}
	if p := t.get(s.parent); p != nil {
		for i, c := range p.children {
			if c == h {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	t.maybeRelease(h)
}

func (t *Tree) maybeRelease(h Handle) {
	s := t.get(h)
	if s == nil || !s.destroyed || s.refs > 0 {
		return
	}
	gen := s.gen
	*s = slot{gen: gen}
	t.free = append(t.free, h.index)
}

// Ref takes a strong reference on h, keeping its slot alive after Destroy.
func (t *Tree) Ref(h Handle) {
	if s := t.get(h); s != nil {
		s.refs++
	}
}

// Unref drops a strong reference taken with Ref.
func (t *Tree) Unref(h Handle) {
	s := t.get(h)
	if s == nil || s.refs == 0 {
		return
	}
	s.refs--
	t.maybeRelease(h)
}

// Refs returns the number of strong references held on h.
func (t *Tree) Refs(h Handle) int {
	if s := t.get(h); s != nil {
		return s.refs
	}
	return 0
}

// Lookup maps a native window handle to the window that owns it.
func (t *Tree) Lookup(native uintptr) (Handle, bool) {
	h, ok := t.byNative[native]
	return h, ok
}

// Exists reports whether h still names an allocated slot, destroyed or not.
func (t *Tree) Exists(h Handle) bool {
	return t.get(h) != nil
}

// IsDestroyed reports whether h is destroyed. Stale handles count as destroyed.
func (t *Tree) IsDestroyed(h Handle) bool {
	s := t.get(h)
	return s == nil || s.destroyed
}

// Parent returns the parent of h; toplevels have none.
func (t *Tree) Parent(h Handle) (Handle, bool) {
	s := t.get(h)
	if s == nil || s.parent.IsNone() {
		return None, false
	}
	return s.parent, true
}

// IsToplevel reports whether h is a live window without a parent.
func (t *Tree) IsToplevel(h Handle) bool {
	s := t.get(h)
	return s != nil && s.parent.IsNone()
}

// Toplevel returns the toplevel ancestor of h (h itself for toplevels).
func (t *Tree) Toplevel(h Handle) Handle {
	for {
		p, ok := t.Parent(h)
		if !ok {
			if t.get(h) == nil {
				return None
			}
			return h
		}
		h = p
	}
}

// Children returns the children of h in stacking order, bottom first.
func (t *Tree) Children(h Handle) []Handle {
	s := t.get(h)
	if s == nil {
		return nil
	}
	return append([]Handle(nil), s.children...)
}

// Geometry returns h's rectangle relative to its parent.
func (t *Tree) Geometry(h Handle) Rect {
	if s := t.get(h); s != nil {
		return s.geometry
	}
	return Rect{}
}

// SetGeometry moves or resizes h.
func (t *Tree) SetGeometry(h Handle, r Rect) {
	if s := t.get(h); s != nil {
		s.geometry = r
	}
}

// EventMask returns the event categories h has selected.
func (t *Tree) EventMask(h Handle) EventMask {
	if s := t.get(h); s != nil && !s.destroyed {
		return s.mask
	}
	return 0
}

// SetEventMask replaces the event categories h wants.
func (t *Tree) SetEventMask(h Handle, m EventMask) {
	if s := t.get(h); s != nil {
		s.mask = m
	}
}

// Native returns the native handle registered for h, or 0.
func (t *Tree) Native(h Handle) uintptr {
	if s := t.get(h); s != nil {
		return s.native
	}
	return 0
}

// Name returns the debugging name of h.
func (t *Tree) Name(h Handle) string {
	s := t.get(h)
	switch {
	case h.IsNone():
		return "none"
	case s == nil:
		return "stale" + h.String()
	case s.name == "":
		return h.String()
	}
	return s.name
}

// Show maps h.
func (t *Tree) Show(h Handle) {
	if s := t.get(h); s != nil && !s.destroyed {
		s.mapped = true
	}
}

// Hide unmaps h.
func (t *Tree) Hide(h Handle) {
	if s := t.get(h); s != nil {
		s.mapped = false
	}
}

// IsMapped reports whether h and all of its ancestors are mapped.
func (t *Tree) IsMapped(h Handle) bool {
	for !h.IsNone() {
		s := t.get(h)
		if s == nil || s.destroyed || !s.mapped {
			return false
		}
		h = s.parent
	}
	return true
}

// RootOrigin returns the root coordinates of h's top-left corner.
func (t *Tree) RootOrigin(h Handle) (x, y float64) {
	for !h.IsNone() {
		s := t.get(h)
		if s == nil {
			break
		}
		x += s.geometry.X
		y += s.geometry.Y
		h = s.parent
	}
	return x, y
}

// ChildAt returns the topmost mapped child of h containing the h-relative
// point (x, y).
func (t *Tree) ChildAt(h Handle, x, y float64) (Handle, bool) {
	s := t.get(h)
	if s == nil {
		return None, false
	}
	for i := len(s.children) - 1; i >= 0; i-- {
		c := t.get(s.children[i])
		if c == nil || c.destroyed || !c.mapped {
			continue
		}
		if c.geometry.Contains(x, y) {
			return s.children[i], true
		}
	}
	return None, false
}

// IsAncestor reports whether a is a strict ancestor of h.
func (t *Tree) IsAncestor(a, h Handle) bool {
	for {
		p, ok := t.Parent(h)
		if !ok {
			return false
		}
		if p == a {
			return true
		}
		h = p
	}
}

// Len returns the number of allocated slots, destroyed windows included.
func (t *Tree) Len() int {
	return len(t.slots) - 1 - len(t.free)
}
