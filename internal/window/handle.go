// Package window is the window hierarchy index consumed by the event
// pipeline: an arena of windows addressed by generation-counted handles.
package window

import "fmt"

// Handle is a weak reference to a window in a Tree. A handle outlives the
// window it names; once the window's slot is recycled the generation no
// longer matches and every query treats the handle as "no window".
type Handle struct {
	index uint32
	gen   uint32
}

// None is the handle of no window.
var None Handle

// IsNone reports whether h is the zero handle.
func (h Handle) IsNone() bool {
	return h.index == 0
}

func (h Handle) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}

// Rect is a rectangle in parent-relative (or, for toplevels, root) coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether the parent-relative point lies inside r.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}
