package events

import (
	"math"

	"github.com/bnema/gdkevents/internal/window"
)

// clickState tracks consecutive presses for multi-click detection.
type clickState struct {
	window window.Handle
	button uint
	time   uint32
	x, y   float64
	count  int
}

// press records a button press and returns its click count: 1, 2 or 3.
// A press continues the sequence when it hits the same window with the same
// button, no later than threshold ms after the previous press and within
// distance pixels of it. Counting stops at 3.
func (c *clickState) press(w window.Handle, button uint, time uint32, xRoot, yRoot float64, threshold uint32, distance int) int {
	continues := c.count > 0 &&
		c.window == w &&
		c.button == button &&
		time-c.time <= threshold
	if continues && distance >= 0 {
		d := float64(distance)
		continues = math.Abs(xRoot-c.x) <= d && math.Abs(yRoot-c.y) <= d
	}
	if continues {
		c.count = min(c.count+1, 3)
	} else {
		c.count = 1
	}
	c.window = w
	c.button = button
	c.time = time
	c.x, c.y = xRoot, yRoot
	return c.count
}

func (c *clickState) reset() {
	*c = clickState{}
}

func pressKind(count int) Kind {
	switch count {
	case 2:
		return DoubleButtonPress
	case 3:
		return TripleButtonPress
	}
	return ButtonPress
}
