package events

import (
	"testing"

	"github.com/bnema/gdkevents/internal/window"
	"github.com/stretchr/testify/assert"
)

func TestClickState_Press(t *testing.T) {
	f := newFixture(t)
	a, b := f.left, f.right

	type click struct {
		w      window.Handle
		button uint
		time   uint32
		x, y   float64
	}
	tests := []struct {
		name     string
		distance int
		clicks   []click
		want     []int
	}{
		{
			name:     "single double triple then stays triple",
			distance: 5,
			clicks:   []click{{a, 1, 0, 0, 0}, {a, 1, 100, 0, 0}, {a, 1, 200, 0, 0}, {a, 1, 300, 0, 0}},
			want:     []int{1, 2, 3, 3},
		},
		{
			name:     "timeout resets",
			distance: 5,
			clicks:   []click{{a, 1, 0, 0, 0}, {a, 1, 250, 0, 0}, {a, 1, 501, 0, 0}, {a, 1, 600, 0, 0}},
			want:     []int{1, 2, 1, 2},
		},
		{
			name:     "other window resets",
			distance: 5,
			clicks:   []click{{a, 1, 0, 0, 0}, {b, 1, 10, 0, 0}, {a, 1, 20, 0, 0}},
			want:     []int{1, 1, 1},
		},
		{
			name:     "other button resets",
			distance: 5,
			clicks:   []click{{a, 1, 0, 0, 0}, {a, 3, 10, 0, 0}, {a, 3, 20, 0, 0}},
			want:     []int{1, 1, 2},
		},
		{
			name:     "moved too far",
			distance: 5,
			clicks:   []click{{a, 1, 0, 0, 0}, {a, 1, 10, 6, 0}, {a, 1, 20, 6, 5}},
			want:     []int{1, 1, 2},
		},
		{
			name:     "negative distance disables the check",
			distance: -1,
			clicks:   []click{{a, 1, 0, 0, 0}, {a, 1, 10, 600, 400}},
			want:     []int{1, 2},
		},
		{
			name:     "timestamp wrap",
			distance: 5,
			clicks:   []click{{a, 1, 0xffffff80, 0, 0}, {a, 1, 0x10, 0, 0}},
			want:     []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c clickState
			var got []int
			for _, cl := range tt.clicks {
				got = append(got, c.press(cl.w, cl.button, cl.time, cl.x, cl.y, 250, tt.distance))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPressKind(t *testing.T) {
	assert.Equal(t, ButtonPress, pressKind(1))
	assert.Equal(t, DoubleButtonPress, pressKind(2))
	assert.Equal(t, TripleButtonPress, pressKind(3))
}
