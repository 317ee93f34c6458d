package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/bnema/gdkevents/internal/events"
	"github.com/bnema/gdkevents/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatStatus(t *testing.T) {
	assert.Contains(t, FormatStatus(true, "grabbed"), "●")
	assert.Contains(t, FormatStatus(false, "none"), "○")
	assert.Contains(t, FormatStatus(false, "none"), "none")
}

func namedTree(t *testing.T) (*window.Tree, window.Handle, window.Handle) {
	t.Helper()
	tree := window.NewTree()
	top, err := tree.NewToplevel(1, window.Rect{Width: 100, Height: 100}, window.AllEventsMask, "main")
	require.NoError(t, err)
	child, err := tree.NewChild(top, 0, window.Rect{Width: 10, Height: 10}, window.AllEventsMask, "field")
	require.NoError(t, err)
	return tree, top, child
}

func TestFormatEvent(t *testing.T) {
	tree, top, child := namedTree(t)

	tests := []struct {
		name string
		ev   events.Event
		want []string
	}{
		{
			name: "button",
			ev:   events.Event{Kind: events.DoubleButtonPress, Window: child, Button: 1, X: 3, Y: 4},
			want: []string{"2button-press", "field", "button=1", "(3,4)"},
		},
		{
			name: "key with string",
			ev:   events.Event{Kind: events.KeyPress, Window: child, Key: events.KeyData{Keyval: 0x61, String: "a"}},
			want: []string{"key-press", "keyval=0x61", `"a"`},
		},
		{
			name: "crossing with subwindow",
			ev: events.Event{Kind: events.EnterNotify, Window: top, Crossing: events.CrossingData{
				Detail: events.DetailInferior, Subwindow: child,
			}},
			want: []string{"enter", "main", "sub=field"},
		},
		{
			name: "focus",
			ev:   events.Event{Kind: events.FocusChange, Window: top, FocusIn: true},
			want: []string{"focus-change", "in"},
		},
		{
			name: "grab broken by focus loss",
			ev:   events.Event{Kind: events.GrabBroken, Window: top, Grab: events.GrabBrokenData{Keyboard: true}},
			want: []string{"grab-broken", "keyboard", "by none"},
		},
		{
			name: "implicit grab broken",
			ev:   events.Event{Kind: events.GrabBroken, Window: child, Grab: events.GrabBrokenData{Implicit: true, GrabWindow: top}},
			want: []string{"pointer implicit", "by main"},
		},
		{
			name: "scroll",
			ev:   events.Event{Kind: events.Scroll, Window: child, Direction: events.ScrollDown},
			want: []string{"scroll", "down"},
		},
		{
			name: "delete",
			ev:   events.Event{Kind: events.Delete, Window: top},
			want: []string{"delete", "main"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatEvent(&tt.ev, tree)
			assert.NotContains(t, got, "\n")
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestFormatStepHeader(t *testing.T) {
	assert.Contains(t, FormatStepHeader(3, "mouse-down", true, ""), IconConsumed)
	assert.Contains(t, FormatStepHeader(3, "mouse-down", false, ""), IconPassed)
	assert.Contains(t, FormatStepHeader(4, "pointer-grab", false, "success"), IconSuccess)

	got := FormatStepHeader(5, "keyboard-grab", false, "not-viewable")
	assert.Contains(t, got, IconError)
	assert.Contains(t, got, "#5")
}

func TestFormatGrab(t *testing.T) {
	tree, top, _ := namedTree(t)

	assert.Contains(t, FormatGrab(events.GrabInfo{}, false, tree), "none")

	got := FormatGrab(events.GrabInfo{Window: top, OwnerEvents: true, Implicit: true, EventMask: window.ButtonPressMask}, true, tree)
	for _, w := range []string{"main", "implicit", "owner-events", "mask=button-press"} {
		assert.Contains(t, got, w)
	}
}

func TestKindStyle(t *testing.T) {
	assert.Equal(t, ButtonEventStyle.Render("x"), KindStyle(events.TripleButtonPress).Render("x"))
	assert.Equal(t, GrabEventStyle.Render("x"), KindStyle(events.GrabBroken).Render("x"))
	assert.Equal(t, WindowEventStyle.Render("x"), KindStyle(events.Map).Render("x"))
}

func TestCreateSeparator(t *testing.T) {
	assert.Equal(t, 50, strings.Count(CreateSeparator(0, ""), "─"))
	assert.Equal(t, 10, strings.Count(CreateSeparator(10, "="), "="))
}

func TestFormatLogEntry(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	got := FormatLogEntry(LogEntry{Timestamp: at, Level: "warn", Message: "grab broken"})
	assert.Contains(t, got, "15:04:05")
	assert.Contains(t, got, "WARN")
	assert.Contains(t, got, "grab broken")
}
