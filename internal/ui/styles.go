// Package ui provides consistent styling and the interactive inspector for
// the gdkevents CLI
package ui

import (
	"fmt"
	"strings"

	"github.com/bnema/gdkevents/internal/events"
	"github.com/bnema/gdkevents/internal/window"
	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("39")  // Bright blue
	ColorSecondary = lipgloss.Color("205") // Pink/magenta
	ColorSuccess   = lipgloss.Color("82")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorInfo      = lipgloss.Color("86")  // Cyan

	// Neutral colors
	ColorText      = lipgloss.Color("252") // Light gray
	ColorSubtle    = lipgloss.Color("241") // Medium gray
	ColorMuted     = lipgloss.Color("238") // Dark gray
	ColorHighlight = lipgloss.Color("255") // White

	// Status colors
	ColorActive   = ColorPrimary
	ColorInactive = ColorSubtle
)

// Base styles - building blocks for other styles
var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	SubheaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorMuted).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1)

	ActiveIndicator = lipgloss.NewStyle().
			Foreground(ColorActive).
			Render("●")

	InactiveIndicator = lipgloss.NewStyle().
				Foreground(ColorInactive).
				Render("○")
)

// Event kind styles, one per family
var (
	PointerEventStyle  = lipgloss.NewStyle().Foreground(ColorPrimary)
	ButtonEventStyle   = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	KeyEventStyle      = lipgloss.NewStyle().Foreground(ColorSuccess)
	CrossingEventStyle = lipgloss.NewStyle().Foreground(ColorInfo)
	GrabEventStyle     = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	WindowEventStyle   = lipgloss.NewStyle().Foreground(ColorWarning)
)

// Icons and indicators
var (
	IconSuccess  = "✓"
	IconError    = "✗"
	IconConsumed = "■"
	IconPassed   = "□"
	IconSteps    = "→"
)

// kindWidth aligns event kinds in listings.
const kindWidth = 14

// FormatStatus renders an on/off indicator followed by status.
func FormatStatus(active bool, status string) string {
	indicator := InactiveIndicator
	if active {
		indicator = ActiveIndicator
	}
	return indicator + " " + status
}

// KindStyle returns the style events of kind k are rendered with.
func KindStyle(k events.Kind) lipgloss.Style {
	switch k {
	case events.MotionNotify, events.Scroll:
		return PointerEventStyle
	case events.ButtonPress, events.DoubleButtonPress, events.TripleButtonPress, events.ButtonRelease:
		return ButtonEventStyle
	case events.KeyPress, events.KeyRelease:
		return KeyEventStyle
	case events.EnterNotify, events.LeaveNotify, events.FocusChange:
		return CrossingEventStyle
	case events.GrabBroken:
		return GrabEventStyle
	}
	return WindowEventStyle
}

// Namer resolves window handles to display names. *window.Tree satisfies it.
type Namer interface {
	Name(h window.Handle) string
}

// FormatEvent renders one translated event on a single line.
func FormatEvent(ev *events.Event, names Namer) string {
	kind := KindStyle(ev.Kind).Render(fmt.Sprintf("%-*s", kindWidth, ev.Kind))
	win := BoldStyle.Render(names.Name(ev.Window))

	var detail string
	switch ev.Kind {
	case events.MotionNotify:
		detail = fmt.Sprintf("(%.0f,%.0f) state=%s", ev.X, ev.Y, ev.State)
	case events.ButtonPress, events.DoubleButtonPress, events.TripleButtonPress, events.ButtonRelease:
		detail = fmt.Sprintf("button=%d (%.0f,%.0f) state=%s", ev.Button, ev.X, ev.Y, ev.State)
	case events.Scroll:
		detail = fmt.Sprintf("%s (%.0f,%.0f)", ev.Direction, ev.X, ev.Y)
	case events.KeyPress, events.KeyRelease:
		detail = fmt.Sprintf("keyval=%#x state=%s", ev.Key.Keyval, ev.State)
		if ev.Key.String != "" {
			detail += fmt.Sprintf(" %q", ev.Key.String)
		}
	case events.EnterNotify, events.LeaveNotify:
		detail = fmt.Sprintf("%s %s (%.0f,%.0f)", ev.Crossing.Detail, ev.Crossing.Mode, ev.X, ev.Y)
		if !ev.Crossing.Subwindow.IsNone() {
			detail += " sub=" + names.Name(ev.Crossing.Subwindow)
		}
	case events.FocusChange:
		detail = "out"
		if ev.FocusIn {
			detail = "in"
		}
	case events.GrabBroken:
		what := "pointer"
		if ev.Grab.Keyboard {
			what = "keyboard"
		}
		if ev.Grab.Implicit {
			what += " implicit"
		}
		detail = fmt.Sprintf("%s by %s", what, names.Name(ev.Grab.GrabWindow))
	}
	line := fmt.Sprintf("%s %s", kind, win)
	if detail != "" {
		line += " " + SubtleStyle.Render(detail)
	}
	return line
}

// FormatStepHeader renders the line introducing a step and its verdict.
func FormatStepHeader(index int, description string, consumed bool, status string) string {
	icon := SubtleStyle.Render(IconPassed)
	if consumed {
		icon = SuccessStyle.Render(IconConsumed)
	}
	line := fmt.Sprintf("%s %s %s", icon, SubtleStyle.Render(fmt.Sprintf("#%d", index)), TextStyle.Render(description))
	switch status {
	case "":
	case events.GrabSuccess.String():
		line += " " + SuccessStyle.Render(IconSuccess+" "+status)
	default:
		line += " " + ErrorStyle.Render(IconError+" "+status)
	}
	return line
}

// FormatGrab describes a grab, or "none".
func FormatGrab(info events.GrabInfo, ok bool, names Namer) string {
	if !ok {
		return FormatStatus(false, "none")
	}
	desc := names.Name(info.Window)
	var flags []string
	if info.Implicit {
		flags = append(flags, "implicit")
	}
	if info.OwnerEvents {
		flags = append(flags, "owner-events")
	}
	flags = append(flags, "mask="+info.EventMask.String())
	return FormatStatus(true, desc+" "+SubtleStyle.Render(strings.Join(flags, " ")))
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50 // Default width
	}
	if char == "" {
		char = "─"
	}

	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}
