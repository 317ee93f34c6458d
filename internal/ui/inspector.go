package ui

import (
	"fmt"
	"strings"

	"github.com/bnema/gdkevents/internal/events"
	"github.com/bnema/gdkevents/internal/scenario"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// statePanelWidth is the width of the display state column.
	statePanelWidth = 44
	// logPaneLines is how many log entries are shown under the history.
	logPaneLines = 5
)

type inspectorKeys struct {
	Step key.Binding
	Run  key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k inspectorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Run, k.Help, k.Quit}
}

func (k inspectorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Step, k.Run}, {k.Help, k.Quit}}
}

func defaultInspectorKeys() inspectorKeys {
	return inspectorKeys{
		Step: key.NewBinding(key.WithKeys("n", " ", "right"), key.WithHelp("n/space", "step")),
		Run:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run to end")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more help")),
		Quit: key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// InspectorModel steps a scenario session and shows what each native event
// turned into, next to the grab, pointer and focus state of the display.
type InspectorModel struct {
	base    *BaseUI
	session *scenario.Session
	keys    inspectorKeys
	help    help.Model

	history []scenario.Result
	width   int
	height  int
}

// NewInspectorModel creates an inspector over s.
func NewInspectorModel(s *scenario.Session) *InspectorModel {
	return &InspectorModel{
		session: s,
		keys:    defaultInspectorKeys(),
		help:    help.New(),
		width:   100,
		height:  30,
	}
}

// SetBase implements UIModel
func (m *InspectorModel) SetBase(base *BaseUI) {
	m.base = base
}

// OnShutdown implements UIModel
func (m *InspectorModel) OnShutdown() error {
	return nil
}

// History returns the results of the steps run so far.
func (m *InspectorModel) History() []scenario.Result {
	return m.history
}

func (m *InspectorModel) Init() tea.Cmd {
	return nil
}

func (m *InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.base != nil {
		if cmd := m.base.BaseUpdate(msg); cmd != nil {
			return m, cmd
		}
		if m.base.IsShuttingDown() {
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Step):
			m.step()
		case key.Matches(msg, m.keys.Run):
			for !m.session.Done() {
				m.step()
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *InspectorModel) step() {
	r, ok := m.session.Step()
	if !ok {
		return
	}
	m.history = append(m.history, r)
	if m.base == nil {
		return
	}
	switch {
	case r.Status != "" && r.Status != events.GrabSuccess.String():
		m.base.AddLogEntry("warn", fmt.Sprintf("%s: %s", r.Description, r.Status))
	case r.Status == "" && !r.Consumed:
		m.base.AddLogEntry("info", r.Description+": left to Cocoa")
	default:
		m.base.AddLogEntry("debug", r.Description)
	}
}

func (m *InspectorModel) View() string {
	title := TitleStyle.Render("gdkevents inspect")
	name := m.session.Name
	if name == "" {
		name = "unnamed scenario"
	}
	progress := fmt.Sprintf("step %d/%d", m.session.Pos(), m.session.Len())
	if m.session.Done() {
		progress += " " + SuccessStyle.Render(IconSuccess+" done")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", BoldStyle.Render(name), "  ", SubtleStyle.Render(progress))

	helpView := m.help.View(m.keys)
	logView := m.logView()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(helpView) - 3
	if logView != "" {
		bodyHeight -= lipgloss.Height(logView) + 1
	}
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	historyWidth := m.width - statePanelWidth - 4
	if historyWidth < 20 {
		historyWidth = 20
	}
	historyView := lipgloss.NewStyle().Width(historyWidth).Render(m.historyView(bodyHeight))
	stateView := BoxStyle.Width(statePanelWidth).Render(RenderState(m.session))

	body := lipgloss.JoinHorizontal(lipgloss.Top, historyView, "  ", stateView)
	if logView == "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", helpView)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", logView, "", helpView)
}

// logView renders the last log entries, or nothing without a base UI.
func (m *InspectorModel) logView() string {
	if m.base == nil {
		return ""
	}
	logs := m.base.GetLogs()
	if len(logs) == 0 {
		return ""
	}
	if len(logs) > logPaneLines {
		logs = logs[len(logs)-logPaneLines:]
	}
	lines := []string{CreateSeparator(m.width, "")}
	for _, entry := range logs {
		lines = append(lines, FormatLogEntry(entry))
	}
	return strings.Join(lines, "\n")
}

// historyView renders the tail of the history that fits in height lines.
func (m *InspectorModel) historyView(height int) string {
	if len(m.history) == 0 {
		next := m.session.Describe(m.session.Pos())
		return SubtleStyle.Render(IconSteps + " next: " + next)
	}
	var lines []string
	for _, r := range m.history {
		lines = append(lines, strings.Split(RenderResult(r, m.session.Windows.Tree), "\n")...)
	}
	if !m.session.Done() {
		lines = append(lines, SubtleStyle.Render(IconSteps+" next: "+m.session.Describe(m.session.Pos())))
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

// RenderResult renders a step header followed by the events it produced.
func RenderResult(r scenario.Result, names Namer) string {
	var b strings.Builder
	b.WriteString(FormatStepHeader(r.Index, r.Description, r.Consumed, r.Status))
	for _, ev := range r.Events {
		b.WriteString("\n    ")
		b.WriteString(FormatEvent(ev, names))
	}
	return b.String()
}

// RenderState renders the grab, pointer and focus state of the session.
func RenderState(s *scenario.Session) string {
	d := s.Display
	names := s.Windows.Tree

	row := func(label, value string) string {
		return SubheaderStyle.Render(fmt.Sprintf("%-9s", label)) + " " + value
	}
	pg, pok := d.PointerGrabInfo()
	kg, kok := d.KeyboardGrabInfo()
	rows := []string{
		row("pointer", names.Name(d.PointerWindow())),
		row("focus", names.Name(d.Focus())),
		row("ptr grab", FormatGrab(pg, pok, names)),
		row("kbd grab", FormatGrab(kg, kok, names)),
		row("queued", fmt.Sprintf("%d", d.Pending())),
		row("windows", fmt.Sprintf("%d", names.Len())),
	}
	return strings.Join(rows, "\n")
}
