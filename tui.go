// tui.go - the visualisation surface: an opaque bridge consumer that polls
// the bridge on a fixed tick and renders its read-only state (accumulator,
// instruction counter, trace history, recent cache events) as a terminal UI
// via bubbletea/lipgloss.

package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tuiTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tuiLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiValueStyle = lipgloss.NewStyle().Bold(true)
	tuiEventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
)

type tickMsg time.Time

// VisualisationSurface renders a Bridge snapshot. It is an opaque consumer:
// it never touches the cache, RAM or register file directly, only the
// bridge's published views and event queue.
type VisualisationSurface struct {
	bridge    *Bridge
	events    []string
	quitAfter bool
}

// NewVisualisationSurface constructs a bubbletea program bound to bridge.
func NewVisualisationSurface(bridge *Bridge) *tea.Program {
	m := &VisualisationSurface{bridge: bridge}
	return tea.NewProgram(m)
}

func (m *VisualisationSurface) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(visualisationTickInterval*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *VisualisationSurface) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.bridge.requestInterrupt(icReset, "", 0)
		case " ":
			m.bridge.requestInterrupt(icStartStep, "", 0)
		case "t":
			m.bridge.requestInterrupt(icSingleStepToggle, "", 0)
		}
		return m, nil

	case tickMsg:
		for {
			value, isWriteback, ok := m.bridge.drainEvent()
			if !ok {
				break
			}
			w := unpackEvicted(value)
			kind, field := "cache-update", "slot"
			if isWriteback {
				kind, field = "writeback", "addr"
			}
			m.events = append(m.events, fmt.Sprintf("%s %s=%d operand=%d", kind, field, w.address, w.operand))
			if len(m.events) > 8 {
				m.events = m.events[len(m.events)-8:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *VisualisationSurface) View() string {
	snap := m.bridge.snapshot()

	var b strings.Builder
	fmt.Fprintln(&b, tuiTitleStyle.Render(fmt.Sprintf("%s v%s", appName, appVersion)))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%s %s\n", tuiLabelStyle.Render("accumulator:"), tuiValueStyle.Render(fmt.Sprintf("%d", snap.Accumulator)))
	fmt.Fprintf(&b, "%s %s\n", tuiLabelStyle.Render("instruction counter:"), tuiValueStyle.Render(fmt.Sprintf("%d", snap.InstructionCounter)))
	fmt.Fprintf(&b, "%s %v\n", tuiLabelStyle.Render("executing:"), snap.Executing)
	fmt.Fprintf(&b, "%s %v\n", tuiLabelStyle.Render("single-step:"), snap.SingleStepMode)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, tuiLabelStyle.Render("trace (newest first):"))
	for _, line := range []string{snap.Instruction, snap.Coinstruction, snap.Cocoinstruction} {
		if line != "" {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, tuiLabelStyle.Render("recent cache events:"))
	for _, e := range m.events {
		fmt.Fprintln(&b, tuiEventStyle.Render("  "+e))
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, tuiLabelStyle.Render("q quit · space step · t toggle single-step · r reset"))
	return b.String()
}
