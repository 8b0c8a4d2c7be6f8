package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kvistgaard/ntsctv/control"
)

// frameMsg is one Runner.Progress callback, forwarded into the Bubble Tea
// program's Update loop.
type frameMsg struct {
	frame, channel int
	action         control.ActionType
}

// doneMsg ends the program once the run loop returns.
type doneMsg struct{ err error }

var statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

// progressModel is a one-line live status display shown while the Runner
// drives the frame loop, in place of the bare log.Printf progress spam a
// non-interactive CLI would otherwise emit.
type progressModel struct {
	frame, channel int
	rendered       int
	lastAction     control.ActionType
	err            error
	quitting       bool
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case frameMsg:
		m.frame, m.channel, m.lastAction = msg.frame, msg.channel, msg.action
		m.rendered = msg.frame + 1
	case doneMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quitting {
		if m.err != nil {
			return fmt.Sprintf("ntsctv: failed: %v\n", m.err)
		}
		return fmt.Sprintf("ntsctv: done, %d frames rendered\n", m.rendered)
	}
	action := "-"
	switch m.lastAction {
	case control.ActionSwitch:
		action = "SWITCH"
	case control.ActionQuit:
		action = "QUIT"
	}
	return statusStyle.Render(fmt.Sprintf("frame %d  channel %d  %s", m.frame, m.channel, action)) + "\n"
}
