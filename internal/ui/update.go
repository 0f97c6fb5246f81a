package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is sent when the status refresh timer ticks
type tickMsg time.Time

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.stopKeeper()
			return m, tea.Quit
		}

		switch m.Screen {
		case screenHelp:
			if key.Matches(msg, m.keys.Back, m.keys.ToggleHelp) {
				m.Screen = screenStatus
			}
			return m, nil

		case screenStatus:
			switch {
			case key.Matches(msg, m.keys.ToggleHelp):
				m.Screen = screenHelp
			case key.Matches(msg, m.keys.Pause):
				m.togglePause()
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) togglePause() {
	if m.Keeper == nil {
		return
	}
	m.ErrorMessage = ""
	if m.Paused {
		if err := m.Keeper.Start(m.ctx); err != nil {
			m.ErrorMessage = err.Error()
			return
		}
		m.Paused = false
	} else {
		if err := m.Keeper.Stop(); err != nil {
			m.ErrorMessage = err.Error()
			return
		}
		m.Paused = true
	}
	m.refresh()
}

func (m *Model) stopKeeper() {
	if m.Keeper == nil || !m.Keeper.IsRunning() {
		return
	}
	if err := m.Keeper.Stop(); err != nil {
		m.ErrorMessage = err.Error()
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
