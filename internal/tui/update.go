package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/fithome/internal/home"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case homeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.toasts = []string{home.LoadFailedMessage}
			return m, nil
		}
		m.view = msg.resp.View
		m.toasts = msg.resp.Toasts
		m.cursor = 0
		return m, nil

	case startedMsg:
		m.generating = false
		if msg.err != nil {
			m.toasts = startFailureToasts(msg)
			return m, nil
		}
		m.toasts = msg.toasts
		m.record = msg.record
		m.route = home.RouteBuilder
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.route != "" {
		if key.Matches(msg, m.keys.Back) {
			m.route = ""
			m.routine = nil
		}
		return m, nil
	}

	recent := m.view.RecentRoutines
	switch {
	case key.Matches(msg, m.keys.Start):
		if !m.canStart() {
			return m, nil
		}
		m.generating = true
		m.toasts = nil
		return m, tea.Batch(m.spinner.Tick, m.startSuggested())
	case key.Matches(msg, m.keys.Refresh):
		if m.loading || m.generating {
			return m, nil
		}
		m.loading = true
		m.toasts = nil
		return m, tea.Batch(m.spinner.Tick, m.loadHome())
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(recent)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(recent) {
			r := recent[m.cursor]
			m.routine = &r
			m.route = home.RouteSession
		}
	}
	return m, nil
}
