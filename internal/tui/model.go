// Package tui is the terminal home screen. It renders the view mounted by the
// server and hands off to a workout view once the suggested plan is ready.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/fithome/internal/client"
	"github.com/claude/fithome/internal/home"
	"github.com/claude/fithome/internal/models"
)

// API is the slice of the REST client the home screen needs.
type API interface {
	Home(ctx context.Context) (*client.HomeResponse, error)
	StartSuggested(ctx context.Context) (*client.StartResult, error)
	SuggestedPlan(ctx context.Context) (*home.GeneratedRecord, error)
}

var _ API = (*client.Client)(nil)

type homeLoadedMsg struct {
	resp *client.HomeResponse
	err  error
}

type startedMsg struct {
	record *home.GeneratedRecord
	toasts []string
	err    error
}

type Model struct {
	api      API
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model

	view       home.View
	toasts     []string
	loading    bool
	generating bool
	cursor     int

	// route is "" on the home screen, otherwise the navigation target.
	route   string
	record  *home.GeneratedRecord
	routine *models.Routine

	width    int
	height   int
	quitting bool
}

func NewModel(api API) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = titleStyle

	return Model{
		api:      api,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadHome())
}

func (m Model) loadHome() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		resp, err := api.Home(context.Background())
		return homeLoadedMsg{resp: resp, err: err}
	}
}

func (m Model) startSuggested() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx := context.Background()
		res, err := api.StartSuggested(ctx)
		if err != nil {
			msg := startedMsg{err: err}
			if res != nil {
				msg.toasts = res.Toasts
			}
			return msg
		}

		record, err := api.SuggestedPlan(ctx)
		if err != nil {
			return startedMsg{toasts: res.Toasts, err: fmt.Errorf("reading generated plan: %w", err)}
		}
		return startedMsg{record: record, toasts: res.Toasts}
	}
}

// canStart reports whether the suggested workout call to action is enabled.
func (m Model) canStart() bool {
	return !m.loading && !m.generating && !m.view.IsGenerating && m.view.Suggestion != nil
}

// startFailureToasts turns a failed start into the toasts shown on the home screen.
func startFailureToasts(msg startedMsg) []string {
	switch {
	case errors.Is(msg.err, home.ErrAlreadyGenerating):
		return []string{"A suggested workout is already being generated."}
	case errors.Is(msg.err, client.ErrGenerationFailed):
		if len(msg.toasts) > 0 {
			return msg.toasts
		}
		return []string{home.GenerateFailedMessage}
	default:
		return append(msg.toasts, msg.err.Error())
	}
}
