package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/keep-active/internal/keepalive"
	"github.com/stigoleg/keep-active/internal/rules"
)

// Model holds the current state of the UI: the keeper it controls, the
// loaded rules and the last status snapshot.
type Model struct {
	Screen       screen
	Keeper       *keepalive.Keeper
	Rules        *rules.RuleSet
	RulesFile    string
	Status       keepalive.Status
	Paused       bool
	ErrorMessage string
	Now          time.Time

	ctx   context.Context
	clock func() time.Time
	keys  KeyMap
	help  help.Model
}

// Option configures a Model.
type Option func(*Model)

// WithClock overrides the wall clock used for the "today" view.
func WithClock(clock func() time.Time) Option {
	return func(m *Model) { m.clock = clock }
}

// NewModel returns a model bound to a keeper. ctx is used to restart the
// keeper after a pause.
func NewModel(ctx context.Context, keeper *keepalive.Keeper, rs *rules.RuleSet, rulesFile string, opts ...Option) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		Screen:    screenStatus,
		Keeper:    keeper,
		Rules:     rs,
		RulesFile: rulesFile,
		ctx:       ctx,
		clock:     time.Now,
		keys:      DefaultKeys(),
		help:      NewHelpModel(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := Update(msg, m)
	return newModel, cmd
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// TodayWindows returns the windows configured for the current weekday.
func (m Model) TodayWindows() []rules.TimeWindow {
	if m.Rules == nil {
		return nil
	}
	return m.Rules.Windows(m.Now.Weekday())
}

func (m *Model) refresh() {
	m.Now = m.clock()
	if m.Keeper != nil {
		m.Status = m.Keeper.Status()
	}
}
