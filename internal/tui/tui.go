// Package tui implements the terminal interface: a login screen followed
// by the record editor. All database work runs through tea.Cmd functions
// so the event loop never blocks on the network.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/piyawatc/censedit/internal/census/codelist"
	"github.com/piyawatc/censedit/internal/census/rules"
	"github.com/piyawatc/censedit/internal/core/config"
	"github.com/piyawatc/censedit/internal/data/stores"
)

// Deps carries everything the TUI needs. All fields are required.
type Deps struct {
	Config   *config.Config
	Users    *stores.UserStore
	Records  *stores.RecordStore
	Location *stores.LocationStore
	Rules    *rules.Set
	Columns  *codelist.ColumnMap
	Log      zerolog.Logger
}

type screen int

const (
	screenLogin screen = iota
	screenEdit
)

// Model is the root Bubble Tea model, delegating to the active screen.
type Model struct {
	deps   Deps
	screen screen

	login loginModel
	edit  *editModel

	width  int
	height int
}

// New creates the root model starting at the login screen.
func New(deps Deps) Model {
	return Model{
		deps:  deps,
		login: newLoginModel(deps),
	}
}

func (m Model) Init() tea.Cmd {
	return m.login.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.edit != nil {
			m.edit.setSize(msg.Width, msg.Height)
		}

	case loggedInMsg:
		edit := newEditModel(m.deps, msg.user)
		edit.setSize(m.width, m.height)
		m.edit = &edit
		m.screen = screenEdit
		m.deps.Log.Info().Str("username", msg.user.Username).Msg("login successful")
		return m, m.edit.Init()

	case loggedOutMsg:
		m.edit = nil
		m.screen = screenLogin
		m.login = newLoginModel(m.deps)
		return m, m.login.Init()
	}

	switch m.screen {
	case screenLogin:
		login, cmd := m.login.Update(msg)
		m.login = login
		return m, cmd
	case screenEdit:
		cmd := m.edit.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.login.View()
	case screenEdit:
		return m.edit.View()
	}
	return ""
}

// loggedInMsg switches from the login screen to the editor.
type loggedInMsg struct {
	user stores.User
}

// loggedOutMsg returns to the login screen.
type loggedOutMsg struct{}
