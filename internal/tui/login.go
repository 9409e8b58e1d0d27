package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/piyawatc/censedit/internal/core/styles"
	"github.com/piyawatc/censedit/internal/data/stores"
)

const loginTimeout = 10 * time.Second

type loginModel struct {
	deps Deps

	username textinput.Model
	password textinput.Model
	focused  int // 0 = username, 1 = password

	busy    bool
	errText string
}

func newLoginModel(deps Deps) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 8
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginModel{
		deps:     deps,
		username: username,
		password: password,
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

type authResultMsg struct {
	user stores.User
	err  error
}

func authenticate(deps Deps, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()

		user, err := deps.Users.Authenticate(ctx, username, password)
		return authResultMsg{user: user, err: err}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab", "shift+tab", "up", "down":
			m.focused = (m.focused + 1) % 2
			if m.focused == 0 {
				m.password.Blur()
				return m, m.username.Focus()
			}
			m.username.Blur()
			return m, m.password.Focus()
		case "enter":
			if m.focused == 0 {
				m.focused = 1
				m.username.Blur()
				return m, m.password.Focus()
			}
			username := m.username.Value()
			password := m.password.Value()
			if username == "" || password == "" {
				m.errText = "กรุณากรอกชื่อผู้ใช้และรหัสผ่าน"
				return m, nil
			}
			m.busy = true
			m.errText = ""
			return m, authenticate(m.deps, username, password)
		}

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, stores.ErrInvalidCredentials) {
				m.errText = "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง"
			} else {
				m.deps.Log.Error().Err(msg.err).Msg("authentication failed")
				m.errText = "ไม่สามารถเชื่อมต่อฐานข้อมูลได้"
			}
			return m, nil
		}
		return m, func() tea.Msg { return loggedInMsg{user: msg.user} }
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) View() string {
	title := styles.Title.Render("censedit")
	subtitle := styles.Subtitle.Render("ระบบแก้ไขข้อมูลสำมะโน")

	status := styles.HelpText.Render("enter เข้าสู่ระบบ · tab สลับช่อง · ctrl+c ออก")
	if m.busy {
		status = styles.Subtitle.Render("กำลังตรวจสอบ...")
	}
	if m.errText != "" {
		status = styles.ErrorText.Render(m.errText)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		"ชื่อผู้ใช้  "+m.username.View(),
		"รหัสผ่าน   "+m.password.View(),
		"",
		status,
	)

	return styles.ModalBorder.Render(form)
}
