package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type LoginModel struct {
	Client   *Client
	Inputs   []textinput.Model
	FocusIdx int
	Err      error
	Busy     bool
}

const (
	inputServer = iota
	inputUsername
	inputPassword
)

type loginResultMsg struct{ err error }

func NewLoginModel(c *Client) LoginModel {
	inputs := make([]textinput.Model, 3)

	inputs[inputServer] = textinput.New()
	inputs[inputServer].Prompt = "Server: "
	inputs[inputServer].Placeholder = "http://127.0.0.1:8001"
	inputs[inputServer].SetValue(c.BaseURL)
	inputs[inputServer].Focus()

	inputs[inputUsername] = textinput.New()
	inputs[inputUsername].Prompt = "Username: "
	inputs[inputUsername].Placeholder = "admin"

	inputs[inputPassword] = textinput.New()
	inputs[inputPassword].Prompt = "Password: "
	inputs[inputPassword].Placeholder = "password"
	inputs[inputPassword].EchoMode = textinput.EchoPassword

	return LoginModel{Client: c, Inputs: inputs}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 && !m.Busy {
				m.Busy = true
				m.Err = nil
				return m, m.loginCmd()
			}
			m.nextInput()
		case tea.KeyTab, tea.KeyDown:
			m.nextInput()
		case tea.KeyShiftTab, tea.KeyUp:
			m.prevInput()
		}
	case loginResultMsg:
		m.Busy = false
		m.Err = msg.err
		return m, nil
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginModel) nextInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx = (m.FocusIdx + 1) % len(m.Inputs)
	m.Inputs[m.FocusIdx].Focus()
}

func (m *LoginModel) prevInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx = (m.FocusIdx + len(m.Inputs) - 1) % len(m.Inputs)
	m.Inputs[m.FocusIdx].Focus()
}

func (m LoginModel) loginCmd() tea.Cmd {
	server := strings.TrimRight(strings.TrimSpace(m.Inputs[inputServer].Value()), "/")
	username := strings.TrimSpace(m.Inputs[inputUsername].Value())
	password := m.Inputs[inputPassword].Value()
	client := m.Client
	return func() tea.Msg {
		if server == "" || username == "" || password == "" {
			return loginResultMsg{err: errors.New("server, username and password are required")}
		}
		client.BaseURL = server
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return loginResultMsg{err: client.Login(ctx, username, password)}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Story Moderation - Admin Login") + "\n\n")
	for i := range m.Inputs {
		if i == m.FocusIdx {
			b.WriteString(focusedStyle.Render(m.Inputs[i].View()))
		} else {
			b.WriteString(m.Inputs[i].View())
		}
		b.WriteRune('\n')
	}
	b.WriteString("\n")
	if m.Busy {
		b.WriteString(blurredStyle.Render("Signing in..."))
	} else {
		b.WriteString(blurredStyle.Render("Tab to change fields, Enter to submit, Ctrl+C to quit"))
	}
	if m.Err != nil {
		b.WriteString("\n\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
