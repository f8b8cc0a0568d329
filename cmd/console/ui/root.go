package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateLogin state = iota
	stateDashboard
	stateDetail
)

type RootModel struct {
	State     state
	Client    *Client
	Login     LoginModel
	Dashboard DashboardModel
	Detail    StoryDetailModel
	Quitting  bool
	width     int
	height    int
}

func NewRootModel(server string) RootModel {
	c := NewClient(server)
	return RootModel{
		State:  stateLogin,
		Client: c,
		Login:  NewLoginModel(c),
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.Login.Init()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Dashboard.Table.SetHeight(tableHeight(msg.Height))
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
	}

	switch m.State {
	case stateLogin:
		if res, ok := msg.(loginResultMsg); ok && res.err == nil {
			m.State = stateDashboard
			m.Dashboard = NewDashboardModel(m.Client, m.height)
			return m, m.Dashboard.Init()
		}
		var cmd tea.Cmd
		m.Login, cmd = m.Login.Update(msg)
		return m, cmd

	case stateDashboard:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
			return m.quit()
		}
		if sel, ok := msg.(StorySelectedMsg); ok {
			m.State = stateDetail
			m.Detail = NewStoryDetailModel(m.Client, sel.Story, m.width, m.height)
			return m, m.Detail.Init()
		}
		var cmd tea.Cmd
		m.Dashboard, cmd = m.Dashboard.Update(msg)
		return m, cmd

	case stateDetail:
		switch msg := msg.(type) {
		case BackToDashboardMsg:
			m.State = stateDashboard
			return m, loadPending(m.Client)
		case moderatedMsg:
			if msg.err != nil {
				m.Detail.Err = msg.err
				return m, nil
			}
			m.State = stateDashboard
			var cmd tea.Cmd
			m.Dashboard, cmd = m.Dashboard.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.Detail, cmd = m.Detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m RootModel) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	client := m.Client
	return m, tea.Sequence(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = client.Logout(ctx)
		return nil
	}, tea.Quit)
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateLogin:
		return m.Login.View()
	case stateDashboard:
		return m.Dashboard.View()
	case stateDetail:
		return m.Detail.View()
	}
	return "Unknown state"
}
