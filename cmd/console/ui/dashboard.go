package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	decisionApprove = "approved"
	decisionReject  = "rejected"
)

type DashboardModel struct {
	Client  *Client
	Table   table.Model
	Stories []Story
	Status  string
	Err     error
}

type pendingLoadedMsg struct {
	stories []Story
	err     error
}

type moderatedMsg struct {
	id     string
	status string
	err    error
}

// StorySelectedMsg opens the detail view for one queued story.
type StorySelectedMsg struct{ Story Story }

func NewDashboardModel(c *Client, height int) DashboardModel {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Author", Width: 16},
		{Title: "Title", Width: 40},
		{Title: "Submitted", Width: 16},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)
	t.SetStyles(tableStyles())
	return DashboardModel{Client: c, Table: t}
}

func tableHeight(height int) int {
	if height <= 0 {
		return 15
	}
	if h := height - 10; h > 3 {
		return h
	}
	return 3
}

func (m DashboardModel) Init() tea.Cmd {
	return loadPending(m.Client)
}

func loadPending(c *Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		list, err := c.Pending(ctx)
		return pendingLoadedMsg{stories: list, err: err}
	}
}

func moderate(c *Client, id, status string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_, err := c.Moderate(ctx, id, status)
		return moderatedMsg{id: id, status: status, err: err}
	}
}

func (m DashboardModel) selected() (Story, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Stories) {
		return Story{}, false
	}
	return m.Stories[i], true
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.Status = "refreshing..."
			return m, loadPending(m.Client)
		case "enter":
			if s, ok := m.selected(); ok {
				return m, func() tea.Msg { return StorySelectedMsg{Story: s} }
			}
		case "a":
			if s, ok := m.selected(); ok {
				return m, moderate(m.Client, s.ID, decisionApprove)
			}
		case "x":
			if s, ok := m.selected(); ok {
				return m, moderate(m.Client, s.ID, decisionReject)
			}
		case "q":
			return m, tea.Quit
		}

	case pendingLoadedMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Err = nil
		m.Status = fmt.Sprintf("%d stories waiting", len(msg.stories))
		m.setStories(msg.stories)
		return m, nil

	case moderatedMsg:
		if msg.err != nil {
			m.Err = msg.err
			// someone else may have decided it already
			return m, loadPending(m.Client)
		}
		m.Err = nil
		m.Status = fmt.Sprintf("story %s %s", shortID(msg.id), msg.status)
		return m, loadPending(m.Client)
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m *DashboardModel) setStories(list []Story) {
	m.Stories = list
	rows := make([]table.Row, 0, len(list))
	for _, s := range list {
		rows = append(rows, table.Row{shortID(s.ID), s.AuthorUsername, s.Title, s.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	m.Table.SetRows(rows)
	if m.Table.Cursor() >= len(rows) && len(rows) > 0 {
		m.Table.SetCursor(len(rows) - 1)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Moderation Queue") + "\n\n")
	if len(m.Stories) == 0 {
		b.WriteString(metaStyle.Render("Nothing to review.") + "\n")
	} else {
		b.WriteString(m.Table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("enter: read  a: approve  x: reject  r: refresh  q: quit"))
	if m.Status != "" {
		b.WriteString("\n" + statusMessageStyle(m.Status))
	}
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
