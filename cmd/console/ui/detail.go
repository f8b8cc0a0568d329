package ui

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/microcosm-cc/bluemonday"
)

// BackToDashboardMsg returns to the queue, optionally after a decision.
type BackToDashboardMsg struct{}

var plainText = bluemonday.StrictPolicy()

type StoryDetailModel struct {
	Client *Client
	Story  Story
	Body   viewport.Model
	Err    error
}

func NewStoryDetailModel(c *Client, s Story, width, height int) StoryDetailModel {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	vp := viewport.New(width-4, max(height-8, 3))
	vp.SetContent(renderContent(s.Content, width-4))
	return StoryDetailModel{Client: c, Story: s, Body: vp}
}

// renderContent turns the sanitized story markup into wrapped plain text.
func renderContent(markup string, width int) string {
	r := strings.NewReplacer("</p>", "\n\n", "<br>", "\n", "<br/>", "\n", "</li>", "\n", "<li>", "- ")
	text := html.UnescapeString(plainText.Sanitize(r.Replace(markup)))
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrap(line, width)...)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func wrap(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 || width <= 0 {
		return []string{line}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}

func (m StoryDetailModel) Init() tea.Cmd { return nil }

func (m StoryDetailModel) Update(msg tea.Msg) (StoryDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace", "q":
			return m, func() tea.Msg { return BackToDashboardMsg{} }
		case "a":
			return m, moderate(m.Client, m.Story.ID, decisionApprove)
		case "x":
			return m, moderate(m.Client, m.Story.ID, decisionReject)
		}
	case tea.WindowSizeMsg:
		m.Body.Width = msg.Width - 4
		m.Body.Height = max(msg.Height-8, 3)
		m.Body.SetContent(renderContent(m.Story.Content, m.Body.Width))
	}
	var cmd tea.Cmd
	m.Body, cmd = m.Body.Update(msg)
	return m, cmd
}

func (m StoryDetailModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Story.Title) + "\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("by %s, submitted %s, id %s",
		m.Story.AuthorUsername, m.Story.CreatedAt.Local().Format("2006-01-02 15:04"), m.Story.ID)) + "\n\n")
	b.WriteString(m.Body.View())
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("a: approve  x: reject  esc: back  up/down: scroll"))
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
