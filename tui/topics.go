package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wwpbim/bepgen/payload"
)

// TopicsModel is the keep/remove checklist over the canonical topic list,
// one group per page.
type TopicsModel struct {
	sess   *Session
	groups []payload.TopicGroup
	page   int
	cursor int
	width  int
	height int
}

func NewTopicsModel(sess *Session) TopicsModel {
	return TopicsModel{sess: sess, groups: payload.Groups()}
}

func (m TopicsModel) Init() tea.Cmd {
	return nil
}

func (m TopicsModel) Update(msg tea.Msg) (TopicsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	topics := m.pageTopics()
	switch key.String() {
	case "left", "h":
		m.page = CyclePage(m.page, -1, len(m.groups))
		m.cursor = 0
	case "right", "l":
		m.page = CyclePage(m.page, +1, len(m.groups))
		m.cursor = 0
	case "up", "k":
		m.cursor = ClampCursor(m.cursor-1, len(topics))
	case "down", "j":
		m.cursor = ClampCursor(m.cursor+1, len(topics))
	case " ", "space", "enter":
		if m.cursor < len(topics) {
			m.sess.Selection.Toggle(topics[m.cursor])
		}
	case "a":
		for _, t := range topics {
			m.sess.Selection.Keep(t)
		}
	}
	return m, nil
}

func (m TopicsModel) pageTopics() []string {
	if m.page < 0 || m.page >= len(m.groups) {
		return nil
	}
	return payload.GroupTopics(m.groups[m.page])
}

func (m TopicsModel) View() string {
	var tabs string
	for i, g := range m.groups {
		style := PhaseLabelStyle
		if i == m.page {
			style = PhaseActiveStyle
		}
		if i > 0 {
			tabs += SubtitleStyle.Render("  ·  ")
		}
		tabs += style.Render(g.Name)
	}

	var rows []string
	rows = append(rows, "  "+tabs, "")
	for i, t := range m.pageTopics() {
		marker := "  "
		if i == m.cursor {
			marker = CursorStyle.Render("> ")
		}
		box := "[x]"
		style := KeptStyle
		if !m.sess.Selection.IsKept(t) {
			box = "[ ]"
			style = DroppedStyle
		}
		rows = append(rows, fmt.Sprintf("  %s%s %s", marker, box, style.Render(t)))
	}

	removed := len(m.sess.Selection.Removed())
	rows = append(rows, "",
		SubtitleStyle.Render(fmt.Sprintf("  %d section(s) marked for removal", removed)),
		HelpStyle.Render("space: toggle  |  a: keep all in group  |  h/l: switch group  |  j/k: move"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *TopicsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}
