package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SessionsModel is the clash-session screen: per-session keep toggles,
// the restore-defaults action, and the start-fresh flag.
type SessionsModel struct {
	sess   *Session
	cursor int
	width  int
	height int
	notice string
}

func NewSessionsModel(sess *Session) SessionsModel {
	return SessionsModel{sess: sess}
}

func (m SessionsModel) Init() tea.Cmd {
	return nil
}

func (m SessionsModel) Update(msg tea.Msg) (SessionsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	p := m.sess.Payload
	switch key.String() {
	case "up", "k":
		m.cursor = ClampCursor(m.cursor-1, len(p.Sessions))
	case "down", "j":
		m.cursor = ClampCursor(m.cursor+1, len(p.Sessions))
	case " ", "space", "enter":
		if m.cursor < len(p.Sessions) {
			p.Sessions[m.cursor].Keep = !p.Sessions[m.cursor].Keep
		}
	case "r":
		added := p.RestoreMissingSessions()
		m.notice = fmt.Sprintf("%d default session(s) restored", added)
	case "f":
		p.StartFresh = !p.StartFresh
	}
	return m, nil
}

func (m SessionsModel) View() string {
	p := m.sess.Payload

	var rows []string
	rows = append(rows, SectionStyle.Render("  Clash detection sessions"), "")
	for i, s := range p.Sessions {
		marker := "  "
		if i == m.cursor {
			marker = CursorStyle.Render("> ")
		}
		box := "[ ]"
		style := DroppedStyle
		if s.Keep {
			box = "[x]"
			style = KeptStyle
		}
		rows = append(rows, fmt.Sprintf("  %s%s %s", marker, box,
			style.Render(fmt.Sprintf("%s · %s", s.Name, s.DisciplinePair))))
	}

	fresh := "off"
	freshStyle := SubtitleStyle
	if p.StartFresh {
		fresh = "on"
		freshStyle = OkStyle
	}
	rows = append(rows, "",
		"  "+LabelStyle.Render("Start fresh (delete existing sessions): ")+freshStyle.Render(fresh))

	if m.notice != "" {
		rows = append(rows, "", OkStyle.Render("  "+m.notice))
	}
	rows = append(rows, "",
		HelpStyle.Render("space: toggle keep  |  r: restore defaults  |  f: start fresh  |  j/k: move"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *SessionsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}
