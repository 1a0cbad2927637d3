package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// labelWidth aligns the input column across the form.
const labelWidth = 28

// FormModel is the project-fields screen: one text input per field, a
// single focused input at a time.
type FormModel struct {
	fields []FormField
	inputs []textinput.Model
	focus  int
	width  int
	height int
}

func NewFormModel(sess *Session) FormModel {
	fields := FormFieldsFromState(sess)
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.SetValue(f.Value)
		ti.Prompt = ""
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}
	return FormModel{fields: fields, inputs: inputs}
}

func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "shift+tab":
			return m.setFocus(MoveFocus(m.focus, -1, len(m.inputs)))
		case "down", "tab", "enter":
			return m.setFocus(MoveFocus(m.focus, +1, len(m.inputs)))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m FormModel) setFocus(focus int) (FormModel, tea.Cmd) {
	if focus == m.focus {
		return m, nil
	}
	m.inputs[m.focus].Blur()
	m.focus = focus
	return m, m.inputs[m.focus].Focus()
}

func (m FormModel) View() string {
	rows := m.renderRows()

	start, end := VisibleRange(len(rows), m.contentHeight(), m.rowForField(m.focus))
	visible := rows[start:end]

	body := lipgloss.JoinVertical(lipgloss.Left, visible...)
	help := HelpStyle.Render("tab/enter: next field  |  shift+tab: previous  |  type to edit")
	return lipgloss.JoinVertical(lipgloss.Left, body, "", help)
}

// renderRows lays out every field with a section header where the section
// changes. Row indices therefore run past field indices; rowForField maps
// between the two.
func (m FormModel) renderRows() []string {
	var rows []string
	section := ""
	for i, f := range m.fields {
		if f.Section != section {
			section = f.Section
			rows = append(rows, SectionStyle.Render("  "+section))
		}
		rows = append(rows, m.renderField(i))
	}
	return rows
}

func (m FormModel) renderField(i int) string {
	label := m.fields[i].Label
	for len(label) < labelWidth {
		label += " "
	}

	marker := "  "
	labelStyle := LabelStyle
	if i == m.focus {
		marker = CursorStyle.Render("> ")
		labelStyle = KeptStyle
	}

	input := m.inputs[i]
	input.Width = m.inputWidth()
	return marker + labelStyle.Render(label) + input.View()
}

func (m FormModel) inputWidth() int {
	w := m.width - labelWidth - 6
	if w < 16 {
		w = 16
	}
	return w
}

// rowForField returns the render-row index of field i, accounting for the
// section header rows inserted above it.
func (m FormModel) rowForField(i int) int {
	headers := 0
	section := ""
	for k := 0; k <= i && k < len(m.fields); k++ {
		if m.fields[k].Section != section {
			section = m.fields[k].Section
			headers++
		}
	}
	return i + headers
}

func (m FormModel) contentHeight() int {
	h := m.height - 2
	if h < 4 {
		h = 4
	}
	return h
}

// Fields snapshots the current input values back onto the field list.
func (m FormModel) Fields() []FormField {
	out := make([]FormField, len(m.fields))
	copy(out, m.fields)
	for i := range out {
		out[i].Value = m.inputs[i].Value()
	}
	return out
}

func (m *FormModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}
