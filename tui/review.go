package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/wwpbim/bepgen/bep"
	"github.com/wwpbim/bepgen/preview"
	"github.com/wwpbim/bepgen/textgen"
)

// fillDoneMsg carries a finished fill back into the message loop.
type fillDoneMsg struct {
	outcome bep.FillOutcome
	err     error
}

// generateDoneMsg carries a finished generation.
type generateDoneMsg struct {
	outcome bep.GenerateOutcome
	err     error
}

const summaryHeight = 3 // settings + result blocks claim the rest

// ReviewModel is the final screen: the input summary, the run
// preferences, and the generate/fill actions.
type ReviewModel struct {
	sess     *Session
	svc      *bep.Service
	viewport viewport.Model
	spinner  spinner.Model
	running  bool
	result   []string
	resultOK bool
	width    int
	height   int
}

func NewReviewModel(sess *Session, svc *bep.Service) ReviewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Secondary)

	m := ReviewModel{
		sess:     sess,
		svc:      svc,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
	m.refreshSummary()
	return m
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (ReviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case fillDoneMsg:
		m.running = false
		if msg.err != nil {
			m.result = []string{"Fill failed: " + msg.err.Error()}
			m.resultOK = false
			return m, nil
		}
		m.sess.LastOutput = msg.outcome.OutputPath
		m.result = FormatFillResult(msg.outcome)
		m.resultOK = true
		if m.sess.AutoOpen {
			return m, openCmd(msg.outcome.OutputPath)
		}
		return m, nil

	case generateDoneMsg:
		m.running = false
		if msg.err != nil {
			m.result = []string{"Generation failed: " + msg.err.Error()}
			m.resultOK = false
			return m, nil
		}
		m.result = FormatGenerateResult(msg.outcome)
		m.resultOK = !msg.outcome.FromError
		if msg.outcome.FromError {
			return m, nil
		}
		m.sess.LastOutput = msg.outcome.OutputPath
		if m.sess.AutoOpen {
			return m, openPreviewCmd(msg.outcome.OutputPath)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		switch msg.String() {
		case "g":
			m.running = true
			m.result = nil
			return m, tea.Batch(m.generateCmd(), m.spinner.Tick)
		case "f":
			if msg := CanFill(m.sess); msg != "" {
				m.result = []string{msg}
				m.resultOK = false
				return m, nil
			}
			m.running = true
			m.result = nil
			return m, tea.Batch(m.fillCmd(), m.spinner.Tick)
		case "w":
			m.sess.Payload.EnableWatermark = !m.sess.Payload.EnableWatermark
			m.refreshSummary()
		case "o":
			m.sess.AutoOpen = !m.sess.AutoOpen
		case "enter":
			if m.sess.LastOutput != "" {
				return m, openCmd(m.sess.LastOutput)
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ReviewModel) generateCmd() tea.Cmd {
	svc := m.svc
	p := m.sess.Payload
	return func() tea.Msg {
		outcome, err := svc.Generate(context.Background(), p)
		return generateDoneMsg{outcome: outcome, err: err}
	}
}

func (m ReviewModel) fillCmd() tea.Cmd {
	svc := m.svc
	req := bep.FillRequest{
		TemplatePath: m.sess.Template,
		Payload:      m.sess.Payload,
		RemoveTopics: m.sess.Selection.Removed(),
	}
	return func() tea.Msg {
		outcome, err := svc.Fill(context.Background(), req)
		return fillDoneMsg{outcome: outcome, err: err}
	}
}

// openCmd opens a produced file with the OS default handler. Failures
// are cosmetic and dropped.
func openCmd(path string) tea.Cmd {
	return func() tea.Msg {
		_ = preview.Open(path)
		return nil
	}
}

// openPreviewCmd renders the markdown to a sibling HTML file and opens
// that, so the browser shows formatted prose instead of raw markdown.
func openPreviewCmd(mdPath string) tea.Cmd {
	return func() tea.Msg {
		if html, err := preview.WriteHTML(mdPath); err == nil {
			_ = preview.Open(html)
		}
		return nil
	}
}

func (m *ReviewModel) refreshSummary() {
	text := textgen.Summary(m.sess.Payload)
	m.viewport.SetContent(wordwrap.String(text, m.viewportWidth()))
}

func (m ReviewModel) viewportWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m ReviewModel) View() string {
	var sections []string

	sections = append(sections, SectionStyle.Render("  Review"), "")
	for _, line := range SettingsLines(m.sess) {
		sections = append(sections, "  "+LabelStyle.Render(line))
	}
	sections = append(sections, "", m.viewport.View(), "")

	if m.running {
		sections = append(sections, "  "+m.spinner.View()+" running...")
	} else if len(m.result) > 0 {
		style := OkStyle
		if !m.resultOK {
			style = ErrStyle
		}
		for _, line := range m.result {
			sections = append(sections, style.Render("  "+wordwrap.String(line, m.viewportWidth())))
		}
	}

	sections = append(sections, "",
		HelpStyle.Render("g: generate prose  |  f: fill template  |  w: watermark  |  o: auto-open  |  enter: open last output"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ReviewModel) SetSize(w, h int) {
	m.width = w
	m.height = h

	vpHeight := h - 16
	if vpHeight < summaryHeight {
		vpHeight = summaryHeight
	}
	m.viewport.Width = w
	m.viewport.Height = vpHeight
	m.refreshSummary()
}
