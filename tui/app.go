// Package tui is the interactive terminal form: project fields, topic
// keep/remove checklist, clash-session toggles, and a review screen that
// runs generation or the template fill. The form only edits a payload and
// a topic selection; all document work goes through the bep service.
package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wwpbim/bepgen/bep"
	"github.com/wwpbim/bepgen/payload"
	"github.com/wwpbim/bepgen/preset"
)

// Phase identifies one screen of the form flow.
type Phase int

const (
	PhaseForm Phase = iota
	PhaseTopics
	PhaseSessions
	PhaseReview
)

// TransitionMsg signals a phase transition.
type TransitionMsg struct {
	To Phase
}

// Session is the live working state shared by every phase: the payload
// being edited, the topic selection, and the run preferences. Phases
// mutate it through the shared pointer; Run persists it on exit.
type Session struct {
	Payload    *payload.Payload
	Selection  *payload.TopicSelection
	Template   string
	AutoOpen   bool
	LastOutput string
}

// NewSession builds a working session from persisted form state. The
// template argument is the configured fallback used when the saved state
// has no template path of its own.
func NewSession(st preset.State, template string) *Session {
	p := st.Payload
	sel := payload.NewTopicSelection()
	sel.SetRemoved(st.RemovedTopics)
	tpl := st.TemplatePath
	if tpl == "" {
		tpl = template
	}
	return &Session{
		Payload:    &p,
		Selection:  sel,
		Template:   tpl,
		AutoOpen:   st.AutoOpen,
		LastOutput: st.LastOutputPath,
	}
}

// State converts the session back into the persisted form-state record.
func (s *Session) State() preset.State {
	return preset.State{
		Payload:        *s.Payload,
		AutoOpen:       s.AutoOpen,
		TemplatePath:   s.Template,
		LastOutputPath: s.LastOutput,
		RemovedTopics:  s.Selection.Removed(),
	}
}

// Options wires the form to the rest of the application.
type Options struct {
	Service  *bep.Service
	Presets  *preset.Store
	Template string
	Logger   *slog.Logger
}

// AppModel is the root bubbletea model managing phase transitions.
type AppModel struct {
	sess     *Session
	svc      *bep.Service
	logger   *slog.Logger
	phase    Phase
	form     FormModel
	topics   TopicsModel
	sessions SessionsModel
	review   ReviewModel
	width    int
	height   int
	err      error
	quitting bool
}

// NewAppModel creates the root model over a working session.
func NewAppModel(sess *Session, svc *bep.Service, logger *slog.Logger) AppModel {
	if logger == nil {
		logger = slog.Default()
	}
	return AppModel{
		sess:     sess,
		svc:      svc,
		logger:   logger,
		phase:    PhaseForm,
		form:     NewFormModel(sess),
		topics:   NewTopicsModel(sess),
		sessions: NewSessionsModel(sess),
		review:   NewReviewModel(sess, svc),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve space for header and status bar
		contentHeight := m.height - 4
		if contentHeight < 0 {
			contentHeight = 0
		}
		m.form.SetSize(m.width, contentHeight)
		m.topics.SetSize(m.width, contentHeight)
		m.sessions.SetSize(m.width, contentHeight)
		m.review.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.leaveForm()
			m.quitting = true
			return m, tea.Quit
		case "ctrl+p":
			return m, m.transitionToPrevPhase()
		case "ctrl+n":
			return m, m.transitionToNextPhase()
		}

	case TransitionMsg:
		m.err = nil
		m.leaveForm()
		m.phase = msg.To

		// Recreate the entered phase so it reflects edits made elsewhere.
		var initCmd tea.Cmd
		switch msg.To {
		case PhaseForm:
			m.form = NewFormModel(m.sess)
			m.form.SetSize(m.width, m.height-4)
			initCmd = m.form.Init()
		case PhaseTopics:
			m.topics = NewTopicsModel(m.sess)
			m.topics.SetSize(m.width, m.height-4)
		case PhaseSessions:
			m.sessions = NewSessionsModel(m.sess)
			m.sessions.SetSize(m.width, m.height-4)
		case PhaseReview:
			m.review = NewReviewModel(m.sess, m.svc)
			m.review.SetSize(m.width, m.height-4)
		}
		return m, initCmd
	}

	// Delegate to the active phase
	var cmd tea.Cmd
	switch m.phase {
	case PhaseForm:
		m.form, cmd = m.form.Update(msg)
	case PhaseTopics:
		m.topics, cmd = m.topics.Update(msg)
	case PhaseSessions:
		m.sessions, cmd = m.sessions.Update(msg)
	case PhaseReview:
		m.review, cmd = m.review.Update(msg)
	}
	return m, cmd
}

// leaveForm flushes form inputs into the payload so edits survive any
// exit path, including ctrl+c.
func (m *AppModel) leaveForm() {
	if m.phase == PhaseForm {
		m.sess.Template = ApplyFormFields(m.form.Fields(), m.sess.Payload)
	}
}

func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	header := m.renderHeader()

	var content string
	switch m.phase {
	case PhaseForm:
		content = m.form.View()
	case PhaseTopics:
		content = m.topics.View()
	case PhaseSessions:
		content = m.sessions.View()
	case PhaseReview:
		content = m.review.View()
	}

	if m.err != nil {
		errMsg := ErrStyle.Render(fmt.Sprintf("Error: %v", m.err))
		content = lipgloss.JoinVertical(lipgloss.Left, content, errMsg)
	}

	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m AppModel) renderHeader() string {
	title := TitleStyle.Render("bepgen")

	phases := []struct {
		name  string
		phase Phase
	}{
		{"Project", PhaseForm},
		{"Topics", PhaseTopics},
		{"Sessions", PhaseSessions},
		{"Review", PhaseReview},
	}

	var phaseIndicators string
	for i, p := range phases {
		style := PhaseLabelStyle
		if p.phase == m.phase {
			style = PhaseActiveStyle
		}
		if i > 0 {
			phaseIndicators += SubtitleStyle.Render(" > ")
		}
		phaseIndicators += style.Render(p.name)
	}

	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", phaseIndicators)

	return lipgloss.NewStyle().
		Width(m.width).
		Background(lipgloss.Color("#1F2937")).
		PaddingLeft(1).
		Render(headerContent)
}

func (m AppModel) renderStatusBar() string {
	help := "ctrl+c: quit"
	if m.phase != PhaseForm {
		help = "ctrl+p: prev  |  " + help
	}
	if m.phase != PhaseReview {
		help = "ctrl+n: next  |  " + help
	}
	return StatusBar.Width(m.width).Render(help)
}

// Session returns the working session for final persistence.
func (m AppModel) Session() *Session {
	return m.sess
}

func (m AppModel) transitionToPrevPhase() tea.Cmd {
	var prev Phase
	switch m.phase {
	case PhaseTopics:
		prev = PhaseForm
	case PhaseSessions:
		prev = PhaseTopics
	case PhaseReview:
		prev = PhaseSessions
	default:
		return nil
	}
	return func() tea.Msg {
		return TransitionMsg{To: prev}
	}
}

func (m AppModel) transitionToNextPhase() tea.Cmd {
	var next Phase
	switch m.phase {
	case PhaseForm:
		next = PhaseTopics
	case PhaseTopics:
		next = PhaseSessions
	case PhaseSessions:
		next = PhaseReview
	default:
		return nil
	}
	return func() tea.Msg {
		return TransitionMsg{To: next}
	}
}

// Run drives the whole form flow: load persisted state, run the program,
// and persist the session on exit. Persistence failures are logged and
// swallowed so a broken data dir never eats an editing session's outputs.
func Run(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	st := preset.Default()
	if opts.Presets != nil {
		st = opts.Presets.Load()
	}
	sess := NewSession(st, opts.Template)

	model := NewAppModel(sess, opts.Service, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if m, ok := final.(AppModel); ok && opts.Presets != nil {
		if saveErr := opts.Presets.Save(m.Session().State()); saveErr != nil {
			logger.Warn("could not save form state", "error", saveErr)
		}
	}
	return nil
}
