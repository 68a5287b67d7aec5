package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/ResumeScreen/internal/emoji"
	"github.com/yildizm/ResumeScreen/internal/logger"
	"github.com/yildizm/ResumeScreen/internal/render"
	"github.com/yildizm/ResumeScreen/internal/session"
)

// Service is what the TUI needs from the classification client
type Service interface {
	session.Predictor
	session.HealthChecker
}

// focus identifies the pane receiving key presses
type focus int

const (
	focusEditor focus = iota
	focusPath
	focusResults
)

const helpLine = "ctrl+r analyze • ctrl+o open file • ctrl+x clear • ctrl+y copy • tab switch pane • ctrl+c quit"

// Options configure a Model
type Options struct {
	Controller *session.Controller
	Service    Service
	Renderer   render.Renderer
	Logger     *logger.Logger
}

// Model is the bubbletea model hosting one analysis session
type Model struct {
	ctx      context.Context
	ctrl     *session.Controller
	svc      Service
	renderer render.Renderer
	log      *logger.Logger
	styles   *Styles

	editor  textarea.Model
	path    textinput.Model
	spinner spinner.Model
	results viewport.Model

	focus       focus
	showResults bool
	rendered    string
	healthNote  string
	statusLine  string
	statusWarn  bool
	width       int
	height      int
	quitting    bool

	copy func(string) error
}

// New creates the TUI model
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Controller == nil {
		opts.Controller = session.NewController(nil, opts.Logger)
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewTerminal(render.Options{Emoji: !emoji.IsEmojiDisabled()})
	}

	editor := textarea.New()
	editor.Placeholder = "Paste resume text here, or press ctrl+o to open a .txt or .pdf file"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Focus()

	path := textinput.New()
	path.Prompt = emoji.GetEmoji("file") + " "
	path.Placeholder = "path/to/resume.pdf"

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ctx:      context.Background(),
		ctrl:     opts.Controller,
		svc:      opts.Service,
		renderer: opts.Renderer,
		log:      opts.Logger.WithComponent("ui"),
		styles:   GetStyles(),
		editor:   editor,
		path:     path,
		spinner:  spin,
		results:  viewport.New(80, 12),
		copy:     systemClipboard,
	}
}

// Init starts the cursor blink and the background health probe
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.svc != nil {
		cmds = append(cmds, healthCommand(m.ctx, m.svc, m.log))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case decodeDoneMsg:
		m.ctrl.CompleteDecode(msg.job, msg.content, msg.err)
		m.sync()
		return m, nil

	case analysisDoneMsg:
		if m.ctrl.Resolve(msg.ticket, msg.outcome) {
			m.sync()
		}
		return m, nil

	case healthMsg:
		m.healthNote = msg.report.Note()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.log.WarnWithFields("clipboard copy failed", []logger.Field{logger.Error(msg.err)})
			m.statusLine = emoji.GetEmoji("warning") + " Could not copy to clipboard"
		} else {
			m.statusLine = emoji.GetEmoji("clipboard") + " Result copied"
		}
		m.statusWarn = msg.err != nil
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == focusPath {
		return m.handlePathKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+r":
		return m, m.analyze()
	case "ctrl+o":
		return m, m.openPrompt()
	case "ctrl+x":
		m.ctrl.Clear()
		m.statusLine = ""
		m.sync()
		m.setFocus(focusEditor)
		return m, nil
	case "ctrl+y":
		if m.rendered == "" {
			return m, nil
		}
		return m, copyCommand(m.copy, m.rendered)
	case "tab":
		if m.showResults {
			if m.focus == focusEditor {
				m.setFocus(focusResults)
			} else {
				m.setFocus(focusEditor)
			}
		}
		return m, nil
	}

	switch m.focus {
	case focusResults:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	default:
		return m, m.edit(msg)
	}
}

func (m *Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.path.SetValue("")
		m.setFocus(focusEditor)
		return m, nil
	case "enter":
		p := strings.TrimSpace(m.path.Value())
		m.path.SetValue("")
		m.setFocus(focusEditor)
		if p == "" {
			return m, nil
		}
		return m, m.selectFile(session.FileBlob{Path: expandHome(p)})
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

// edit forwards a key press to the editor when the surface is editable
func (m *Model) edit(msg tea.KeyMsg) tea.Cmd {
	if !m.ctrl.Surface().Editable {
		return nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if err := m.ctrl.EditText(m.editor.Value()); err != nil {
		m.log.Debug("edit rejected: %v", err)
	}
	m.sync()
	return cmd
}

// analyze dispatches the current input. It is inert while busy.
func (m *Model) analyze() tea.Cmd {
	if !m.ctrl.CanAnalyze() || m.svc == nil {
		return nil
	}

	ticket, ok := m.ctrl.Analyze()
	m.statusLine = ""
	m.sync()
	if !ok {
		return nil
	}
	return tea.Batch(analysisCommand(m.ctx, m.svc, ticket), m.spinner.Tick)
}

func (m *Model) openPrompt() tea.Cmd {
	m.setFocus(focusPath)
	return textinput.Blink
}

func (m *Model) selectFile(blob session.Blob) tea.Cmd {
	job := m.ctrl.SelectFile(blob)
	m.statusLine = ""
	m.sync()
	if job == nil {
		return nil
	}
	return tea.Batch(decodeCommand(job), m.spinner.Tick)
}

// sync copies controller state into the widgets
func (m *Model) sync() {
	surface := m.ctrl.Surface()
	if m.editor.Value() != surface.Text {
		m.editor.SetValue(surface.Text)
	}

	state := m.ctrl.State()
	if state.Phase != session.Displaying || state.Outcome == nil {
		m.showResults = false
		m.rendered = ""
		if m.focus == focusResults {
			m.setFocus(focusEditor)
		}
		return
	}

	out, err := m.renderer.Render(state.Outcome)
	if err != nil {
		m.log.Error("render failed: %v", err)
		return
	}

	text := strings.TrimRight(string(out), "\n")
	if text == m.rendered && m.showResults {
		return
	}
	m.rendered = text
	m.results.SetContent(m.styleOutcome(state.Outcome, text))
	m.reveal()
}

// reveal shows the results pane scrolled to the top. Focus stays where it
// is so typing continues in the editor; tab moves to the results.
func (m *Model) reveal() {
	m.showResults = true
	m.results.GotoTop()
}

func (m *Model) styleOutcome(outcome session.Outcome, text string) string {
	if IsColorDisabled() {
		return text
	}
	if _, ok := outcome.(session.Failure); ok {
		return m.styles.Error.Render(text)
	}
	return text
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.editor.Blur()
	m.path.Blur()

	switch f {
	case focusEditor:
		if m.ctrl.Surface().Editable {
			m.editor.Focus()
		}
	case focusPath:
		m.path.Focus()
	}
}

func (m *Model) busy() bool {
	return m.ctrl.Loading() || m.ctrl.Decoding()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	m.editor.SetWidth(inner)
	m.path.Width = inner - 4
	m.results.Width = inner

	// title, status, help and borders take the remaining rows
	avail := height - 10
	if avail < 6 {
		avail = 6
	}
	m.editor.SetHeight(avail / 2)
	m.results.Height = avail - avail/2
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// Run starts the TUI and blocks until the user quits
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}
