package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ResumeScreen/internal/emoji"
	"github.com/yildizm/ResumeScreen/internal/session"
)

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye! " + emoji.GetEmoji("door") + "\n"
	}

	sections := []string{
		m.styles.Title.Render(emoji.GetEmoji("target") + " ResumeScreen"),
	}
	if m.healthNote != "" {
		sections = append(sections, m.styles.Warning.Render(emoji.GetEmoji("health")+" "+m.healthNote))
	}

	sections = append(sections, m.paneStyle(focusEditor).Render(m.editor.View()))

	if m.focus == focusPath {
		sections = append(sections, m.path.View())
	}
	if status := m.status(); status != "" {
		sections = append(sections, status)
	}
	if m.showResults {
		sections = append(sections, m.paneStyle(focusResults).Render(m.results.View()))
	}

	sections = append(sections, m.styles.Muted.Render(helpLine))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// status describes the input and any pending work
func (m *Model) status() string {
	var parts []string

	switch {
	case m.ctrl.Loading():
		parts = append(parts, m.spinner.View()+" Analyzing resume...")
	case m.ctrl.Decoding():
		parts = append(parts, m.spinner.View()+" Reading file...")
	}

	if in, ok := m.ctrl.Input().(session.FileInput); ok {
		icon := emoji.GetEmoji("file")
		if in.Kind == session.KindPDF {
			icon = emoji.GetEmoji("pdf")
		}
		parts = append(parts, m.styles.Accent.Render(icon+" "+in.DisplayName))
	}

	if m.statusLine != "" {
		style := m.styles.Success
		if m.statusWarn {
			style = m.styles.Warning
		}
		parts = append(parts, style.Render(m.statusLine))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) paneStyle(f focus) lipgloss.Style {
	if f == focusEditor && !m.ctrl.Surface().Editable {
		return m.styles.Locked
	}
	if m.focus == f {
		return m.styles.Focused
	}
	return m.styles.Pane
}
