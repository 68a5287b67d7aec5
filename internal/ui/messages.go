package ui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/ResumeScreen/internal/logger"
	"github.com/yildizm/ResumeScreen/internal/session"
)

// Messages delivered back to the update loop by asynchronous commands
type decodeDoneMsg struct {
	job     *session.DecodeJob
	content string
	err     error
}

type analysisDoneMsg struct {
	ticket  session.Ticket
	outcome session.Outcome
}

type healthMsg struct {
	report session.HealthReport
}

type copiedMsg struct {
	err error
}

// decodeCommand reads a selected text file off the update loop
func decodeCommand(job *session.DecodeJob) tea.Cmd {
	return func() tea.Msg {
		content, err := job.Run()
		return decodeDoneMsg{job: job, content: content, err: err}
	}
}

// analysisCommand performs the service call for a ticket
func analysisCommand(ctx context.Context, p session.Predictor, ticket session.Ticket) tea.Cmd {
	return func() tea.Msg {
		return analysisDoneMsg{ticket: ticket, outcome: session.Execute(ctx, p, ticket)}
	}
}

// healthCommand runs the startup probe
func healthCommand(ctx context.Context, hc session.HealthChecker, log *logger.Logger) tea.Cmd {
	return func() tea.Msg {
		return healthMsg{report: session.Probe(ctx, hc, log)}
	}
}

// copyCommand writes text to the system clipboard
func copyCommand(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}
