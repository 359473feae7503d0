package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultTimeout = 2 * time.Minute

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	spinnerSeq  = []string{"|", "/", "-", "\\"}
	tickSpacing = 120 * time.Millisecond
)

type (
	doneMsg struct {
		details []string
		err     error
	}
	tickMsg struct{}
)

type model struct {
	title   string
	timeout time.Duration
	action  func(context.Context) ([]string, error)
	cancel  context.CancelFunc

	frame   int
	started time.Time
	elapsed time.Duration
	details []string
	err     error
	done    bool
}

func tick() tea.Cmd {
	return tea.Tick(tickSpacing, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) Init() tea.Cmd {
	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		details, err := m.action(ctx)
		return doneMsg{details: details, err: err}
	}
	return tea.Batch(run, tick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	case doneMsg:
		m.details, m.err, m.done = msg.details, msg.err, true
		m.elapsed = time.Since(m.started)
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	if !m.done {
		fmt.Fprintf(&b, "%s running\n", spinnerSeq[m.frame%len(spinnerSeq)])
		return b.String()
	}
	if m.err != nil {
		fmt.Fprintf(&b, "%s: %v\n", failStyle.Render("FAILED"), m.err)
	} else {
		b.WriteString(okStyle.Render("OK"))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" (%s)", m.elapsed.Round(time.Millisecond))))
		b.WriteString("\n")
	}
	for _, d := range m.details {
		b.WriteString("  - ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	return b.String()
}

// Run shows a spinner while action runs, then its details. A zero timeout
// falls back to two minutes.
func Run(title string, timeout time.Duration, action func(context.Context) ([]string, error)) ([]string, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	m := model{title: title, timeout: timeout, action: action, started: time.Now()}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}
	res := final.(model)
	return res.details, res.err
}
